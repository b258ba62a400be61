package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tandalabs/wallet-api/internal/domain"
	"github.com/tandalabs/wallet-api/internal/logging"
	"github.com/tandalabs/wallet-api/internal/service"
)

type balanceService interface {
	Balance(ctx context.Context, userID, wpUserID string) (*service.BalanceInfo, error)
}

type BalanceHandler struct {
	wallet balanceService
}

func NewBalanceHandler(wallet balanceService) *BalanceHandler {
	return &BalanceHandler{wallet: wallet}
}

type balanceRequest struct {
	UserID          string `json:"user_id"`
	Phone           string `json:"phone"`
	WPUserID        string `json:"wp_user_id"`
	PreferredMethod string `json:"preferred_method"`
}

func (r balanceRequest) missingFields() []string {
	var missing []string
	if r.UserID == "" {
		missing = append(missing, "user_id")
	}
	if r.Phone == "" {
		missing = append(missing, "phone")
	}
	if r.WPUserID == "" {
		missing = append(missing, "wp_user_id")
	}
	if r.PreferredMethod == "" {
		missing = append(missing, "preferred_method")
	}
	return missing
}

type balanceResponse struct {
	UserID          string      `json:"user_id"`
	Phone           string      `json:"phone"`
	WPUserID        string      `json:"wp_user_id"`
	PreferredMethod string      `json:"preferred_method"`
	Balance         json.Number `json:"balance"`
	Currency        string      `json:"currency"`
}

func (h *BalanceHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var req balanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidBody)
		return
	}

	if missing := req.missingFields(); len(missing) > 0 {
		log.Warn("balance request incomplete", "missing", missing)
		RespondAppError(w, ErrMissingFields)
		return
	}

	info, err := h.wallet.Balance(r.Context(), req.UserID, req.WPUserID)
	if err != nil {
		log.Error("balance lookup failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, balanceResponse{
		UserID:          req.UserID,
		Phone:           req.Phone,
		WPUserID:        req.WPUserID,
		PreferredMethod: req.PreferredMethod,
		Balance:         json.Number(domain.DecimalFromCents(info.Cents).String()),
		Currency:        string(info.Currency),
	})
}
