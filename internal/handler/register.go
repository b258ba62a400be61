package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/tandalabs/wallet-api/internal/domain"
	"github.com/tandalabs/wallet-api/internal/logging"
	"github.com/tandalabs/wallet-api/internal/service"
)

type registrationService interface {
	Register(ctx context.Context, req service.RegistrationRequest) (*service.Registration, error)
}

type RegisterHandler struct {
	wallet registrationService
}

func NewRegisterHandler(wallet registrationService) *RegisterHandler {
	return &RegisterHandler{wallet: wallet}
}

type registerRequest struct {
	UserID          string `json:"user_id"`
	Phone           string `json:"phone"`
	PreferredMethod string `json:"preferred_method"`
	PIN             string `json:"pin"`
	WalletToken     string `json:"wallet_token"`
	WPUserID        string `json:"wp_user_id"`
}

func (r registerRequest) missingFields() []string {
	var missing []string
	if r.UserID == "" {
		missing = append(missing, "user_id")
	}
	if r.Phone == "" {
		missing = append(missing, "phone")
	}
	if r.PreferredMethod == "" {
		missing = append(missing, "preferred_method")
	}
	if r.PIN == "" {
		missing = append(missing, "pin")
	}
	if r.WalletToken == "" {
		missing = append(missing, "wallet_token")
	}
	if r.WPUserID == "" {
		missing = append(missing, "wp_user_id")
	}
	return missing
}

type registerResponse struct {
	UserID              string      `json:"user_id"`
	Phone               string      `json:"phone"`
	InterledgerWalletID string      `json:"interledger_wallet_id"`
	PreferredMethod     string      `json:"preferred_method"`
	AccountAddress      string      `json:"account_address"`
	WalletToken         string      `json:"wallet_token"`
	Currency            string      `json:"currency"`
	CreatedAt           time.Time   `json:"created_at"`
	WPUserID            string      `json:"wp_user_id"`
	InitialDeposit      json.Number `json:"initial_deposit"`
}

func (h *RegisterHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidBody)
		return
	}

	if missing := req.missingFields(); len(missing) > 0 {
		log.Warn("registration request incomplete", "missing", missing)
		RespondAppError(w, ErrMissingFields)
		return
	}

	reg, err := h.wallet.Register(r.Context(), service.RegistrationRequest{
		UserID:          req.UserID,
		Phone:           req.Phone,
		PreferredMethod: req.PreferredMethod,
		PIN:             req.PIN,
		WalletToken:     req.WalletToken,
		WPUserID:        req.WPUserID,
	})
	if err != nil {
		log.Warn("registration failed", "user_id", req.UserID, "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, registerResponse{
		UserID:              reg.Account.UserID,
		Phone:               reg.Account.Phone,
		InterledgerWalletID: reg.Account.WalletID,
		PreferredMethod:     reg.Account.PreferredMethod,
		AccountAddress:      reg.Account.WalletAddress,
		WalletToken:         reg.Account.WalletToken,
		Currency:            string(reg.Account.Currency),
		CreatedAt:           reg.Account.CreatedAt,
		WPUserID:            reg.Account.WPUserID,
		InitialDeposit:      json.Number(domain.DecimalFromCents(reg.InitialDeposit).String()),
	})
}
