package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/tandalabs/wallet-api/internal/domain"
	"github.com/tandalabs/wallet-api/internal/logging"
	"github.com/tandalabs/wallet-api/internal/provider"
	"github.com/tandalabs/wallet-api/internal/service/transfer"
)

type transferService interface {
	Execute(ctx context.Context, req transfer.Request) (*transfer.Result, error)
}

type TransferHandler struct {
	transfers transferService
}

func NewTransferHandler(transfers transferService) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

type transferRequest struct {
	TxID            string          `json:"tx_id"`
	UserID          string          `json:"user_id"`
	WPUserID        string          `json:"wp_user_id"`
	PayeeUserID     string          `json:"payee_user_id"`
	PayeeWPUserID   string          `json:"payee_wp_user_id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	CreatedAt       string          `json:"created_at"`
	IdempotencyKey  string          `json:"idempotency_key"`
	Concept         string          `json:"concept"`
	PreferredMethod string          `json:"preferred_method"`
}

func (r transferRequest) missingFields() []string {
	var missing []string
	if r.TxID == "" {
		missing = append(missing, "tx_id")
	}
	if r.UserID == "" {
		missing = append(missing, "user_id")
	}
	if r.WPUserID == "" {
		missing = append(missing, "wp_user_id")
	}
	if r.PayeeUserID == "" {
		missing = append(missing, "payee_user_id")
	}
	if r.PayeeWPUserID == "" {
		missing = append(missing, "payee_wp_user_id")
	}
	if r.Amount.IsZero() {
		missing = append(missing, "amount")
	}
	if r.Currency == "" {
		missing = append(missing, "currency")
	}
	if r.Status == "" {
		missing = append(missing, "status")
	}
	if r.CreatedAt == "" {
		missing = append(missing, "created_at")
	}
	if r.IdempotencyKey == "" {
		missing = append(missing, "idempotency_key")
	}
	return missing
}

type transferResponse struct {
	TxID            string                `json:"tx_id"`
	UserID          string                `json:"user_id"`
	WPUserID        string                `json:"wp_user_id"`
	PayeeUserID     string                `json:"payee_user_id"`
	PayeeWPUserID   string                `json:"payee_wp_user_id"`
	Amount          json.Number           `json:"amount"`
	Currency        string                `json:"currency"`
	Status          string                `json:"status"`
	CreatedAt       string                `json:"created_at"`
	IdempotencyKey  string                `json:"idempotency_key"`
	Concept         string                `json:"concept"`
	PreferredMethod string                `json:"preferred_method"`
	OpenPayments    provider.Confirmation `json:"openPayments"`
}

func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidBody)
		return
	}

	if missing := req.missingFields(); len(missing) > 0 {
		log.Warn("transfer request incomplete", "missing", missing)
		RespondAppError(w, ErrMissingFields)
		return
	}

	cents, err := domain.CentsFromDecimal(req.Amount)
	if err != nil || cents <= 0 {
		RespondAppError(w, ErrInvalidAmount)
		return
	}

	res, err := h.transfers.Execute(r.Context(), transfer.Request{
		TxID:            req.TxID,
		IdempotencyKey:  req.IdempotencyKey,
		UserID:          req.UserID,
		WPUserID:        req.WPUserID,
		PayeeUserID:     req.PayeeUserID,
		PayeeWPUserID:   req.PayeeWPUserID,
		Amount:          cents,
		Currency:        domain.Currency(req.Currency),
		Concept:         req.Concept,
		PreferredMethod: req.PreferredMethod,
	})
	if err != nil {
		log.Warn("transfer failed", "tx_id", req.TxID, "error", err)
		RespondDomainError(w, err)
		return
	}

	if res.Replayed {
		w.Header().Set("X-Idempotent-Replayed", "true")
	}

	RespondJSON(w, http.StatusOK, transferResponse{
		TxID:            req.TxID,
		UserID:          req.UserID,
		WPUserID:        req.WPUserID,
		PayeeUserID:     req.PayeeUserID,
		PayeeWPUserID:   req.PayeeWPUserID,
		Amount:          json.Number(domain.DecimalFromCents(res.Entry.Amount).String()),
		Currency:        string(res.Entry.Currency),
		Status:          string(res.Entry.Status),
		CreatedAt:       req.CreatedAt,
		IdempotencyKey:  req.IdempotencyKey,
		Concept:         res.Entry.Concept,
		PreferredMethod: res.Entry.PreferredMethod,
		OpenPayments:    res.Provider,
	})
}
