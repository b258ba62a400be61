package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tandalabs/wallet-api/internal/domain"
)

type errorBody struct {
	Error    string `json:"error"`
	Terminal string `json:"@terminal"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondAppError(w http.ResponseWriter, appErr *AppError) {
	RespondJSON(w, appErr.Status, errorBody{Error: appErr.Message, Terminal: appErr.Terminal})
}

// RespondDomainError maps service-layer sentinel errors onto the wire
// taxonomy. Anything unrecognized is a 500.
func RespondDomainError(w http.ResponseWriter, err error) {
	var appErr *AppError

	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrPayeeNotFound),
		errors.Is(err, domain.ErrNotFound):
		appErr = ErrPartyNotFound
	case errors.Is(err, domain.ErrInsufficientFunds):
		appErr = ErrInsufficientFunds
	case errors.Is(err, domain.ErrCurrencyMismatch):
		appErr = ErrCurrencyMismatch
	case errors.Is(err, domain.ErrSelfTransfer):
		appErr = ErrSelfTransfer
	case errors.Is(err, domain.ErrInvalidAmount):
		appErr = ErrInvalidAmount
	case errors.Is(err, domain.ErrDuplicateAccount):
		appErr = ErrDuplicateAccount
	case errors.Is(err, domain.ErrDuplicateTransfer):
		appErr = ErrDuplicateTransfer
	case errors.Is(err, domain.ErrProviderRejected):
		appErr = ErrProviderRejected
	case errors.Is(err, domain.ErrProviderUnavailable):
		appErr = ErrProviderUnavailable
	default:
		slog.Error("unhandled domain error", "error", err)
		appErr = ErrInternal
	}

	RespondAppError(w, appErr)
}
