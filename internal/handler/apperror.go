package handler

import "net/http"

// AppError pairs an HTTP status with the two-field error body every failure
// returns: a human-readable message and a diagnostic terminal hint.
type AppError struct {
	Status   int
	Message  string
	Terminal string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingFields = &AppError{http.StatusBadRequest, "Missing required fields", "Incomplete request"}
	ErrInvalidBody   = &AppError{http.StatusBadRequest, "Invalid request body", "Malformed JSON"}
	ErrInvalidAmount = &AppError{http.StatusBadRequest, "Invalid amount", "Amount must be positive with at most two decimal places"}

	ErrInsufficientFunds = &AppError{http.StatusBadRequest, "Insufficient funds", "The payer does not have sufficient funds"}
	ErrCurrencyMismatch  = &AppError{http.StatusBadRequest, "Currency mismatch", "Transfer currency must match both accounts"}
	ErrSelfTransfer      = &AppError{http.StatusBadRequest, "Invalid transfer", "Payer and payee must be different accounts"}

	ErrPartyNotFound = &AppError{http.StatusNotFound, "Payer or payee not found", "No such user/account"}

	ErrDuplicateAccount  = &AppError{http.StatusConflict, "User already exists", "Duplicate registration"}
	ErrDuplicateTransfer = &AppError{http.StatusConflict, "Duplicate transfer", "Idempotency key already used with a different request"}

	ErrProviderRejected    = &AppError{http.StatusInternalServerError, "Payment provider rejected the operation", "Open Payments returned a failure"}
	ErrProviderUnavailable = &AppError{http.StatusInternalServerError, "Payment provider unavailable", "Open Payments did not respond in time"}
	ErrInternal            = &AppError{http.StatusInternalServerError, "An unexpected error occurred", "Internal error"}
)
