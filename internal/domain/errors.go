package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrPayeeNotFound       = errors.New("payee account not found")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrCurrencyMismatch    = errors.New("currency mismatch")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrSelfTransfer        = errors.New("cannot transfer to same account")
	ErrDuplicateAccount    = errors.New("account already exists for this user")
	ErrDuplicateTransfer   = errors.New("idempotency key already used with a different request")
	ErrProviderRejected    = errors.New("payment provider rejected the operation")
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	ErrVersionConflict     = errors.New("optimistic lock conflict")
)
