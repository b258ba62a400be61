package domain

import (
	"time"

	"github.com/google/uuid"
)

type Currency string

const CurrencyMXN Currency = "MXN"

// Account is a user's balance record in the ledger store. Balances are held
// in minor units (centavos) so arithmetic stays exact.
type Account struct {
	ID              uuid.UUID
	UserID          string
	WPUserID        string
	Phone           string
	Balance         int64
	Currency        Currency
	WalletID        string
	WalletAddress   string
	WalletToken     string
	PreferredMethod string
	PINHash         string
	Version         int64
	CreatedAt       time.Time
}
