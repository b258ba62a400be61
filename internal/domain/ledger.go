package domain

import (
	"time"

	"github.com/google/uuid"
)

type EntryStatus string

const (
	EntryStatusPending   EntryStatus = "pending"
	EntryStatusConfirmed EntryStatus = "confirmed"
	EntryStatusFailed    EntryStatus = "failed"
)

// LedgerEntry is an immutable record of a balance movement between two
// accounts. Payer and payee coincide only for the initial-deposit entry
// written at registration.
type LedgerEntry struct {
	ID              uuid.UUID
	PayerAccountID  uuid.UUID
	PayeeAccountID  uuid.UUID
	Amount          int64
	Currency        Currency
	Concept         string
	Status          EntryStatus
	PreferredMethod string
	IdempotencyKey  *string
	TxID            *string
	CreatedAt       time.Time
}
