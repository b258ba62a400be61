// Package transfer implements the balance-mutation sequence behind
// POST /api/transfer: resolve both accounts, check funds, debit, credit and
// append the ledger row as one atomic unit.
package transfer

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/tandalabs/wallet-api/internal/config"
	"github.com/tandalabs/wallet-api/internal/domain"
	"github.com/tandalabs/wallet-api/internal/provider"
)

const (
	defaultConcept = "Transferencia entre usuarios"
	defaultMethod  = "open_payments"
)

type accountRepo interface {
	GetByUserAndWP(ctx context.Context, userID, wpUserID string) (*domain.Account, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance int64, newVersion int64) error
}

type ledgerRepo interface {
	Create(ctx context.Context, tx *sql.Tx, entry *domain.LedgerEntry) error
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.LedgerEntry, error)
}

type Service struct {
	accounts        accountRepo
	ledger          ledgerRepo
	provider        provider.Provider
	db              *sql.DB
	providerTimeout time.Duration
}

func NewService(accounts accountRepo, ledger ledgerRepo, prov provider.Provider, db *sql.DB, cfg *config.Config) *Service {
	return &Service{
		accounts:        accounts,
		ledger:          ledger,
		provider:        prov,
		db:              db,
		providerTimeout: time.Duration(cfg.ProviderTimeoutS) * time.Second,
	}
}

// Request is the transient transfer input. Amounts are centavos.
type Request struct {
	TxID            string
	IdempotencyKey  string
	UserID          string
	WPUserID        string
	PayeeUserID     string
	PayeeWPUserID   string
	Amount          int64
	Currency        domain.Currency
	Concept         string
	PreferredMethod string
}

// Result carries the written (or replayed) ledger row together with the
// provider confirmation echoed to the API client.
type Result struct {
	Entry    *domain.LedgerEntry
	Provider provider.Confirmation
	Replayed bool
}

func (r *Request) withDefaults() Request {
	req := *r
	if req.Concept == "" {
		req.Concept = defaultConcept
	}
	if req.PreferredMethod == "" {
		req.PreferredMethod = defaultMethod
	}
	return req
}
