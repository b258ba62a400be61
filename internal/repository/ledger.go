package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/tandalabs/wallet-api/internal/domain"
)

const ledgerColumns = `id, payer_account_id, payee_account_id, amount, currency,
	concept, status, preferred_method, idempotency_key, tx_id, created_at`

type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Create(ctx context.Context, tx *sql.Tx, entry *domain.LedgerEntry) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO ledger_entries (
			id, payer_account_id, payee_account_id, amount, currency,
			concept, status, preferred_method, idempotency_key, tx_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		entry.ID, entry.PayerAccountID, entry.PayeeAccountID,
		entry.Amount, entry.Currency, entry.Concept, entry.Status,
		entry.PreferredMethod, entry.IdempotencyKey, entry.TxID, entry.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("Create: %w", domain.ErrDuplicateTransfer)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *LedgerRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.LedgerEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+ledgerColumns+` FROM ledger_entries WHERE idempotency_key = $1`, key,
	)
	e, err := scanLedgerEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByIdempotencyKey: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByIdempotencyKey: %w", err)
	}
	return e, nil
}

func scanLedgerEntry(s scanner) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	err := s.Scan(
		&e.ID, &e.PayerAccountID, &e.PayeeAccountID,
		&e.Amount, &e.Currency, &e.Concept, &e.Status,
		&e.PreferredMethod, &e.IdempotencyKey, &e.TxID, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
