package transfer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tandalabs/wallet-api/internal/domain"
	"github.com/tandalabs/wallet-api/internal/logging"
	"github.com/tandalabs/wallet-api/internal/provider"
)

// Execute validates funds, adjusts both balances and appends the ledger row.
// Either every mutation commits or none does: payer + payee balances are
// conserved across any outcome.
func (s *Service) Execute(ctx context.Context, req Request) (*Result, error) {
	log := logging.FromContext(ctx)
	req = req.withDefaults()

	payer, payee, err := s.resolveAccounts(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Execute: %w", err)
	}

	if req.IdempotencyKey != "" {
		replayed, err := s.replay(ctx, req, payer, payee)
		if err != nil {
			return nil, fmt.Errorf("Execute: %w", err)
		}
		if replayed != nil {
			log.Info("transfer replayed", "tx_id", req.TxID, "idempotency_key", req.IdempotencyKey)
			return replayed, nil
		}
	}

	if err := validate(req, payer, payee); err != nil {
		return nil, fmt.Errorf("Execute: %w", err)
	}

	res, err := s.executeTransfer(ctx, req, payer.ID, payee.ID)
	if err != nil {
		return nil, fmt.Errorf("Execute: %w", err)
	}

	log.Info("transfer completed",
		"tx_id", req.TxID,
		"payer_account", payer.ID,
		"payee_account", payee.ID,
		"amount", req.Amount,
		"currency", req.Currency,
	)

	return res, nil
}

// Payer and payee resolve with the same strictness: external user id plus
// wp user id must both match.
func (s *Service) resolveAccounts(ctx context.Context, req Request) (*domain.Account, *domain.Account, error) {
	payer, err := s.accounts.GetByUserAndWP(ctx, req.UserID, req.WPUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("resolveAccounts: payer: %w", domain.ErrAccountNotFound)
		}
		return nil, nil, fmt.Errorf("resolveAccounts: payer: %w", err)
	}

	payee, err := s.accounts.GetByUserAndWP(ctx, req.PayeeUserID, req.PayeeWPUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("resolveAccounts: payee: %w", domain.ErrPayeeNotFound)
		}
		return nil, nil, fmt.Errorf("resolveAccounts: payee: %w", err)
	}

	return payer, payee, nil
}

// replay returns the prior result when the idempotency key was already
// consumed by an identical request, nil when the key is fresh.
func (s *Service) replay(ctx context.Context, req Request, payer, payee *domain.Account) (*Result, error) {
	entry, err := s.ledger.GetByIdempotencyKey(ctx, req.IdempotencyKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("replay: %w", err)
	}

	if entry.Amount != req.Amount ||
		entry.Currency != req.Currency ||
		entry.PayerAccountID != payer.ID ||
		entry.PayeeAccountID != payee.ID {
		return nil, fmt.Errorf("replay: %w", domain.ErrDuplicateTransfer)
	}

	return &Result{
		Entry: entry,
		Provider: provider.Confirmation{
			Status:  string(entry.Status),
			Message: "Previously confirmed transfer",
		},
		Replayed: true,
	}, nil
}

func validate(req Request, payer, payee *domain.Account) error {
	if req.Amount <= 0 {
		return fmt.Errorf("validate: %w", domain.ErrInvalidAmount)
	}
	if payer.ID == payee.ID {
		return fmt.Errorf("validate: %w", domain.ErrSelfTransfer)
	}
	if req.Currency != payer.Currency || req.Currency != payee.Currency {
		return fmt.Errorf("validate: %w", domain.ErrCurrencyMismatch)
	}
	return nil
}

func (s *Service) executeTransfer(ctx context.Context, req Request, payerID, payeeID uuid.UUID) (*Result, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("executeTransfer: begin tx: %w", err)
	}
	defer tx.Rollback()

	locked, err := s.lockAccountsInOrder(ctx, tx, payerID, payeeID)
	if err != nil {
		return nil, fmt.Errorf("executeTransfer: %w", err)
	}
	payer, payee := locked[payerID], locked[payeeID]

	if payer.Balance < req.Amount {
		return nil, fmt.Errorf("executeTransfer: %w", domain.ErrInsufficientFunds)
	}

	conf, err := s.authorize(ctx, req, payer, payee)
	if err != nil {
		return nil, fmt.Errorf("executeTransfer: %w", err)
	}
	if conf.Status != string(domain.EntryStatusConfirmed) {
		return nil, fmt.Errorf("executeTransfer: provider status %q: %w", conf.Status, domain.ErrProviderRejected)
	}

	if err := s.accounts.UpdateBalance(ctx, tx, payerID, payer.Balance-req.Amount, payer.Version+1); err != nil {
		return nil, fmt.Errorf("executeTransfer: debit payer: %w", err)
	}
	if err := s.accounts.UpdateBalance(ctx, tx, payeeID, payee.Balance+req.Amount, payee.Version+1); err != nil {
		return nil, fmt.Errorf("executeTransfer: credit payee: %w", err)
	}

	entry := &domain.LedgerEntry{
		ID:              uuid.New(),
		PayerAccountID:  payerID,
		PayeeAccountID:  payeeID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		Concept:         req.Concept,
		Status:          domain.EntryStatus(conf.Status),
		PreferredMethod: req.PreferredMethod,
		CreatedAt:       time.Now().UTC(),
	}
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		entry.IdempotencyKey = &key
	}
	if req.TxID != "" {
		txID := req.TxID
		entry.TxID = &txID
	}

	if err := s.ledger.Create(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("executeTransfer: append ledger: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("executeTransfer: commit: %w", err)
	}

	return &Result{Entry: entry, Provider: *conf}, nil
}

// authorize asks the provider for its verdict under a bounded timeout so a
// hung provider cannot pin the row locks; timeout maps to
// ErrProviderUnavailable.
func (s *Service) authorize(ctx context.Context, req Request, payer, payee *domain.Account) (*provider.Confirmation, error) {
	authCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	conf, err := s.provider.AuthorizePayment(authCtx, provider.PaymentRequest{
		TxID:          req.TxID,
		PayerWalletID: payer.WalletID,
		PayeeWalletID: payee.WalletID,
		Amount:        req.Amount,
		Currency:      string(req.Currency),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("authorize: %w", domain.ErrProviderUnavailable)
		}
		return nil, fmt.Errorf("authorize: %w", err)
	}
	return conf, nil
}

// lockAccountsInOrder takes both row locks in a deterministic order so two
// opposing transfers cannot deadlock.
func (s *Service) lockAccountsInOrder(ctx context.Context, tx *sql.Tx, ids ...uuid.UUID) (map[uuid.UUID]*domain.Account, error) {
	sorted := make([]uuid.UUID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})

	result := make(map[uuid.UUID]*domain.Account, len(ids))
	for _, id := range sorted {
		acct, err := s.accounts.GetForUpdate(ctx, tx, id)
		if err != nil {
			return nil, fmt.Errorf("lockAccountsInOrder: %w", err)
		}
		result[id] = acct
	}
	return result, nil
}
