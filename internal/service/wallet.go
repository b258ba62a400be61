package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tandalabs/wallet-api/internal/config"
	"github.com/tandalabs/wallet-api/internal/domain"
	"github.com/tandalabs/wallet-api/internal/logging"
	"github.com/tandalabs/wallet-api/internal/provider"
)

const depositConcept = "Depósito inicial de bienvenida"

type accountRepo interface {
	GetByUserAndWP(ctx context.Context, userID, wpUserID string) (*domain.Account, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Account, error)
	Create(ctx context.Context, tx *sql.Tx, account *domain.Account) error
}

type ledgerRepo interface {
	Create(ctx context.Context, tx *sql.Tx, entry *domain.LedgerEntry) error
}

// WalletService covers the account lifecycle around the Transfer Executor:
// registration with the provider-side wallet, and balance lookups.
type WalletService struct {
	accounts        accountRepo
	ledger          ledgerRepo
	provider        provider.Provider
	db              *sql.DB
	defaultCurrency domain.Currency
	initialDeposit  int64
	providerTimeout time.Duration
}

func NewWalletService(accounts accountRepo, ledger ledgerRepo, prov provider.Provider, db *sql.DB, cfg *config.Config) *WalletService {
	return &WalletService{
		accounts:        accounts,
		ledger:          ledger,
		provider:        prov,
		db:              db,
		defaultCurrency: domain.Currency(cfg.DefaultCurrency),
		initialDeposit:  cfg.InitialDepositCents,
		providerTimeout: time.Duration(cfg.ProviderTimeoutS) * time.Second,
	}
}

type RegistrationRequest struct {
	UserID          string
	Phone           string
	PreferredMethod string
	PIN             string
	WalletToken     string
	WPUserID        string
}

type Registration struct {
	Account        *domain.Account
	DepositEntry   *domain.LedgerEntry
	InitialDeposit int64
}

// Register provisions a provider wallet, creates the account seeded with the
// fixed initial deposit and records the deposit as a self-referencing ledger
// entry. Account insert and deposit entry commit together or not at all.
func (s *WalletService) Register(ctx context.Context, req RegistrationRequest) (*Registration, error) {
	log := logging.FromContext(ctx)

	_, err := s.accounts.GetByUserID(ctx, req.UserID)
	if err == nil {
		return nil, fmt.Errorf("Register: %w", domain.ErrDuplicateAccount)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("Register: check existing: %w", err)
	}

	pinHash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("Register: hash pin: %w", err)
	}

	wallet, err := s.createWallet(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:              uuid.New(),
		UserID:          req.UserID,
		WPUserID:        req.WPUserID,
		Phone:           req.Phone,
		Balance:         s.initialDeposit,
		Currency:        s.defaultCurrency,
		WalletID:        wallet.ID,
		WalletAddress:   wallet.Address,
		WalletToken:     req.WalletToken,
		PreferredMethod: req.PreferredMethod,
		PINHash:         string(pinHash),
		Version:         1,
		CreatedAt:       now,
	}

	entry := &domain.LedgerEntry{
		ID:              uuid.New(),
		PayerAccountID:  account.ID,
		PayeeAccountID:  account.ID,
		Amount:          s.initialDeposit,
		Currency:        s.defaultCurrency,
		Concept:         depositConcept,
		Status:          domain.EntryStatusConfirmed,
		PreferredMethod: "demo",
		CreatedAt:       now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Register: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.accounts.Create(ctx, tx, account); err != nil {
		return nil, fmt.Errorf("Register: create account: %w", err)
	}
	if err := s.ledger.Create(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("Register: deposit entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Register: commit: %w", err)
	}

	log.Info("account registered",
		"account_id", account.ID,
		"user_id", account.UserID,
		"wallet_id", account.WalletID,
		"initial_deposit", s.initialDeposit,
	)

	return &Registration{
		Account:        account,
		DepositEntry:   entry,
		InitialDeposit: s.initialDeposit,
	}, nil
}

func (s *WalletService) createWallet(ctx context.Context, userID string) (*provider.Wallet, error) {
	provCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	wallet, err := s.provider.CreateWallet(provCtx, userID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("createWallet: %w", domain.ErrProviderUnavailable)
		}
		return nil, fmt.Errorf("createWallet: %w", err)
	}
	return wallet, nil
}

type BalanceInfo struct {
	Cents    int64
	Currency domain.Currency
}

// Balance is a pure read. A missing account is not an error: the caller
// gets a zero balance in the default currency.
func (s *WalletService) Balance(ctx context.Context, userID, wpUserID string) (*BalanceInfo, error) {
	account, err := s.accounts.GetByUserAndWP(ctx, userID, wpUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &BalanceInfo{Cents: 0, Currency: s.defaultCurrency}, nil
		}
		return nil, fmt.Errorf("Balance: %w", err)
	}

	currency := account.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}
	return &BalanceInfo{Cents: account.Balance, Currency: currency}, nil
}
