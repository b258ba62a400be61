package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tandalabs/wallet-api/internal/domain"
)

// SeedAccount inserts a funded account. Balance is centavos.
func SeedAccount(t *testing.T, db *sql.DB, userID, wpUserID string, balance int64) *domain.Account {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash pin: %v", err)
	}

	a := &domain.Account{
		ID:              uuid.New(),
		UserID:          userID,
		WPUserID:        wpUserID,
		Phone:           "+5215512345678",
		Balance:         balance,
		Currency:        domain.CurrencyMXN,
		WalletID:        "ilp_" + userID,
		WalletAddress:   "https://openpayments.example.com/accounts/" + userID,
		WalletToken:     "token_" + userID,
		PreferredMethod: "wallet_token",
		PINHash:         string(hash),
		Version:         1,
		CreatedAt:       time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO accounts (
			id, user_id, wp_user_id, phone, balance, currency,
			wallet_id, wallet_address, wallet_token, preferred_method, pin_hash, version, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		a.ID, a.UserID, a.WPUserID, a.Phone, a.Balance, a.Currency,
		a.WalletID, a.WalletAddress, a.WalletToken, a.PreferredMethod, a.PINHash, a.Version, a.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed account %s: %v", userID, err)
	}
	return a
}

func GetBalance(t *testing.T, db *sql.DB, accountID uuid.UUID) int64 {
	t.Helper()

	var balance int64
	err := db.QueryRow(`SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if err != nil {
		t.Fatalf("get balance %s: %v", accountID, err)
	}
	return balance
}

func CountLedgerEntries(t *testing.T, db *sql.DB, accountID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM ledger_entries WHERE payer_account_id = $1 OR payee_account_id = $1`,
		accountID,
	).Scan(&count)
	if err != nil {
		t.Fatalf("count ledger entries %s: %v", accountID, err)
	}
	return count
}
