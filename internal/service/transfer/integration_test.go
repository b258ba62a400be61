package transfer_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tandalabs/wallet-api/internal/config"
	"github.com/tandalabs/wallet-api/internal/domain"
	"github.com/tandalabs/wallet-api/internal/provider"
	"github.com/tandalabs/wallet-api/internal/repository"
	"github.com/tandalabs/wallet-api/internal/service/transfer"
	"github.com/tandalabs/wallet-api/internal/testutil"
)

func setupService(t *testing.T, db *sql.DB) *transfer.Service {
	t.Helper()
	return setupServiceWith(t, db, provider.NewStub("test-secret"), 5)
}

func setupServiceWith(t *testing.T, db *sql.DB, prov provider.Provider, timeoutS int) *transfer.Service {
	t.Helper()
	return transfer.NewService(
		repository.NewAccountRepository(db),
		repository.NewLedgerRepository(db),
		prov,
		db,
		&config.Config{ProviderTimeoutS: timeoutS},
	)
}

func validRequest(payer, payee *domain.Account, amount int64) transfer.Request {
	return transfer.Request{
		TxID:           "tx_" + uuid.NewString(),
		IdempotencyKey: uuid.NewString(),
		UserID:         payer.UserID,
		WPUserID:       payer.WPUserID,
		PayeeUserID:    payee.UserID,
		PayeeWPUserID:  payee.WPUserID,
		Amount:         amount,
		Currency:       domain.CurrencyMXN,
		Concept:        "Pago de tanda",
	}
}

func TestExecute_HappyPath(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupService(t, db)
	ctx := context.Background()

	// Spec scenario: P has 50 MXN, Q has 10 MXN; transfer of 20 MXN.
	payer := testutil.SeedAccount(t, db, "u_125", "456", 5000)
	payee := testutil.SeedAccount(t, db, "u_457", "457", 1000)

	res, err := svc.Execute(ctx, validRequest(payer, payee, 2000))
	require.NoError(t, err)

	assert.Equal(t, domain.EntryStatusConfirmed, res.Entry.Status)
	assert.Equal(t, int64(2000), res.Entry.Amount)
	assert.Equal(t, payer.ID, res.Entry.PayerAccountID)
	assert.Equal(t, payee.ID, res.Entry.PayeeAccountID)
	assert.Equal(t, "confirmed", res.Provider.Status)
	assert.False(t, res.Replayed)

	payerAfter := testutil.GetBalance(t, db, payer.ID)
	payeeAfter := testutil.GetBalance(t, db, payee.ID)
	assert.Equal(t, int64(3000), payerAfter)
	assert.Equal(t, int64(3000), payeeAfter)

	// Conservation: total across both accounts is unchanged.
	assert.Equal(t, payer.Balance+payee.Balance, payerAfter+payeeAfter)

	assert.Equal(t, 1, testutil.CountLedgerEntries(t, db, payer.ID))
}

func TestExecute_InsufficientFunds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupService(t, db)
	ctx := context.Background()

	payer := testutil.SeedAccount(t, db, "u_125", "456", 5000)
	payee := testutil.SeedAccount(t, db, "u_457", "457", 1000)

	_, err := svc.Execute(ctx, validRequest(payer, payee, 100000))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	assert.Equal(t, int64(5000), testutil.GetBalance(t, db, payer.ID))
	assert.Equal(t, int64(1000), testutil.GetBalance(t, db, payee.ID))
	assert.Equal(t, 0, testutil.CountLedgerEntries(t, db, payer.ID))
}

func TestExecute_PayerNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupService(t, db)
	ctx := context.Background()

	payee := testutil.SeedAccount(t, db, "u_457", "457", 1000)

	req := validRequest(&domain.Account{UserID: "u_ghost", WPUserID: "999"}, payee, 2000)
	_, err := svc.Execute(ctx, req)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestExecute_PayeeNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupService(t, db)
	ctx := context.Background()

	payer := testutil.SeedAccount(t, db, "u_125", "456", 5000)

	req := validRequest(payer, &domain.Account{UserID: "u_ghost", WPUserID: "999"}, 2000)
	_, err := svc.Execute(ctx, req)
	require.ErrorIs(t, err, domain.ErrPayeeNotFound)

	assert.Equal(t, int64(5000), testutil.GetBalance(t, db, payer.ID))
}

func TestExecute_PayeeLookupIsStrict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupService(t, db)
	ctx := context.Background()

	payer := testutil.SeedAccount(t, db, "u_125", "456", 5000)
	payee := testutil.SeedAccount(t, db, "u_457", "457", 1000)

	// Right user id with the wrong wp user id must not resolve.
	req := validRequest(payer, payee, 2000)
	req.PayeeWPUserID = "999"
	_, err := svc.Execute(ctx, req)
	require.ErrorIs(t, err, domain.ErrPayeeNotFound)
}

func TestExecute_CurrencyMismatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupService(t, db)
	ctx := context.Background()

	payer := testutil.SeedAccount(t, db, "u_125", "456", 5000)
	payee := testutil.SeedAccount(t, db, "u_457", "457", 1000)

	req := validRequest(payer, payee, 2000)
	req.Currency = "USD"
	_, err := svc.Execute(ctx, req)
	require.ErrorIs(t, err, domain.ErrCurrencyMismatch)

	assert.Equal(t, int64(5000), testutil.GetBalance(t, db, payer.ID))
}

func TestExecute_SelfTransfer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupService(t, db)
	ctx := context.Background()

	payer := testutil.SeedAccount(t, db, "u_125", "456", 5000)

	_, err := svc.Execute(ctx, validRequest(payer, payer, 2000))
	require.ErrorIs(t, err, domain.ErrSelfTransfer)

	assert.Equal(t, int64(5000), testutil.GetBalance(t, db, payer.ID))
}

func TestExecute_IdempotentReplay(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupService(t, db)
	ctx := context.Background()

	payer := testutil.SeedAccount(t, db, "u_125", "456", 5000)
	payee := testutil.SeedAccount(t, db, "u_457", "457", 1000)

	req := validRequest(payer, payee, 2000)

	first, err := svc.Execute(ctx, req)
	require.NoError(t, err)

	second, err := svc.Execute(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Entry.ID, second.Entry.ID)

	// Balances moved exactly once.
	assert.Equal(t, int64(3000), testutil.GetBalance(t, db, payer.ID))
	assert.Equal(t, int64(3000), testutil.GetBalance(t, db, payee.ID))
	assert.Equal(t, 1, testutil.CountLedgerEntries(t, db, payer.ID))
}

func TestExecute_IdempotencyKeyConflict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupService(t, db)
	ctx := context.Background()

	payer := testutil.SeedAccount(t, db, "u_125", "456", 5000)
	payee := testutil.SeedAccount(t, db, "u_457", "457", 1000)

	req := validRequest(payer, payee, 2000)
	_, err := svc.Execute(ctx, req)
	require.NoError(t, err)

	req.Amount = 1500
	_, err = svc.Execute(ctx, req)
	require.ErrorIs(t, err, domain.ErrDuplicateTransfer)

	assert.Equal(t, int64(3000), testutil.GetBalance(t, db, payer.ID))
}

func TestExecute_ConcurrentOverdraft(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupService(t, db)
	ctx := context.Background()

	payer := testutil.SeedAccount(t, db, "u_125", "456", 10000)
	payee := testutil.SeedAccount(t, db, "u_457", "457", 0)

	var wg sync.WaitGroup
	results := make(chan error, 2)

	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Execute(ctx, validRequest(payer, payee, 7000))
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	var failures int
	for err := range results {
		if err != nil {
			require.ErrorIs(t, err, domain.ErrInsufficientFunds)
			failures++
		}
	}

	assert.Equal(t, 1, failures)
	assert.Equal(t, int64(3000), testutil.GetBalance(t, db, payer.ID))
	assert.Equal(t, int64(7000), testutil.GetBalance(t, db, payee.ID))
}

type decliningProvider struct{}

func (decliningProvider) CreateWallet(ctx context.Context, userID string) (*provider.Wallet, error) {
	return nil, errors.New("not used by transfers")
}

func (decliningProvider) AuthorizePayment(ctx context.Context, req provider.PaymentRequest) (*provider.Confirmation, error) {
	return &provider.Confirmation{Status: "failed", Message: "payment declined"}, nil
}

type stalledProvider struct{}

func (stalledProvider) CreateWallet(ctx context.Context, userID string) (*provider.Wallet, error) {
	return nil, errors.New("not used by transfers")
}

func (stalledProvider) AuthorizePayment(ctx context.Context, req provider.PaymentRequest) (*provider.Confirmation, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestExecute_ProviderRejectionRollsBack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupServiceWith(t, db, decliningProvider{}, 5)
	ctx := context.Background()

	payer := testutil.SeedAccount(t, db, "u_125", "456", 5000)
	payee := testutil.SeedAccount(t, db, "u_457", "457", 1000)

	_, err := svc.Execute(ctx, validRequest(payer, payee, 2000))
	require.ErrorIs(t, err, domain.ErrProviderRejected)

	assert.Equal(t, int64(5000), testutil.GetBalance(t, db, payer.ID))
	assert.Equal(t, int64(1000), testutil.GetBalance(t, db, payee.ID))
	assert.Equal(t, 0, testutil.CountLedgerEntries(t, db, payer.ID))
	assert.Equal(t, 0, testutil.CountLedgerEntries(t, db, payee.ID))
}

func TestExecute_ProviderTimeoutRollsBack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupServiceWith(t, db, stalledProvider{}, 1)
	ctx := context.Background()

	payer := testutil.SeedAccount(t, db, "u_125", "456", 5000)
	payee := testutil.SeedAccount(t, db, "u_457", "457", 1000)

	_, err := svc.Execute(ctx, validRequest(payer, payee, 2000))
	require.ErrorIs(t, err, domain.ErrProviderUnavailable)

	assert.Equal(t, int64(5000), testutil.GetBalance(t, db, payer.ID))
	assert.Equal(t, int64(1000), testutil.GetBalance(t, db, payee.ID))
	assert.Equal(t, 0, testutil.CountLedgerEntries(t, db, payer.ID))
	assert.Equal(t, 0, testutil.CountLedgerEntries(t, db, payee.ID))
}
