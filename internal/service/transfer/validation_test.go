package transfer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tandalabs/wallet-api/internal/domain"
)

func mxnAccount() *domain.Account {
	return &domain.Account{
		ID:       uuid.New(),
		Currency: domain.CurrencyMXN,
	}
}

func TestValidate(t *testing.T) {
	payer := mxnAccount()
	payee := mxnAccount()

	tests := []struct {
		name    string
		req     Request
		payer   *domain.Account
		payee   *domain.Account
		wantErr error
	}{
		{
			name:  "valid transfer",
			req:   Request{Amount: 2000, Currency: domain.CurrencyMXN},
			payer: payer,
			payee: payee,
		},
		{
			name:    "amount zero",
			req:     Request{Amount: 0, Currency: domain.CurrencyMXN},
			payer:   payer,
			payee:   payee,
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "amount negative",
			req:     Request{Amount: -100, Currency: domain.CurrencyMXN},
			payer:   payer,
			payee:   payee,
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "same account",
			req:     Request{Amount: 2000, Currency: domain.CurrencyMXN},
			payer:   payer,
			payee:   payer,
			wantErr: domain.ErrSelfTransfer,
		},
		{
			name:    "request currency differs from accounts",
			req:     Request{Amount: 2000, Currency: "USD"},
			payer:   payer,
			payee:   payee,
			wantErr: domain.ErrCurrencyMismatch,
		},
		{
			name:    "payee account in another currency",
			req:     Request{Amount: 2000, Currency: domain.CurrencyMXN},
			payer:   payer,
			payee:   &domain.Account{ID: uuid.New(), Currency: "USD"},
			wantErr: domain.ErrCurrencyMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(tt.req, tt.payer, tt.payee)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRequestDefaults(t *testing.T) {
	req := (&Request{Amount: 2000}).withDefaults()
	assert.Equal(t, defaultConcept, req.Concept)
	assert.Equal(t, defaultMethod, req.PreferredMethod)

	req = (&Request{Amount: 2000, Concept: "Pago de tanda", PreferredMethod: "wallet_token"}).withDefaults()
	assert.Equal(t, "Pago de tanda", req.Concept)
	assert.Equal(t, "wallet_token", req.PreferredMethod)
}
