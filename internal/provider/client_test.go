package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tandalabs/wallet-api/internal/domain"
)

func TestClient_CreateWallet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wallet-addresses", r.URL.Path)

		var req createWalletPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "u_123", req.Subject)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Wallet{
			ID:      "ilp_u_123",
			Address: "https://openpayments.example.com/accounts/u_123",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5)
	w, err := c.CreateWallet(context.Background(), "u_123")
	require.NoError(t, err)
	assert.Equal(t, "ilp_u_123", w.ID)
}

func TestClient_AuthorizePayment_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(Confirmation{Status: "failed", Message: "no"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5)
	_, err := c.AuthorizePayment(context.Background(), PaymentRequest{
		TxID:          "tx_1",
		PayerWalletID: "ilp_a",
		PayeeWalletID: "ilp_b",
		Amount:        2000,
		Currency:      "MXN",
	})
	require.ErrorIs(t, err, domain.ErrProviderRejected)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.AuthorizePayment(ctx, PaymentRequest{TxID: "tx_1"})
	require.ErrorIs(t, err, domain.ErrProviderUnavailable)
}
