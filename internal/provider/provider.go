// Package provider integrates the Open Payments wallet network. The rest of
// the service only sees the Provider interface; the concrete implementation
// (real HTTP client or deterministic stub) is chosen from configuration.
package provider

import (
	"context"
	"fmt"

	"github.com/tandalabs/wallet-api/internal/config"
)

// Wallet is the provider-side identity created for an account at
// registration.
type Wallet struct {
	ID          string `json:"wallet_id"`
	Address     string `json:"wallet_address"`
	AccessToken string `json:"access_token"`
}

// PaymentRequest asks the provider to authorize a movement between two
// wallets before the ledger commits it.
type PaymentRequest struct {
	TxID          string `json:"tx_id"`
	PayerWalletID string `json:"payer_wallet_id"`
	PayeeWalletID string `json:"payee_wallet_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
}

// Confirmation is the provider's verdict, echoed to API clients as the
// openPayments sub-object.
type Confirmation struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type Provider interface {
	CreateWallet(ctx context.Context, userID string) (*Wallet, error)
	AuthorizePayment(ctx context.Context, req PaymentRequest) (*Confirmation, error)
}

// FromConfig selects the provider implementation. Mode "stub" is the
// default; "http" talks to a real endpoint.
func FromConfig(cfg *config.Config) (Provider, error) {
	switch cfg.ProviderMode {
	case "stub":
		return NewStub(cfg.ProviderTokenSecret), nil
	case "http":
		return NewClient(cfg.ProviderURL, cfg.ProviderTimeoutS), nil
	default:
		return nil, fmt.Errorf("provider.FromConfig: unknown mode %q", cfg.ProviderMode)
	}
}
