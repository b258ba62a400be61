package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/tandalabs/wallet-api/internal/logging"
)

// Stub is the deterministic provider used for demos and tests. Wallet ids
// derive from the user id and every payment is authorized.
type Stub struct {
	tokenSecret string
}

func NewStub(tokenSecret string) *Stub {
	return &Stub{tokenSecret: tokenSecret}
}

func (s *Stub) CreateWallet(ctx context.Context, userID string) (*Wallet, error) {
	walletID := "ilp_" + userID
	token, err := MintAccessToken(s.tokenSecret, walletID, 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("Stub.CreateWallet: %w", err)
	}

	w := &Wallet{
		ID:          walletID,
		Address:     fmt.Sprintf("https://openpayments.example.com/accounts/%s", userID),
		AccessToken: token,
	}

	logging.FromContext(ctx).Debug("stub wallet created", "wallet_id", w.ID)
	return w, nil
}

func (s *Stub) AuthorizePayment(ctx context.Context, req PaymentRequest) (*Confirmation, error) {
	logging.FromContext(ctx).Debug("stub payment authorized",
		"tx_id", req.TxID,
		"payer_wallet", req.PayerWalletID,
		"payee_wallet", req.PayeeWalletID,
	)
	return &Confirmation{
		Status:  "confirmed",
		Message: "Simulated Open Payments confirmation",
	}, nil
}
