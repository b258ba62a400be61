// mock-provider simulates the Open Payments network for local development:
// it provisions wallet addresses with signed access tokens and authorizes
// every payment it is asked about.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/tandalabs/wallet-api/internal/logging"
	"github.com/tandalabs/wallet-api/internal/provider"
)

func main() {
	logging.Init("mock-provider", "info", os.Getenv("APP_ENV"))

	secret := os.Getenv("PROVIDER_TOKEN_SECRET")
	if secret == "" {
		secret = "dev-only-secret"
	}
	addr := os.Getenv("MOCK_PROVIDER_ADDR")
	if addr == "" {
		addr = ":8081"
	}

	s := &server{tokenSecret: secret}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /wallet-addresses", s.handleCreateWallet)
	mux.HandleFunc("POST /payments", s.handleAuthorizePayment)

	slog.Info("mock provider started", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

type server struct {
	tokenSecret string
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createWalletRequest struct {
	Subject string `json:"subject"`
}

func (s *server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	var req createWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Subject == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "subject required"})
		return
	}

	walletID := "ilp_" + req.Subject
	token, err := provider.MintAccessToken(s.tokenSecret, walletID, 24*time.Hour)
	if err != nil {
		slog.Error("failed to mint access token", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "token mint failed"})
		return
	}

	slog.Info("wallet address created", "subject", req.Subject, "wallet_id", walletID)
	writeJSON(w, http.StatusCreated, provider.Wallet{
		ID:          walletID,
		Address:     fmt.Sprintf("https://openpayments.example.com/accounts/%s", req.Subject),
		AccessToken: token,
	})
}

func (s *server) handleAuthorizePayment(w http.ResponseWriter, r *http.Request) {
	var req provider.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if req.Amount <= 0 || req.PayerWalletID == "" || req.PayeeWalletID == "" {
		writeJSON(w, http.StatusUnprocessableEntity, provider.Confirmation{
			Status:  "failed",
			Message: "invalid payment request",
		})
		return
	}

	slog.Info("payment authorized",
		"tx_id", req.TxID,
		"payer_wallet", req.PayerWalletID,
		"payee_wallet", req.PayeeWalletID,
		"amount", req.Amount,
	)
	writeJSON(w, http.StatusOK, provider.Confirmation{
		Status:  "confirmed",
		Message: "Open Payments authorization granted",
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
