package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tandalabs/wallet-api/internal/domain"
	"github.com/tandalabs/wallet-api/internal/logging"
)

// Client talks to a real Open Payments endpoint. Calls are bounded by the
// configured timeout; a timeout or transport failure surfaces as
// ErrProviderUnavailable, a non-2xx verdict as ErrProviderRejected.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeoutS int) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutS) * time.Second,
		},
	}
}

type createWalletPayload struct {
	Subject string `json:"subject"`
}

func (c *Client) CreateWallet(ctx context.Context, userID string) (*Wallet, error) {
	var w Wallet
	err := c.post(ctx, "/wallet-addresses", createWalletPayload{Subject: userID}, &w)
	if err != nil {
		return nil, fmt.Errorf("CreateWallet: %w", err)
	}
	return &w, nil
}

func (c *Client) AuthorizePayment(ctx context.Context, req PaymentRequest) (*Confirmation, error) {
	var conf Confirmation
	err := c.post(ctx, "/payments", req, &conf)
	if err != nil {
		return nil, fmt.Errorf("AuthorizePayment: %w", err)
	}
	return &conf, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	log := logging.FromContext(ctx)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("post: marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Transport failures and timeouts look the same to callers: the
		// provider could not be reached.
		return fmt.Errorf("post %s: %w: %v", path, domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	log.Info("provider response received",
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post %s: status %d: %s: %w", path, resp.StatusCode, string(respBody), domain.ErrProviderRejected)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("post %s: decode: %w", path, err)
	}
	return nil
}
