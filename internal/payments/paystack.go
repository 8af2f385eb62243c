package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Thin client for the two Paystack calls the platform makes: initialize a
// transaction and verify it after the redirect callback. Amounts are in
// kobo, per the provider API.

const (
	defaultBaseURL   = "https://api.paystack.co"
	clientTimeout    = 10 * time.Second
	maxResponseBytes = 1 << 20
)

var ErrNotConfigured = errors.New("paystack secret key not configured")

type Client struct {
	secretKey string
	baseURL   string
	http      *http.Client
}

func NewClient(secretKey string) *Client {
	return &Client{
		secretKey: secretKey,
		baseURL:   defaultBaseURL,
		http:      &http.Client{Timeout: clientTimeout},
	}
}

// NewClientWithBaseURL exists for tests against a stub server.
func NewClientWithBaseURL(secretKey, baseURL string) *Client {
	c := NewClient(secretKey)
	c.baseURL = baseURL
	return c
}

type InitializeRequest struct {
	AmountKobo  int64          `json:"amount"`
	Email       string         `json:"email"`
	Reference   string         `json:"reference"`
	CallbackURL string         `json:"callback_url"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Authorization is where to send the payer next.
type Authorization struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// Transaction is the verified state of a reference.
type Transaction struct {
	Status     string `json:"status"`
	Reference  string `json:"reference"`
	AmountKobo int64  `json:"amount"`
	PaidAt     string `json:"paid_at"`
}

// Success reports whether the provider settled the payment.
func (t *Transaction) Success() bool {
	return t.Status == "success"
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) Initialize(ctx context.Context, req InitializeRequest) (*Authorization, error) {
	var auth Authorization
	if err := c.post(ctx, "/transaction/initialize", req, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

func (c *Client) Verify(ctx context.Context, reference string) (*Transaction, error) {
	var tx Transaction
	if err := c.get(ctx, "/transaction/verify/"+reference, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.secretKey == "" {
		return ErrNotConfigured
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("paystack: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("paystack: read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("paystack: unexpected response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !env.Status {
		return fmt.Errorf("paystack: %s (status %d)", env.Message, resp.StatusCode)
	}
	return json.Unmarshal(env.Data, out)
}
