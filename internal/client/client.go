package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vaultbank/vaultd/internal/store"
	"github.com/vaultbank/vaultd/internal/vault"
)

type Client struct {
	baseURL    string
	account    string
	httpClient *http.Client
}

// New creates a client for the vault API. account is the caller identity sent
// with every request; it may be empty for read-only use of the public surface.
func New(baseURL, account string) *Client {
	return &Client{
		baseURL: baseURL,
		account: account,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type BalanceResponse struct {
	Account string `json:"account"`
	Balance uint64 `json:"balance"`
}

type Limits struct {
	BankCap             uint64 `json:"bank_cap"`
	WithdrawalThreshold uint64 `json:"withdrawal_threshold"`
}

func (c *Client) Deposit(ctx context.Context, amount uint64) (*BalanceResponse, error) {
	var result BalanceResponse
	if err := c.post(ctx, "/api/v1/deposit", map[string]any{"amount": amount}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Withdraw(ctx context.Context, amount uint64) (*BalanceResponse, error) {
	var result BalanceResponse
	if err := c.post(ctx, "/api/v1/withdraw", map[string]any{"amount": amount}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Balance(ctx context.Context) (*BalanceResponse, error) {
	var result BalanceResponse
	if err := c.get(ctx, "/api/v1/balance", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Stats(ctx context.Context) (*vault.Stats, error) {
	var result vault.Stats
	if err := c.get(ctx, "/api/v1/stats", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) RemainingCapacity(ctx context.Context) (uint64, error) {
	var result struct {
		RemainingCapacity uint64 `json:"remaining_capacity"`
	}
	if err := c.get(ctx, "/api/v1/capacity", &result); err != nil {
		return 0, err
	}
	return result.RemainingCapacity, nil
}

func (c *Client) Limits(ctx context.Context) (*Limits, error) {
	var result Limits
	if err := c.get(ctx, "/api/v1/limits", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListEvents(ctx context.Context, account string, limit int) ([]vault.Event, error) {
	params := url.Values{}
	if account != "" {
		params.Set("account", account)
	}
	if limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}
	var result []vault.Event
	if err := c.get(ctx, "/api/v1/events?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) ListPayouts(ctx context.Context, account string) ([]store.Payout, error) {
	params := url.Values{}
	if account != "" {
		params.Set("account", account)
	}
	var result []store.Payout
	if err := c.get(ctx, "/api/v1/payouts?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Ping checks if the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.doRequest(req, result)
}

func (c *Client) post(ctx context.Context, path string, body any, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doRequest(req, result)
}

type apiError struct {
	Error string `json:"error"`
}

func (c *Client) doRequest(req *http.Request, result any) error {
	if c.account != "" {
		req.Header.Set("X-Vault-Account", c.account)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	if result != nil {
		if err := json.Unmarshal(bodyBytes, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
