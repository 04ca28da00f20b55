package balanceapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Client talks to the balance endpoints of a remote classroom server.
type Client struct {
	BaseURL    string
	Token      string
	httpClient *http.Client
}

// Balance is the coin state returned by the server.
type Balance struct {
	Students int
	Valera   int
}

// NewClient creates a new balance API client. token may be empty.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetBalance fetches GET /api/class/{id}/balance.
func (c *Client) GetBalance(ctx context.Context, classID int64) (Balance, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/class/%d/balance", classID), nil)
	if err != nil {
		return Balance{}, err
	}
	return parseBalance(body)
}

// ApplyDelta posts signed deltas to /api/class/{id}/balance/delta and
// returns the balance after the change.
func (c *Client) ApplyDelta(ctx context.Context, classID int64, studentsDelta, valeraDelta int) (Balance, error) {
	payload := map[string]interface{}{
		"students_delta": studentsDelta,
		"valera_delta":   valeraDelta,
		"reason":         "game",
	}
	body, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/class/%d/balance/delta", classID), payload)
	if err != nil {
		return Balance{}, err
	}
	if res := gjson.GetBytes(body, "success"); res.Exists() && !res.Bool() {
		return Balance{}, fmt.Errorf("balance update rejected: %s", gjson.GetBytes(body, "error").String())
	}
	return parseBalance(body)
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "error").String()
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return nil, &StatusError{Code: resp.StatusCode, Message: msg}
	}
	return body, nil
}

func parseBalance(body []byte) (Balance, error) {
	if !gjson.ValidBytes(body) {
		return Balance{}, fmt.Errorf("failed to parse response: invalid JSON")
	}
	students := gjson.GetBytes(body, "students_balance")
	valera := gjson.GetBytes(body, "valera_balance")
	if !students.Exists() || !valera.Exists() {
		return Balance{}, fmt.Errorf("failed to parse response: balance fields missing")
	}
	return Balance{Students: int(students.Int()), Valera: int(valera.Int())}, nil
}

// StatusError is returned for non-200 answers.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.Code, e.Message)
}
