// Package client is a small Go client for the account and history API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// HistoryEntry mirrors one element of the history response.
type HistoryEntry struct {
	HistoryID   int64           `json:"historyID"`
	Date        time.Time       `json:"date"`
	Name        string          `json:"name"`
	PhoneNumber string          `json:"phoneNumber"`
	Address     string          `json:"address"`
	ListCart    json.RawMessage `json:"listCart"`
}

// Checkout is the payload of a checkout request.
type Checkout struct {
	UserID        int64           `json:"userID"`
	Name          string          `json:"name"`
	PhoneNumber   string          `json:"phoneNumber"`
	Address       string          `json:"address"`
	AccountNumber string          `json:"accountNumber"`
	PinOrCvv      string          `json:"pinOrCvv"`
	ListCart      json.RawMessage `json:"listCart"`
}

// Client talks to a server rooted at BaseURL.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a Client with a 10s request timeout.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SignUp registers a user and returns the server's confirmation message.
func (c *Client) SignUp(ctx context.Context, name, email, password string) (string, error) {
	var resp struct {
		Msg string `json:"msg"`
	}
	err := c.do(ctx, http.MethodPost, "/users/signup", map[string]string{
		"name": name, "email": email, "password": password,
	}, &resp)
	return resp.Msg, err
}

// SignIn returns the user id for the given credentials.
func (c *Client) SignIn(ctx context.Context, email, password string) (int64, error) {
	var resp struct {
		UserID int64 `json:"userID"`
	}
	err := c.do(ctx, http.MethodGet, "/users/signin", map[string]string{
		"email": email, "password": password,
	}, &resp)
	return resp.UserID, err
}

// Checkout records a purchase and returns the server's confirmation message.
func (c *Client) Checkout(ctx context.Context, in Checkout) (string, error) {
	var resp struct {
		Msg string `json:"msg"`
	}
	err := c.do(ctx, http.MethodPost, "/users/checkout", in, &resp)
	return resp.Msg, err
}

// History lists the user's purchases, newest first.
func (c *Client) History(ctx context.Context, userID int64) ([]HistoryEntry, error) {
	var resp []HistoryEntry
	err := c.do(ctx, http.MethodGet, "/users/history", map[string]int64{"userID": userID}, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
