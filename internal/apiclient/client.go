package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AccountStatus is the liveness enum reported by the backend.
type AccountStatus string

const (
	StatusActive   AccountStatus = "ACTIVE"
	StatusInactive AccountStatus = "INACTIVE"
)

// HTTPError is returned when the backend answers with a non-2xx status.
// Callers use Code to distinguish an authentication rejection (401) from
// transient failures.
type HTTPError struct {
	Code int
	Body string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("api: unexpected status %d: %s", e.Code, strings.TrimSpace(e.Body))
}

// IsUnauthorized reports whether err is an HTTPError with code 401.
func IsUnauthorized(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Code == http.StatusUnauthorized
}

// LoginResponse is the profile-plus-token payload returned by signin. The
// client stamps tokenTimestamp itself; the server never sends it.
type LoginResponse struct {
	AccessToken      string `json:"accessToken"`
	TokenType        string `json:"tokenType"`
	ID               string `json:"id"`
	Role             string `json:"role"`
	FullName         string `json:"fullName"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	PhoneNumber      string `json:"phoneNumber"`
	CreatedDate      string `json:"createdDate"`
	LastModifiedDate string `json:"lastModifiedDate"`
}

// Client talks to the taskhive REST backend. Every call takes a context and
// the underlying http.Client carries a timeout, so a hung backend cannot
// wedge the caller indefinitely.
type Client struct {
	baseURL string
	hc      *http.Client
}

// New creates a client for the given base URL (e.g. http://localhost:5001).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 15 * time.Second},
	}
}

// NewWithHTTPClient creates a client with a caller-supplied http.Client,
// used by tests.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), hc: hc}
}

// Login exchanges credentials for the signin payload.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/signin", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("signin request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, httpError(resp)
	}
	var lr LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, fmt.Errorf("decode signin response: %w", err)
	}
	return &lr, nil
}

// Status performs the authenticated liveness check. A 401 surfaces as
// *HTTPError with Code 401; any other non-200 answer surfaces as *HTTPError
// with that code, which callers treat as transient.
func (c *Client) Status(ctx context.Context, tokenType, accessToken string) (AccountStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/status", nil)
	if err != nil {
		return "", err
	}
	if tokenType == "" {
		tokenType = "Bearer"
	}
	req.Header.Set("Authorization", tokenType+" "+accessToken)
	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("status request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", httpError(resp)
	}
	var out struct {
		Status AccountStatus `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode status response: %w", err)
	}
	return out.Status, nil
}

// Logout revokes the presented token server-side. Best effort; the local
// session teardown does not depend on it succeeding.
func (c *Client) Logout(ctx context.Context, tokenType, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/signout", nil)
	if err != nil {
		return err
	}
	if tokenType == "" {
		tokenType = "Bearer"
	}
	req.Header.Set("Authorization", tokenType+" "+accessToken)
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("signout request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return httpError(resp)
	}
	return nil
}

func httpError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return &HTTPError{Code: resp.StatusCode, Body: string(b)}
}
