// Package client is the Go API client for the task service. It mirrors
// the browser client's behavior: bearer access token on every protected
// call, refresh token carried by an HttpOnly cookie in the jar, bounded
// timeouts, and a session state machine that renews an expired access
// token transparently (see session.go).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// DefaultTimeout bounds every outbound call. A timeout surfaces as a
// network error, never as an auth error, and must not trigger renewal.
const DefaultTimeout = 10 * time.Second

// APIError is a decoded {success:false, message, code} response.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// IsAuthError reports whether err is a 401 from the API. Network
// failures and non-401 API errors are not auth errors.
func IsAuthError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusUnauthorized
}

// renewalEligible: only an expired signature is worth renewing over; a
// malformed or missing token will not become valid by refreshing.
func renewalEligible(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Code == "TOKEN_EXPIRED"
}

type User struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: DefaultTimeout,
			Jar:     jar,
		},
	}, nil
}

type envelope struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	Code        string          `json:"code"`
	AccessToken string          `json:"accessToken"`
	User        *User           `json:"user"`
	Count       int             `json:"count"`
	Data        json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, token string) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Code:    env.Code,
			Message: env.Message,
		}
	}
	return &env, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/users/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, "")
	return err
}

// Login returns the access token; the refresh token lands in the cookie
// jar and is never visible to callers.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/users/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	if err != nil {
		return "", err
	}
	return env.AccessToken, nil
}

// RefreshToken exchanges the jarred refresh cookie for a new access
// token. It carries no bearer token: the endpoint trusts the cookie only.
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/users/refresh-token", nil, "")
	if err != nil {
		return "", err
	}
	return env.AccessToken, nil
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/users/logout", nil, "")
	return err
}

// Probe hits the protected endpoint to verify a token and fetch the
// current user.
func (c *Client) Probe(ctx context.Context, token string) (*User, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/users/protected", nil, token)
	if err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, errors.New("client: probe response without user")
	}
	return env.User, nil
}
