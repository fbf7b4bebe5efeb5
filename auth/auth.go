// Package auth is the client side of the email/password authentication
// collaborator. The rest of the app only ever consumes the current
// identity string; tokens stay inside this package.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// AuthError carries the human-readable message shown in the login alert.
type AuthError struct {
	Op  string // "sign in", "sign up", "sign out"
	Msg string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	email string
	token string
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Error string `json:"error"`
}

func (c *Client) SignUp(ctx context.Context, email, password string) error {
	return c.authenticate(ctx, "sign up", "/v1/auth/signup", email, password)
}

func (c *Client) SignIn(ctx context.Context, email, password string) error {
	return c.authenticate(ctx, "sign in", "/v1/auth/signin", email, password)
}

func (c *Client) authenticate(ctx context.Context, op, path, email, password string) error {
	body, err := json.Marshal(credentials{Email: email, Password: password})
	if err != nil {
		return &AuthError{Op: op, Msg: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &AuthError{Op: op, Msg: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &AuthError{Op: op, Msg: err.Error()}
	}
	defer resp.Body.Close()

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return &AuthError{Op: op, Msg: fmt.Sprintf("bad response: %v", err)}
	}
	if resp.StatusCode != http.StatusOK {
		msg := session.Error
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return &AuthError{Op: op, Msg: msg}
	}

	c.mu.Lock()
	c.email = session.Email
	c.token = session.Token
	c.mu.Unlock()

	return nil
}

func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	token := c.token
	c.email = ""
	c.token = ""
	c.mu.Unlock()

	if token == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/auth/signout", nil)
	if err != nil {
		return &AuthError{Op: "sign out", Msg: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &AuthError{Op: "sign out", Msg: err.Error()}
	}
	resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &AuthError{Op: "sign out", Msg: fmt.Sprintf("status %d", resp.StatusCode)}
	}
	return nil
}

// CurrentIdentity returns the signed-in email, or false when no session
// is active.
func (c *Client) CurrentIdentity() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.email, c.email != ""
}

// Token exposes the bearer token for the backend client.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}
