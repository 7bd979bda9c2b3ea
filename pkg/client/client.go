// Package client is a typed Go client for the HospiTex API. The session
// cookie issued at signup/login is held in an in-process cookie jar, and the
// authenticated identity is exposed through a single Session accessor backed
// by the server. Logout invalidates the cached session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"
)

// APIError is a non-2xx response decoded from the standard envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// User is the public account shape returned by the API.
type User struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	Role              string `json:"role"`
	IsAccountVerified bool   `json:"is_account_verified"`
}

// Session is the cached authenticated identity. Profile is the raw role
// profile object; its shape varies by role.
type Session struct {
	UserID  string
	User    *User
	Profile json.RawMessage
}

type Client struct {
	base string
	http *http.Client

	mu      sync.Mutex
	session *Session
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default 15s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client. A cookie jar is
// installed if the client has none, since the session cookie lives there.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Jar: jar, Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		c.http.Jar = jar
	}
	return c, nil
}

// do issues a JSON request and decodes the response into out (when non-nil).
// Non-2xx responses become *APIError with the envelope's message.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &envelope)
		if envelope.Message == "" {
			envelope.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: envelope.Message}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// -- Auth --

type SignUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type authResponse struct {
	User *User  `json:"user"`
	Role string `json:"role"`
}

// SignUp registers an account. The session cookie from the response is
// retained for subsequent calls.
func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (*User, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", req, &resp); err != nil {
		return nil, err
	}
	c.invalidate()
	return resp.User, nil
}

// Login authenticates and retains the session cookie.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var resp authResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	c.invalidate()
	return resp.User, nil
}

// Logout clears the server session and drops the cached Session.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		return err
	}
	c.invalidate()
	return nil
}

func (c *Client) invalidate() {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
}

// Session returns the authenticated identity, fetching it from the server on
// first use and caching it until Logout (or a fresh Login/SignUp). The server
// is the single source of truth; there is no client-side session state beyond
// this cache.
func (c *Client) Session(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	if c.session != nil {
		s := c.session
		c.mu.Unlock()
		return s, nil
	}
	c.mu.Unlock()

	var isAuth struct {
		UserID string `json:"userId"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/is-auth", nil, &isAuth); err != nil {
		return nil, err
	}

	var prof struct {
		User    *User           `json:"user"`
		Profile json.RawMessage `json:"profile"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users/profile", nil, &prof); err != nil {
		return nil, err
	}

	s := &Session{UserID: isAuth.UserID, User: prof.User, Profile: prof.Profile}
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
	return s, nil
}

// SendVerifyOTP asks the server to mail an account-verification code.
func (c *Client) SendVerifyOTP(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/send-verify-otp", nil, nil)
}

// VerifyAccount submits the mailed verification code.
func (c *Client) VerifyAccount(ctx context.Context, otp string) error {
	err := c.do(ctx, http.MethodPost, "/auth/verify-account", map[string]string{"otp": otp}, nil)
	if err != nil {
		return err
	}
	// the cached user's verified flag is stale now
	c.invalidate()
	return nil
}

// SendResetOTP asks the server to mail a password-reset code.
func (c *Client) SendResetOTP(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/send-reset-otp", map[string]string{"email": email}, nil)
}

// ResetPassword completes a password reset with the mailed code.
func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	body := map[string]string{"email": email, "otp": otp, "newPassword": newPassword}
	return c.do(ctx, http.MethodPost, "/auth/reset-password", body, nil)
}
