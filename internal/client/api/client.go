// Package api is the HTTP client for the auth server. Session cookies are
// kept in a cookie jar, so after Login every call carries the accessToken
// and tokenId cookies and picks up reissued access tokens automatically.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
)

var (
	ErrUnavailable   = errors.New("server unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrBadRequest    = errors.New("bad request")
)

// maxErrorBody caps how much of an error response is kept for messages.
const maxErrorBody = 1 << 10

// User is the public account record returned by the server.
type User struct {
	ID       int64  `json:"id"`
	FName    string `json:"fname"`
	LName    string `json:"lname"`
	Email    string `json:"email"`
	Position string `json:"position"`
}

type RegisterRequest struct {
	FName    string `json:"fname"`
	LName    string `json:"lname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Position string `json:"position"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

type tokenResponse struct {
	User User `json:"user"`
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New returns a Client for the server at baseURL with its own cookie jar.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: u,
		http:    &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

// HasSession reports whether the jar holds a session identifier.
func (c *Client) HasSession() bool {
	for _, ck := range c.http.Jar.Cookies(c.baseURL) {
		if ck.Name == common.TokenIDCookieName && ck.Value != "" {
			return true
		}
	}
	return false
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	resp, err := c.do(ctx, http.MethodPost, "/register", req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	resp, err := c.do(ctx, http.MethodPost, "/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	return &lr.User, nil
}

// WhoAmI validates the current session through GET /token.
func (c *Client) WhoAmI(ctx context.Context) (*User, error) {
	resp, err := c.do(ctx, http.MethodGet, "/token", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	return &tr.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/logout", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return statusError(resp)
	}
	return nil
}

// Ping checks the server's health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

// statusError maps a non-success response to one of the package errors,
// keeping the server's plain-text message.
func statusError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(b))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	var base error
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		base = ErrUnauthorized
	case http.StatusNotFound:
		base = ErrNotFound
	case http.StatusConflict:
		base = ErrAlreadyExists
	case http.StatusBadRequest:
		base = ErrBadRequest
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, msg)
	}
	return fmt.Errorf("%w: %s", base, msg)
}
