// Package api implements the HTTP client for the DeptDesk platform API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/deptdesk/deptdesk/internal/logging"
	"github.com/deptdesk/deptdesk/internal/notification"
	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://127.0.0.1:8000"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 30 * time.Second

	// maxResponseSize caps response bodies to keep a misbehaving server
	// from exhausting memory.
	maxResponseSize = 4 * 1024 * 1024
)

// newPooledHTTPClient returns an http.Client with connection pooling
// suitable for a long-lived interactive client.
func newPooledHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
		Timeout: timeout,
	}
}

// TokenSource supplies the current bearer token, or "" when anonymous.
type TokenSource func() string

// UnauthorizedHandler is invoked when any request is answered with an
// authentication-failure status (401 or 403).
type UnauthorizedHandler func()

// Client talks to the platform API. It injects the bearer token on every
// request and raises the unauthorized signal when the server rejects one.
type Client struct {
	baseURL string
	httpc   *http.Client

	mu           sync.RWMutex
	tokenSource  TokenSource
	unauthorized []UnauthorizedHandler
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client. Used by tests.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpc.Timeout = timeout }
}

// NewClient creates a Client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		httpc:   newPooledHTTPClient(DefaultTimeout),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenSource installs the bearer token supplier.
func (c *Client) SetTokenSource(source TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokenSource = source
}

// OnUnauthorized registers a handler for the unauthorized signal. Multiple
// handlers may be registered; each fires once per rejected request.
func (c *Client) OnUnauthorized(handler UnauthorizedHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unauthorized = append(c.unauthorized, handler)
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tokenSource == nil {
		return ""
	}
	return c.tokenSource()
}

func (c *Client) fireUnauthorized() {
	c.mu.RLock()
	handlers := make([]UnauthorizedHandler, len(c.unauthorized))
	copy(handlers, c.unauthorized)
	c.mu.RUnlock()
	for _, handler := range handlers {
		handler()
	}
}

// StatusError is returned for non-2xx responses. Detail carries the
// server's error message when the body had one.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// IsUnauthorized reports whether err is a StatusError with an
// authentication-failure status.
func IsUnauthorized(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden
}

// do performs one request. A nil out skips body decoding.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logging.Debug("api request", "method", method, "path", path, "request_id", req.Header.Get("X-Request-Id"))

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("api: read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.fireUnauthorized()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("api: %s %s: %w", method, path, &StatusError{
			StatusCode: resp.StatusCode,
			Detail:     extractDetail(data),
		})
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("api: decode response: %w", err)
		}
	}
	return nil
}

// extractDetail pulls the "detail" field out of an error body.
func extractDetail(data []byte) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Detail
}

// LoginResponse is the Auth API's login payload.
type LoginResponse struct {
	AccessToken      string `json:"access_token"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	AccessLevelValue int    `json:"access_level_value"`
	TokenType        string `json:"token_type"`
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	payload := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, payload, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &resp, nil
}

// ListNotifications fetches up to limit notifications from the feed.
func (c *Client) ListNotifications(ctx context.Context, limit int) ([]notification.Notification, error) {
	query := url.Values{"limit": []string{strconv.Itoa(limit)}}
	var out []notification.Notification
	if err := c.do(ctx, http.MethodGet, "/api/notifications", query, nil, &out); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

// CreateNotificationRequest is the creation payload for a notification.
type CreateNotificationRequest struct {
	Title    string `json:"title,omitempty"`
	Message  string `json:"message"`
	Category string `json:"category,omitempty"`
	Link     string `json:"link,omitempty"`
}

// CreateNotification creates a notification and returns the created record.
func (c *Client) CreateNotification(ctx context.Context, req CreateNotificationRequest) (*notification.Notification, error) {
	var out notification.Notification
	if err := c.do(ctx, http.MethodPost, "/api/notifications", nil, req, &out); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return &out, nil
}

// MarkNotificationRead marks a single notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id notification.ID) error {
	path := "/api/notifications/" + url.PathEscape(string(id)) + "/read"
	if err := c.do(ctx, http.MethodPatch, path, nil, nil, nil); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/notifications/read-all", nil, nil, nil); err != nil {
		return fmt.Errorf("mark all read: %w", err)
	}
	return nil
}
