package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/maya-cli/internal/common"
	"github.com/dmitrijs2005/maya-cli/internal/logging"
	"github.com/dmitrijs2005/maya-cli/internal/netx"
	"github.com/google/uuid"
)

// HTTPClient talks JSON over HTTP to the Maya backend. The backend exposes
// every auth route twice, under /api/auth and under the legacy /auth prefix,
// so each call targets the primary prefix first and is retried once against
// the legacy prefix when the first attempt fails in any way.
type HTTPClient struct {
	serverURL string
	primary   string
	fallback  string
	http      *http.Client
	log       logging.Logger
}

var _ Client = (*HTTPClient)(nil)

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client, e.g. to set a
// transport-level timeout. The client itself imposes no deadlines; cancel
// through the request context or the injected *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) { c.http = h }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

func NewHTTPClient(serverURL string, opts ...Option) (*HTTPClient, error) {
	primary, fallback, err := netx.AuthBases(serverURL)
	if err != nil {
		return nil, err
	}
	c := &HTTPClient{
		serverURL: strings.TrimRight(serverURL, "/"),
		primary:   primary,
		fallback:  fallback,
		http:      &http.Client{},
		log:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// request describes one auth-route call relative to a route prefix.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	bearer string
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type otpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (c *HTTPClient) Register(ctx context.Context, email string, password string) (Payload, error) {
	return c.callAuth(ctx, request{method: http.MethodPost, path: "/register", body: credentials{Email: email, Password: password}})
}

func (c *HTTPClient) Login(ctx context.Context, email string, password string) (Payload, error) {
	return c.callAuth(ctx, request{method: http.MethodPost, path: "/login", body: credentials{Email: email, Password: password}})
}

func (c *HTTPClient) SendOTP(ctx context.Context, email string) (Payload, error) {
	return c.callAuth(ctx, request{method: http.MethodPost, path: "/send-otp", body: emailRequest{Email: email}})
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, email string, otp string) (Payload, error) {
	return c.callAuth(ctx, request{method: http.MethodPost, path: "/verify-otp", body: otpRequest{Email: email, OTP: otp}})
}

func (c *HTTPClient) CompleteRegistration(ctx context.Context, req CompleteRegistrationRequest) (Payload, error) {
	return c.callAuth(ctx, request{method: http.MethodPost, path: "/complete-registration", body: req})
}

func (c *HTTPClient) UpdatePassword(ctx context.Context, email string, password string) (Payload, error) {
	return c.callAuth(ctx, request{method: http.MethodPost, path: "/update-password", body: credentials{Email: email, Password: password}})
}

func (c *HTTPClient) EmailAvailable(ctx context.Context, email string) (bool, error) {
	q := url.Values{}
	q.Set("email", email)

	p, err := c.callAuth(ctx, request{method: http.MethodGet, path: "/email-available", query: q})
	if err != nil {
		return false, err
	}
	available, _ := p["available"].(bool)
	return available, nil
}

func (c *HTTPClient) Me(ctx context.Context, accessToken string) (Payload, error) {
	return c.callAuth(ctx, request{method: http.MethodGet, path: "/me", bearer: accessToken})
}

// Ping probes the backend health endpoint. Unlike the auth routes it is not
// prefix-mounted, so there is no legacy fallback.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serverURL+"/health/", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, Body: string(data)}
	}

	p := decodePayload(data)
	if status, _ := p["status"].(string); status != "healthy" {
		return ErrUnavailable
	}
	return nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// callAuth sends r against the primary prefix, then once against the legacy
// prefix if the first attempt failed. When both attempts fail the primary
// error is returned and the legacy one is only logged: the primary route is
// the real contract, the legacy route is best effort.
func (c *HTTPClient) callAuth(ctx context.Context, r request) (Payload, error) {
	requestID := uuid.NewString()

	p, primaryErr := c.send(ctx, c.primary, requestID, r)
	if primaryErr == nil {
		return p, nil
	}
	c.log.Debug(ctx, "primary auth route failed, retrying legacy route",
		"path", r.path, "request_id", requestID, "error", primaryErr)

	p, fallbackErr := c.send(ctx, c.fallback, requestID, r)
	if fallbackErr != nil {
		c.log.Debug(ctx, "legacy auth route failed",
			"path", r.path, "request_id", requestID, "error", fallbackErr)
		return nil, primaryErr
	}
	return p, nil
}

// send performs a single HTTP exchange against one route prefix.
func (c *HTTPClient) send(ctx context.Context, prefix string, requestID string, r request) (Payload, error) {
	u := prefix + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+r.bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(data)}
	}

	return decodePayload(data), nil
}

// decodePayload decodes a success body. Auth responses carry no guaranteed
// schema, so empty or non-object bodies yield an empty Payload rather than
// an error.
func decodePayload(data []byte) Payload {
	if len(data) == 0 {
		return Payload{}
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}
	}
	return p
}
