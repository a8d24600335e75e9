package payrollapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-onboarding/internal/config"
	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/jwt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrUpstream marks every failure talking to the payroll API.
var ErrUpstream = errors.New("payroll API request failed")

// APIError is a non-2xx answer from the payroll API.
type APIError struct {
	StatusCode int
	ErrorCode  string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("payroll API error [%d] %s: %s", e.StatusCode, e.ErrorCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return ErrUpstream
}

// Retryable reports whether the same request may succeed later.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// envelope is the payroll API response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Client calls the payroll REST API. The caller's bearer token is forwarded
// when present; otherwise service credentials are used if configured.
type Client struct {
	baseURL       *url.URL
	base          *http.Client
	serviceTokens oauth2.TokenSource
	logger        *slog.Logger
}

func NewClient(cfg config.PayrollAPIConfig, logger *slog.Logger) (*Client, error) {
	baseURL, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid payroll API base URL: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	base := &http.Client{Timeout: cfg.Timeout}
	if cfg.Timeout == 0 {
		base.Timeout = 30 * time.Second
	}

	c := &Client{
		baseURL: baseURL,
		base:    base,
		logger:  logger,
	}

	if cfg.ClientID != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		c.serviceTokens = oauth2.ReuseTokenSource(nil, cc.TokenSource(tokenCtx))
	}

	return c, nil
}

// httpClient returns a client authenticated for this call.
func (c *Client) httpClient(ctx context.Context) *http.Client {
	var src oauth2.TokenSource
	if raw := jwt.RawTokenFromContext(ctx); raw != "" {
		src = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: raw, TokenType: "Bearer"})
	} else if c.serviceTokens != nil {
		src = c.serviceTokens
	}
	if src == nil {
		return c.base
	}

	transport := c.base.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &http.Client{
		Transport: &oauth2.Transport{Source: src, Base: transport},
		Timeout:   c.base.Timeout,
	}
}

func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.Join(escaped, "/")
	return u.String()
}

// do sends body as JSON and decodes the envelope's data into out.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient(ctx).Do(req)
	if err != nil {
		c.logger.Warn("payroll API unreachable", slog.String("method", method), slog.String("url", endpoint), slog.Any("error", err))
		return fmt.Errorf("%w: %s %s: %v", ErrUpstream, method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || (decodeErr == nil && !env.Success && env.Error != nil) {
		apiErr := &APIError{StatusCode: resp.StatusCode, ErrorCode: "UNKNOWN", Message: http.StatusText(resp.StatusCode)}
		if decodeErr == nil && env.Error != nil {
			apiErr.ErrorCode = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		c.logger.Warn("payroll API rejected request",
			slog.String("method", method),
			slog.String("url", endpoint),
			slog.Int("status", apiErr.StatusCode),
			slog.String("code", apiErr.ErrorCode),
		)
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUpstream, decodeErr)
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decode data: %v", ErrUpstream, err)
	}
	return nil
}
