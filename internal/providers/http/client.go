package http

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/mugiwarahub/mugiwara/internal/providers/utils"
	"github.com/mugiwarahub/mugiwara/pkg/types"
)

// RequestIDHeader is attached to every outgoing request
const RequestIDHeader = "X-Request-ID"

const (
	defaultTimeout   = 30 * time.Second
	defaultRetries   = 3
	defaultUserAgent = "mugiwara/1.0"
	maxLoggedBody    = 1000
)

// ClientConfig describes one remote service. Zero fields take the defaults.
type ClientConfig struct {
	// Service names the remote side in errors and logs
	Service    string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	UserAgent  string
	Debug      bool
	Logger     *slog.Logger
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{}.withDefaults()
}

func (c ClientConfig) withDefaults() ClientConfig {
	if c.Service == "" {
		c.Service = "http"
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = defaultRetries
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	return c
}

// Client is a resty client that retries transport errors, 5xx and 429, tags
// each request with an id and maps 4xx/5xx answers to *types.APIError.
type Client struct {
	resty *resty.Client
	cfg   ClientConfig
}

func NewClient(config ClientConfig) *Client {
	cfg := config.withDefaults()
	c := &Client{cfg: cfg}

	c.resty = resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(time.Second).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeaders(map[string]string{
			"User-Agent":      cfg.UserAgent,
			"Accept":          "application/json, text/html, */*",
			"Accept-Language": "en-US,en;q=0.9",
		}).
		AddRetryCondition(shouldRetry).
		OnBeforeRequest(c.beforeRequest)

	if cfg.BaseURL != "" {
		c.resty.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	}
	if c.tracing() {
		c.resty.OnAfterResponse(c.afterResponse)
	}
	return c
}

func shouldRetry(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	code := r.StatusCode()
	return code >= 500 || code == 429
}

func (c *Client) tracing() bool {
	return c.cfg.Debug && c.cfg.Logger != nil
}

func (c *Client) beforeRequest(_ *resty.Client, r *resty.Request) error {
	if r.Header.Get(RequestIDHeader) == "" {
		r.SetHeader(RequestIDHeader, uuid.NewString())
	}
	if c.tracing() {
		attrs := []any{
			"service", c.cfg.Service,
			"method", r.Method,
			"url", r.URL,
			"request_id", r.Header.Get(RequestIDHeader),
		}
		if r.Body != nil {
			attrs = append(attrs, "body", fmt.Sprintf("%v", r.Body))
		}
		c.cfg.Logger.Debug("http request", attrs...)
	}
	return nil
}

func (c *Client) afterResponse(_ *resty.Client, r *resty.Response) error {
	body := r.String()
	body = clip(body, maxLoggedBody)
	c.cfg.Logger.Debug("http response",
		"service", c.cfg.Service,
		"status", r.StatusCode(),
		"url", r.Request.URL,
		"request_id", r.Request.Header.Get(RequestIDHeader),
		"elapsed", r.Time(),
		"body", body,
	)
	return nil
}

func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*resty.Response, error) {
	return c.do(ctx, resty.MethodGet, url, nil, headers)
}

func (c *Client) Post(ctx context.Context, url string, body any, headers map[string]string) (*resty.Response, error) {
	return c.do(ctx, resty.MethodPost, url, body, headers)
}

// Delete sends body as JSON when set; the backend's watchlist delete needs one.
func (c *Client) Delete(ctx context.Context, url string, body any, headers map[string]string) (*resty.Response, error) {
	return c.do(ctx, resty.MethodDelete, url, body, headers)
}

func (c *Client) do(ctx context.Context, method, url string, body any, headers map[string]string) (*resty.Response, error) {
	req := c.resty.R().SetContext(ctx).SetHeaders(headers)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, fmt.Errorf("%s request failed for %s: %w", method, url, err)
	}

	if resp.StatusCode() >= 400 {
		return resp, &types.APIError{
			Service: c.cfg.Service,
			Status:  resp.StatusCode(),
			Message: errorMessage(resp),
		}
	}

	return resp, nil
}

// errorMessage keeps error bodies short enough for a status line
func errorMessage(resp *resty.Response) string {
	msg := strings.TrimSpace(resp.String())
	if msg == "" {
		msg = resp.Status()
	}
	msg = clip(msg, 200)
	return msg
}

// SetHeader sets a header sent on every request
func (c *Client) SetHeader(key, value string) {
	c.resty.SetHeader(key, value)
}

func (c *Client) SetHeaders(headers map[string]string) {
	c.resty.SetHeaders(headers)
}

// Service returns the name used in errors
func (c *Client) Service() string { return c.cfg.Service }

func (c *Client) Timeout() time.Duration { return c.cfg.Timeout }

func (c *Client) MaxRetries() int { return c.cfg.MaxRetries }

// clip shortens s to n runes plus "...", leaving shorter strings alone.
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return utils.CutRunes(s, n)
}
