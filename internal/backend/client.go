package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"

	"github.com/mugiwarahub/mugiwara/internal/config"
	providerhttp "github.com/mugiwarahub/mugiwara/internal/providers/http"
	"github.com/mugiwarahub/mugiwara/pkg/types"
)

// Client talks to the user backend: auth, profile, watchlist, continue watching and comments
type Client struct {
	baseURL    string
	httpClient *providerhttp.Client
	tokens     oauth2.TokenSource
	logger     *slog.Logger
}

// NewClient creates a backend client. tokens may be nil for anonymous use.
func NewClient(cfg *config.Config, tokens oauth2.TokenSource, logger *slog.Logger) *Client {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := providerhttp.NewClient(providerhttp.ClientConfig{
		Service:    "backend",
		Timeout:    cfg.API.Timeout,
		MaxRetries: cfg.API.MaxRetries,
		UserAgent:  cfg.API.UserAgent,
		Debug:      cfg.Advanced.Debug,
		Logger:     logger,
	})
	httpClient.SetHeaders(map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	})

	return &Client{
		baseURL:    strings.TrimRight(cfg.API.BackendURL, "/"),
		httpClient: httpClient,
		tokens:     tokens,
		logger:     logger,
	}
}

// authHeaders returns the Authorization header of the current session
func (c *Client) authHeaders() (map[string]string, error) {
	if c.tokens == nil {
		return nil, types.ErrNotAuthenticated
	}
	tok, err := c.tokens.Token()
	if err != nil {
		return nil, err
	}
	return map[string]string{"Authorization": tok.Type() + " " + tok.AccessToken}, nil
}

// do sends a request and decodes the JSON answer into result when non-nil
func (c *Client) do(ctx context.Context, method, path string, body interface{}, auth bool, result interface{}) error {
	var headers map[string]string
	if auth {
		h, err := c.authHeaders()
		if err != nil {
			return err
		}
		headers = h
	}

	fullURL := c.baseURL + path

	var (
		resp *resty.Response
		err  error
	)
	switch method {
	case http.MethodGet:
		resp, err = c.httpClient.Get(ctx, fullURL, headers)
	case http.MethodPost:
		resp, err = c.httpClient.Post(ctx, fullURL, body, headers)
	case http.MethodDelete:
		resp, err = c.httpClient.Delete(ctx, fullURL, body, headers)
	default:
		return fmt.Errorf("unsupported method %s", method)
	}

	if err != nil {
		var apiErr *types.APIError
		if errors.As(err, &apiErr) && resp != nil {
			var msg messageResponse
			if jsonErr := json.Unmarshal(resp.Body(), &msg); jsonErr == nil && msg.Message != "" {
				apiErr.Message = msg.Message
			}
			if apiErr.Status == http.StatusUnauthorized {
				err = fmt.Errorf("%w: %w", types.ErrNotAuthenticated, err)
			}
		}
		c.logger.Error("backend request failed", "method", method, "path", path, "error", err)
		return err
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return nil
}
