package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/mugiwarahub/mugiwara/internal/config"
	providerhttp "github.com/mugiwarahub/mugiwara/internal/providers/http"
	"github.com/mugiwarahub/mugiwara/pkg/types"
)

const defaultRelationsLimit = 10

// Client talks to the proxy service that fronts the episode providers
type Client struct {
	baseURL        string
	streamProxyURL string
	httpClient     *providerhttp.Client
	cache          *InfoCache
	relationsLimit int
	debug          bool
	logger         *slog.Logger
}

// NewClient creates a new proxy client
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	if cfg == nil {
		cfg = config.Default()
	}

	if logger == nil {
		logger = slog.Default()
	}

	httpClient := providerhttp.NewClient(providerhttp.ClientConfig{
		Service:    "proxy",
		Timeout:    cfg.API.Timeout,
		MaxRetries: cfg.API.MaxRetries,
		UserAgent:  cfg.API.UserAgent,
		Debug:      cfg.Advanced.Debug,
		Logger:     logger,
	})

	limit := cfg.UI.RelationsLimit
	if limit <= 0 {
		limit = defaultRelationsLimit
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.API.ProxyURL, "/"),
		streamProxyURL: strings.TrimRight(cfg.API.StreamProxyURL, "/"),
		httpClient:     httpClient,
		cache:          NewInfoCache(defaultInfoTTL, defaultInfoMaxLen),
		relationsLimit: limit,
		debug:          cfg.Advanced.Debug,
		logger:         logger,
	}
}

// Info retrieves anime information by AniList id. Answers are cached for a while.
func (c *Client) Info(ctx context.Context, anilistID int) (*AnimeInfo, error) {
	if info, ok := c.cache.Get(anilistID); ok {
		return info, nil
	}

	endpoint := fmt.Sprintf("/api/info/%d", anilistID)

	var response AnimeInfo
	if err := c.get(ctx, endpoint, nil, &response); err != nil {
		return nil, fmt.Errorf("get info failed: %w", err)
	}

	c.cache.Set(anilistID, &response)
	return &response, nil
}

// Details fetches Info and prepares characters, relations and recommendations for display
func (c *Client) Details(ctx context.Context, anilistID int) (*AnimeDetails, error) {
	info, err := c.Info(ctx, anilistID)
	if err != nil {
		return nil, err
	}
	return BuildDetails(info, c.relationsLimit), nil
}

// BuildDetails orders characters with MAIN roles first, drops adaptation
// relations and recommendations without an id.
func BuildDetails(info *AnimeInfo, relationsLimit int) *AnimeDetails {
	details := &AnimeDetails{Info: info}

	details.Characters = append([]Character(nil), info.Characters...)
	sort.SliceStable(details.Characters, func(i, j int) bool {
		a, b := details.Characters[i], details.Characters[j]
		aMain, bMain := a.Role == "MAIN", b.Role == "MAIN"
		if aMain != bMain {
			return aMain
		}
		return strings.ToLower(a.Name.Full) < strings.ToLower(b.Name.Full)
	})

	for _, rel := range info.Relations {
		if rel.RelationType == "ADAPTATION" {
			continue
		}
		details.Relations = append(details.Relations, rel)
		if relationsLimit > 0 && len(details.Relations) == relationsLimit {
			break
		}
	}

	for _, rec := range info.Recommendations {
		if rec.ID == nil {
			continue
		}
		title := rec.Title.English
		if title == "" {
			title = rec.Title.Romaji
		}
		details.Recommendations = append(details.Recommendations, Recommendation{
			ID:     *rec.ID,
			Image:  rec.Image,
			Rating: rec.Rating,
			Title:  title,
		})
	}

	return details
}

// Episodes lists the episodes a provider has for an anime
func (c *Client) Episodes(ctx context.Context, anilistID int, provider string) ([]ProviderEpisode, error) {
	endpoint := fmt.Sprintf("/api/episodes/%d", anilistID)

	var params map[string]string
	if provider != "" && provider != types.ProviderPahe {
		params = map[string]string{"provider": provider}
	}

	var episodes []ProviderEpisode
	if err := c.get(ctx, endpoint, params, &episodes); err != nil {
		return nil, fmt.Errorf("get %s episodes failed: %w", providerLabel(provider), err)
	}

	return episodes, nil
}

// WatchPahe retrieves sources for a Pahe episode
func (c *Client) WatchPahe(ctx context.Context, paheID string) (*EpisodeSources, error) {
	// Don't escape the id, it is "session/episode" and both halves are path segments
	endpoint := "/api/watch/" + paheID

	var response EpisodeSources
	if err := c.get(ctx, endpoint, nil, &response); err != nil {
		return nil, fmt.Errorf("get pahe sources failed: %w", err)
	}

	if c.debug {
		c.logger.Debug("pahe sources", "id", paheID, "sources", len(response.Sources))
	}

	return &response, nil
}

// WatchZoro retrieves sources for a Zoro episode
func (c *Client) WatchZoro(ctx context.Context, zoroID string) (*EpisodeSources, error) {
	endpoint := "/api/zoro/" + zoroID

	var response EpisodeSources
	if err := c.get(ctx, endpoint, nil, &response); err != nil {
		return nil, fmt.Errorf("get zoro sources failed: %w", err)
	}

	if c.debug {
		c.logger.Debug("zoro sources", "id", zoroID,
			"sources", len(response.Sources),
			"subtitles", len(response.Subtitles))
	}

	return &response, nil
}

// StreamURL wraps a source URL in the stream proxy so it plays without the host's referer checks
func (c *Client) StreamURL(source types.Source, referer string) string {
	return BuildStreamURL(c.streamProxyURL, source, referer)
}

// BuildStreamURL returns {base}/api/hls-proxy for HLS sources and {base}/api/proxy otherwise
func BuildStreamURL(base string, source types.Source, referer string) string {
	path := "/api/proxy"
	if source.IsM3U8 {
		path = "/api/hls-proxy"
	}
	return fmt.Sprintf("%s%s?url=%s&referer=%s",
		strings.TrimRight(base, "/"), path,
		url.QueryEscape(source.URL), url.QueryEscape(referer))
}

// HealthCheck reports whether the proxy answers at all
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.httpClient.Get(ctx, c.baseURL+"/", nil)
	var apiErr *types.APIError
	// Any HTTP answer means the server is up
	if err != nil && !errors.As(err, &apiErr) {
		return err
	}
	return nil
}

// Cache exposes the info cache
func (c *Client) Cache() *InfoCache {
	return c.cache
}

// get performs a GET request to the proxy
func (c *Client) get(ctx context.Context, endpoint string, params map[string]string, result interface{}) error {
	fullURL := c.baseURL + endpoint

	if len(params) > 0 {
		u, err := url.Parse(fullURL)
		if err != nil {
			return fmt.Errorf("invalid URL: %w", err)
		}

		q := u.Query()
		for key, value := range params {
			q.Set(key, value)
		}
		u.RawQuery = q.Encode()
		fullURL = u.String()
	}

	resp, err := c.httpClient.Get(ctx, fullURL, nil)
	if err != nil {
		var apiErr *types.APIError
		if errors.As(err, &apiErr) && resp != nil {
			var errorResp ErrorResponse
			if jsonErr := json.Unmarshal(resp.Body(), &errorResp); jsonErr == nil {
				if msg := firstNonEmpty(errorResp.Error, errorResp.Message); msg != "" {
					apiErr.Message = msg
				}
			}
		}
		c.logger.Error("proxy request failed", "endpoint", endpoint, "error", err)
		return err
	}

	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

func providerLabel(provider string) string {
	if provider == "" {
		return types.ProviderPahe
	}
	return provider
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
