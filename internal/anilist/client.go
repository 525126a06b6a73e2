package anilist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mugiwarahub/mugiwara/internal/config"
	providerhttp "github.com/mugiwarahub/mugiwara/internal/providers/http"
	"github.com/mugiwarahub/mugiwara/internal/providers/utils"
	"github.com/mugiwarahub/mugiwara/pkg/types"
)

const (
	feedSize         = 20
	featuredSize     = 11
	featuredGenres   = 3
	featuredSynopsis = 200
	cardSynopsis     = 120
	recommendedPages = 5
)

// Client queries the AniList GraphQL API
type Client struct {
	endpoint   string
	httpClient *providerhttp.Client
	limiter    *rate.Limiter
	logger     *slog.Logger

	// randomPage picks the page for Recommended
	randomPage func() int
}

// NewClient creates a new AniList client
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := providerhttp.NewClient(providerhttp.ClientConfig{
		Service:    "anilist",
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
		endpoint:   cfg.API.MetadataURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 2),
		logger:     logger,
		randomPage: func() int { return rand.IntN(recommendedPages) + 1 },
	}
}

// Airing returns the most popular currently releasing anime
func (c *Client) Airing(ctx context.Context) ([]Card, error) {
	resp, err := c.page(ctx, airingQuery, map[string]interface{}{"page": 1, "perPage": feedSize})
	if err != nil {
		return nil, fmt.Errorf("failed to load airing anime: %w", err)
	}

	cards := make([]Card, 0, len(resp.Media))
	for _, m := range resp.Media {
		card := feedCard(m)
		// Only aired episodes count for shows still releasing
		if m.NextAiringEpisode != nil {
			card.Episodes = m.NextAiringEpisode.Episode - 1
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// Recommended returns high scoring anime from a random page in [1,5]
func (c *Client) Recommended(ctx context.Context) ([]Card, error) {
	page := c.randomPage()
	resp, err := c.page(ctx, recommendedQuery, map[string]interface{}{"page": page, "perPage": feedSize})
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendations: %w", err)
	}
	return mapCards(resp.Media, feedCard), nil
}

// Featured returns trending anime that have a banner image
func (c *Client) Featured(ctx context.Context) ([]Card, error) {
	resp, err := c.page(ctx, featuredQuery, map[string]interface{}{"page": 1, "perPage": featuredSize})
	if err != nil {
		return nil, fmt.Errorf("failed to load featured anime: %w", err)
	}

	cards := make([]Card, 0, len(resp.Media))
	for _, m := range resp.Media {
		if m.BannerImage == nil || *m.BannerImage == "" {
			continue
		}
		card := baseCard(m)
		card.Banner = *m.BannerImage
		card.Synopsis = utils.CardSynopsis(deref(m.Description), featuredSynopsis)
		if len(m.Genres) > featuredGenres {
			card.Genres = m.Genres[:featuredGenres]
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// Movies returns the most popular anime movies
func (c *Client) Movies(ctx context.Context) ([]Card, error) {
	resp, err := c.page(ctx, moviesQuery, map[string]interface{}{"page": 1, "perPage": feedSize})
	if err != nil {
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}
	return mapCards(resp.Media, feedCard), nil
}

// Search runs a title search. A blank query returns an empty page without a request.
func (c *Client) Search(ctx context.Context, query string, page int) (*Page, error) {
	if strings.TrimSpace(query) == "" {
		return &Page{CurrentPage: 1}, nil
	}
	if page < 1 {
		page = 1
	}

	// Queries coming from routes may still be percent-encoded. "+" is kept.
	if decoded, err := url.PathUnescape(query); err == nil {
		query = decoded
	}

	resp, err := c.page(ctx, searchQuery, map[string]interface{}{
		"search":  query,
		"page":    page,
		"perPage": feedSize,
	})
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	return toPage(resp, searchCard), nil
}

// ByGenre lists anime of a genre by popularity
func (c *Client) ByGenre(ctx context.Context, genre string, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}

	resp, err := c.page(ctx, genreQuery, map[string]interface{}{
		"genre":   genre,
		"page":    page,
		"perPage": feedSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s anime: %w", genre, err)
	}

	return toPage(resp, searchCard), nil
}

type pageData struct {
	PageInfo pageInfo
	Media    []media
}

func (c *Client) page(ctx context.Context, query string, variables map[string]interface{}) (*pageData, error) {
	var resp pageResponse
	if err := c.query(ctx, query, variables, &resp); err != nil {
		return nil, err
	}
	return &pageData{PageInfo: resp.Data.Page.PageInfo, Media: resp.Data.Page.Media}, nil
}

// query sends a GraphQL request and surfaces GraphQL errors as *types.APIError
func (c *Client) query(ctx context.Context, query string, variables map[string]interface{}, result *pageResponse) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	requestBody := map[string]interface{}{
		"query":     query,
		"variables": variables,
	}

	resp, err := c.httpClient.Post(ctx, c.endpoint, requestBody, nil)
	if err != nil {
		var apiErr *types.APIError
		if errors.As(err, &apiErr) && resp != nil {
			var errorResponse pageResponse
			if jsonErr := json.Unmarshal(resp.Body(), &errorResponse); jsonErr == nil && len(errorResponse.Errors) > 0 {
				apiErr.Message = errorResponse.Errors[0].Message
			}
		}
		c.logger.Error("anilist request failed", "error", err)
		return err
	}

	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(result.Errors) > 0 {
		return &types.APIError{
			Service: "anilist",
			Status:  result.Errors[0].Status,
			Message: result.Errors[0].Message,
		}
	}

	return nil
}

func baseCard(m media) Card {
	card := Card{
		ID:            m.ID,
		Title:         utils.DefaultString(m.Title.English, m.Title.Romaji),
		JapaneseTitle: utils.DefaultString(m.Title.Native, m.Title.Romaji),
		Image:         utils.DefaultString(m.CoverImage.Large, m.CoverImage.ExtraLarge, m.CoverImage.Medium),
		Genres:        m.Genres,
		Status:        m.Status,
	}
	if m.Episodes != nil {
		card.Episodes = *m.Episodes
	}
	if m.AverageScore != nil {
		card.Rating = float64(*m.AverageScore) / 10
	}
	if m.SeasonYear != nil {
		card.Year = *m.SeasonYear
	}
	return card
}

func feedCard(m media) Card {
	card := baseCard(m)
	card.Synopsis = utils.CardSynopsis(deref(m.Description), cardSynopsis)
	return card
}

func searchCard(m media) Card {
	card := baseCard(m)
	card.Synopsis = "No synopsis available"
	if d := deref(m.Description); d != "" {
		card.Synopsis = utils.StripHTML(d)
	}
	return card
}

func mapCards(items []media, fn func(media) Card) []Card {
	cards := make([]Card, 0, len(items))
	for _, m := range items {
		cards = append(cards, fn(m))
	}
	return cards
}

func toPage(resp *pageData, fn func(media) Card) *Page {
	return &Page{
		Items:       mapCards(resp.Media, fn),
		HasNextPage: resp.PageInfo.HasNextPage,
		CurrentPage: resp.PageInfo.CurrentPage,
		LastPage:    resp.PageInfo.LastPage,
		Total:       resp.PageInfo.Total,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
