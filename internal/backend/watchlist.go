package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mugiwarahub/mugiwara/internal/providers/utils"
)

const (
	watchlistAdded   = "Anime added to watchlist"
	watchlistRemoved = "Anime removed from watchlist"

	// HomeWatchlistSize is how many watchlist entries the home feed shows
	HomeWatchlistSize = 10
	homeSynopsisRunes = 120
)

// Watchlist returns every anime on the user's watchlist
func (c *Client) Watchlist(ctx context.Context) ([]WatchlistItem, error) {
	var items []WatchlistItem
	if err := c.do(ctx, http.MethodGet, "/api/watchlist", nil, true, &items); err != nil {
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}
	return items, nil
}

// HomeWatchlist returns the first entries with short synopses. Any failure,
// including a missing session, gives an empty list.
func (c *Client) HomeWatchlist(ctx context.Context) []WatchlistItem {
	items, err := c.Watchlist(ctx)
	if err != nil {
		c.logger.Warn("failed to load watchlist data", "error", err)
		return []WatchlistItem{}
	}

	if len(items) > HomeWatchlistSize {
		items = items[:HomeWatchlistSize]
	}
	for i := range items {
		items[i].Synopsis = utils.CardSynopsis(items[i].Synopsis, homeSynopsisRunes)
	}
	return items
}

// InWatchlist reports whether animeID is on the watchlist
func (c *Client) InWatchlist(ctx context.Context, animeID int) (bool, error) {
	var resp checkResponse
	body := watchlistRequest{AnimeID: animeID}
	if err := c.do(ctx, http.MethodPost, "/api/watchlist/check", body, true, &resp); err != nil {
		return false, fmt.Errorf("failed to check watchlist: %w", err)
	}
	return resp.Response, nil
}

// AddToWatchlist saves an anime. The backend confirms with a fixed message.
func (c *Client) AddToWatchlist(ctx context.Context, item WatchlistItem) error {
	body := watchlistRequest{
		AnimeID:       int(item.AnimeID),
		EnglishTitle:  item.EnglishTitle,
		JapaneseTitle: item.JapaneseTitle,
		ImageURL:      item.ImageURL,
		Synopsis:      item.Synopsis,
	}

	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/api/watchlist/add", body, true, &resp); err != nil {
		return fmt.Errorf("failed to add to watchlist: %w", err)
	}
	if resp.Message != watchlistAdded {
		return fmt.Errorf("failed to add to watchlist: %s", utils.DefaultString(resp.Message, "unexpected response"))
	}
	return nil
}

// RemoveFromWatchlist deletes an anime from the watchlist
func (c *Client) RemoveFromWatchlist(ctx context.Context, animeID int) error {
	var resp messageResponse
	body := watchlistRequest{AnimeID: animeID}
	if err := c.do(ctx, http.MethodDelete, "/api/watchlist/delete", body, true, &resp); err != nil {
		return fmt.Errorf("failed to remove from watchlist: %w", err)
	}
	if resp.Message != watchlistRemoved {
		return fmt.Errorf("failed to remove from watchlist: %s", utils.DefaultString(resp.Message, "unexpected response"))
	}
	return nil
}

// ToggleWatchlist adds or removes item depending on its current state and
// returns whether it is on the watchlist afterwards
func (c *Client) ToggleWatchlist(ctx context.Context, item WatchlistItem) (bool, error) {
	in, err := c.InWatchlist(ctx, int(item.AnimeID))
	if err != nil {
		return false, err
	}

	if in {
		if err := c.RemoveFromWatchlist(ctx, int(item.AnimeID)); err != nil {
			return true, err
		}
		return false, nil
	}

	if err := c.AddToWatchlist(ctx, item); err != nil {
		return false, err
	}
	return true, nil
}
