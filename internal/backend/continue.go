package backend

import (
	"context"
	"fmt"
	"net/http"
)

// ContinueWatching lists the anime the user has started
func (c *Client) ContinueWatching(ctx context.Context) ([]ContinueItem, error) {
	var items []ContinueItem
	if err := c.do(ctx, http.MethodGet, "/api/continueWatching/get", nil, true, &items); err != nil {
		return nil, fmt.Errorf("failed to load continue watching: %w", err)
	}
	return items, nil
}

// AddContinueWatching records the episode the user is on
func (c *Client) AddContinueWatching(ctx context.Context, item ContinueItem) error {
	body := continueRequest{
		AnimeID:   int(item.AnimeID),
		EpisodeID: item.EpisodeID,
		Title:     item.Title,
		Image:     item.Image,
	}
	if err := c.do(ctx, http.MethodPost, "/api/continueWatching/add", body, true, nil); err != nil {
		return fmt.Errorf("failed to save continue watching: %w", err)
	}
	return nil
}

// DeleteContinueWatching drops an anime from continue watching
func (c *Client) DeleteContinueWatching(ctx context.Context, animeID int) error {
	path := fmt.Sprintf("/api/continueWatching/delete/%d", animeID)
	if err := c.do(ctx, http.MethodDelete, path, nil, true, nil); err != nil {
		return fmt.Errorf("failed to delete continue watching: %w", err)
	}
	return nil
}
