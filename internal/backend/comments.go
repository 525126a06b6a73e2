package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrEmptyComment is returned for blank comment text
var ErrEmptyComment = errors.New("comment is empty")

// Comments lists the comments under an anime. No session is needed.
func (c *Client) Comments(ctx context.Context, animeID int) ([]Comment, error) {
	var resp commentsResponse
	path := fmt.Sprintf("/api/anime/comment/%d", animeID)
	if err := c.do(ctx, http.MethodGet, path, nil, false, &resp); err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	comments := make([]Comment, 0, len(resp.Comments))
	for _, raw := range resp.Comments {
		comment := Comment{
			ID:        raw.ID,
			UserID:    raw.UserID,
			Content:   raw.Content,
			CreatedAt: raw.CreatedAt,
			User:      CommentUser{Name: "Anonymous"},
		}
		if raw.User != nil {
			if raw.User.Name != "" {
				comment.User.Name = raw.User.Name
			}
			comment.User.Profile = raw.User.Profile
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

// AddComment posts text under an anime and returns the refreshed list
func (c *Client) AddComment(ctx context.Context, animeID int, text string) ([]Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyComment
	}

	body := commentRequest{Comment: text, AnimeID: animeID}
	if err := c.do(ctx, http.MethodPost, "/api/anime/comment", body, true, nil); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return c.Comments(ctx, animeID)
}
