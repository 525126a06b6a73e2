package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mugiwarahub/mugiwara/internal/database"
	"github.com/mugiwarahub/mugiwara/internal/providers/utils"
)

// FlexInt decodes ids the backend sends either as numbers or as numeric strings
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*f = FlexInt(n)
	return nil
}

// FlexString decodes values sent either as strings or as numbers
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	if string(data) == "null" {
		*f = ""
		return nil
	}
	*f = FlexString(data)
	return nil
}

type authUser struct {
	Token string `json:"token"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type authResponse struct {
	User    *authUser `json:"user"`
	Message string    `json:"message,omitempty"`
}

// Profile is the signed-in user
type Profile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Profile string `json:"profile"`
}

// DisplayName falls back to a placeholder when the backend has no name
func (p Profile) DisplayName() string {
	return utils.DefaultString(p.Name, "Anime Fan")
}

// WatchlistItem is one saved anime. Field names follow the backend's casing.
type WatchlistItem struct {
	AnimeID       FlexInt `json:"AnimeId"`
	EnglishTitle  string  `json:"English_Title"`
	JapaneseTitle string  `json:"Japanese_Title"`
	ImageURL      string  `json:"Image_url"`
	Synopsis      string  `json:"synopsis"`
}

// Title returns the English title, else the Japanese one
func (w WatchlistItem) Title() string {
	return utils.DefaultString(w.EnglishTitle, w.JapaneseTitle)
}

// CacheRow converts the item for the local watchlist cache
func (w WatchlistItem) CacheRow() database.WatchlistCache {
	return database.WatchlistCache{
		AnimeID:       int(w.AnimeID),
		EnglishTitle:  w.EnglishTitle,
		JapaneseTitle: w.JapaneseTitle,
		ImageURL:      w.ImageURL,
		Synopsis:      w.Synopsis,
	}
}

// WatchlistItemFromCache is the inverse of CacheRow
func WatchlistItemFromCache(row database.WatchlistCache) WatchlistItem {
	return WatchlistItem{
		AnimeID:       FlexInt(row.AnimeID),
		EnglishTitle:  row.EnglishTitle,
		JapaneseTitle: row.JapaneseTitle,
		ImageURL:      row.ImageURL,
		Synopsis:      row.Synopsis,
	}
}

type watchlistRequest struct {
	AnimeID       int    `json:"AnimeId"`
	EnglishTitle  string `json:"English_Title,omitempty"`
	JapaneseTitle string `json:"Japanese_Title,omitempty"`
	ImageURL      string `json:"Image_url,omitempty"`
	Synopsis      string `json:"synopsis,omitempty"`
}

type checkResponse struct {
	Response bool `json:"response"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// ContinueItem is a backend continue-watching entry. EpisodeID holds the WatchID string.
type ContinueItem struct {
	AnimeID   FlexInt `json:"AnimeId"`
	Title     string  `json:"title"`
	Image     string  `json:"image"`
	EpisodeID string  `json:"episodeId"`
}

type continueRequest struct {
	AnimeID   int    `json:"AnimeId"`
	EpisodeID string `json:"episodeId"`
	Title     string `json:"title"`
	Image     string `json:"image"`
}

// CommentUser is the author of a comment
type CommentUser struct {
	Name    string `json:"name"`
	Profile string `json:"profile"`
}

// Comment is one comment under an anime
type Comment struct {
	ID        FlexString  `json:"id"`
	UserID    FlexString  `json:"userId"`
	Content   string      `json:"content"`
	User      CommentUser `json:"user"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Age renders the comment time relative to now, e.g. "3 hours ago"
func (c Comment) Age() string {
	if c.CreatedAt.IsZero() {
		return ""
	}
	return humanize.Time(c.CreatedAt)
}

type rawComment struct {
	ID        FlexString   `json:"id"`
	UserID    FlexString   `json:"userId"`
	Content   string       `json:"content"`
	User      *CommentUser `json:"user"`
	CreatedAt time.Time    `json:"createdAt"`
}

type commentsResponse struct {
	Comments []rawComment `json:"comments"`
}

type commentRequest struct {
	Comment string `json:"comment"`
	AnimeID int    `json:"AnimeId"`
}
