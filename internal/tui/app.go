// Package tui is the interactive terminal client.
package tui

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mugiwarahub/mugiwara/internal/anilist"
	"github.com/mugiwarahub/mugiwara/internal/backend"
	"github.com/mugiwarahub/mugiwara/internal/config"
	"github.com/mugiwarahub/mugiwara/internal/episodes"
	"github.com/mugiwarahub/mugiwara/internal/history"
	"github.com/mugiwarahub/mugiwara/internal/playback"
	"github.com/mugiwarahub/mugiwara/internal/providers/api"
)

// Catalog is the metadata service behind home, search and genre browse
type Catalog interface {
	Featured(ctx context.Context) ([]anilist.Card, error)
	Airing(ctx context.Context) ([]anilist.Card, error)
	Recommended(ctx context.Context) ([]anilist.Card, error)
	Movies(ctx context.Context) ([]anilist.Card, error)
	Search(ctx context.Context, query string, page int) (*anilist.Page, error)
	ByGenre(ctx context.Context, genre string, page int) (*anilist.Page, error)
}

// InfoSource loads the details page of an anime
type InfoSource interface {
	Details(ctx context.Context, anilistID int) (*api.AnimeDetails, error)
}

// Account is the part of the backend that needs or shows the user
type Account interface {
	Me(ctx context.Context) (*backend.Profile, error)
	HomeWatchlist(ctx context.Context) []backend.WatchlistItem
	ContinueWatching(ctx context.Context) ([]backend.ContinueItem, error)
	InWatchlist(ctx context.Context, animeID int) (bool, error)
	ToggleWatchlist(ctx context.Context, item backend.WatchlistItem) (bool, error)
	Comments(ctx context.Context, animeID int) ([]backend.Comment, error)
	AddComment(ctx context.Context, animeID int, text string) ([]backend.Comment, error)
}

// Deps are the services the TUI talks to
type Deps struct {
	Catalog  Catalog
	Info     InfoSource
	Account  Account
	Episodes playback.EpisodeLoader
	History  *history.Service
	Details  *history.Details
	Auth     history.Authenticator
	// Watch resolves and plays an episode, returning when playback ends
	Watch  func(ctx context.Context, id episodes.WatchID) error
	Config *config.Config
	Logger *slog.Logger
}

// Start runs the TUI until the user quits
func Start(ctx context.Context, deps Deps) error {
	m := New(ctx, deps)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
