package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mugiwarahub/mugiwara/internal/audio"
	"github.com/mugiwarahub/mugiwara/internal/backend"
	"github.com/mugiwarahub/mugiwara/internal/database"
	"github.com/mugiwarahub/mugiwara/internal/episodes"
	"github.com/mugiwarahub/mugiwara/internal/history"
	"github.com/mugiwarahub/mugiwara/internal/player"
	"github.com/mugiwarahub/mugiwara/internal/providers"
	"github.com/mugiwarahub/mugiwara/pkg/types"
)

// EpisodeLoader returns the stitched episode list of an anime
type EpisodeLoader interface {
	Load(ctx context.Context, animeID int) ([]episodes.Entry, error)
}

// ContinueWatching is the part of the backend that tracks started anime
type ContinueWatching interface {
	AddContinueWatching(ctx context.Context, item backend.ContinueItem) error
	DeleteContinueWatching(ctx context.Context, animeID int) error
}

// StreamURLBuilder turns a source into a URL a player can open
type StreamURLBuilder interface {
	StreamURL(source types.Source, referer string) string
}

// RegistryEpisodes loads episodes from the pahe and zoro providers of a registry.
// A provider that is not registered contributes an empty list.
type RegistryEpisodes struct {
	Registry *providers.Registry
	Logger   *slog.Logger
}

func (l RegistryEpisodes) Load(ctx context.Context, animeID int) ([]episodes.Entry, error) {
	return episodes.Load(ctx, l.lister(types.ProviderPahe), l.lister(types.ProviderZoro), animeID, l.Logger)
}

func (l RegistryEpisodes) lister(name string) episodes.Lister {
	p, err := l.Registry.Get(name)
	if err != nil {
		return nil
	}
	return p
}

// Deps wires a Watcher
type Deps struct {
	Resolver *Resolver
	Episodes EpisodeLoader
	Backend  ContinueWatching
	History  *history.Service
	Details  *history.Details
	Auth     history.Authenticator
	Streams  StreamURLBuilder
	Logger   *slog.Logger
}

// Watcher starts watch sessions
type Watcher struct {
	deps         Deps
	pollInterval time.Duration
}

func NewWatcher(deps Deps) *Watcher {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Watcher{deps: deps, pollInterval: time.Second}
}

// Session is one episode being watched
type Session struct {
	ID       episodes.WatchID
	Title    string
	Resolved *Resolved
	Entries  []episodes.Entry

	watcher *Watcher
}

// Start resolves the episode's sources, loads the episode list and syncs
// continue watching. Failing to load episodes or to sync is not fatal, but
// without a list there is no telling whether this is the final episode, so
// the sync is skipped.
func (w *Watcher) Start(ctx context.Context, id episodes.WatchID) (*Session, error) {
	resolved, err := w.deps.Resolver.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	var entries []episodes.Entry
	listed := false
	if w.deps.Episodes != nil {
		entries, err = w.deps.Episodes.Load(ctx, id.AnimeID)
		if err != nil {
			w.deps.Logger.Warn("episode list unavailable", "anime_id", id.AnimeID, "error", err)
		} else {
			listed = true
		}
	}

	s := &Session{
		ID:       id,
		Title:    id.Title(),
		Resolved: resolved,
		Entries:  entries,
		watcher:  w,
	}

	if listed {
		w.syncContinueWatching(ctx, s)
	}
	return s, nil
}

// syncContinueWatching mirrors the current episode to the backend. It only
// runs for logged in users who opened the anime's details before.
func (w *Watcher) syncContinueWatching(ctx context.Context, s *Session) {
	if w.deps.Auth == nil || !w.deps.Auth.LoggedIn() || w.deps.Details == nil {
		return
	}

	saved, err := w.deps.Details.GetDetails(s.ID.AnimeID)
	if err != nil {
		w.deps.Logger.Error("failed to read saved anime details", "anime_id", s.ID.AnimeID, "error", err)
		return
	}
	if saved == nil {
		return
	}

	if s.IsLast() {
		if w.deps.Backend != nil {
			if err := w.deps.Backend.DeleteContinueWatching(ctx, saved.AnimeID); err != nil {
				w.deps.Logger.Error("error deleting continue watching", "anime_id", saved.AnimeID, "error", err)
			}
		}
		if w.deps.History != nil {
			if err := w.deps.History.MarkCompleted(saved.AnimeID); err != nil {
				w.deps.Logger.Error("failed to mark anime completed", "anime_id", saved.AnimeID, "error", err)
			}
		}
		if err := w.deps.Resolver.Forget(saved.AnimeID); err != nil {
			w.deps.Logger.Warn("failed to clear audio preference", "anime_id", saved.AnimeID, "error", err)
		}
		return
	}

	if w.deps.Backend != nil {
		err := w.deps.Backend.AddContinueWatching(ctx, backend.ContinueItem{
			AnimeID:   backend.FlexInt(saved.AnimeID),
			EpisodeID: s.ID.String(),
			Title:     saved.Title,
			Image:     saved.Image,
		})
		if err != nil {
			w.deps.Logger.Error("error creating continue watching", "anime_id", saved.AnimeID, "error", err)
		}
	}

	if w.deps.History != nil {
		err := w.deps.History.AddOrUpdate(database.History{
			AnimeID:      saved.AnimeID,
			AnimeTitle:   saved.Title,
			Image:        saved.Image,
			Episode:      s.ID.Episode,
			WatchID:      s.ID.String(),
			ProviderName: s.Resolved.Provider,
		})
		if err != nil {
			w.deps.Logger.Error("failed to update local history", "anime_id", saved.AnimeID, "error", err)
		}
	}
}

// IsLast reports whether this is the final episode of the list
func (s *Session) IsLast() bool {
	return episodes.IsLast(s.Entries, s.ID.Episode)
}

// Next returns the WatchID of the following episode
func (s *Session) Next() (episodes.WatchID, bool) {
	return episodes.Next(s.Entries, s.ID)
}

// Previous returns the WatchID of the preceding episode
func (s *Session) Previous() (episodes.WatchID, bool) {
	return episodes.Previous(s.Entries, s.ID)
}

// Selector returns the source selector of the episode
func (s *Session) Selector() *Selector {
	return s.Resolved.Selector
}

// StreamURL is the proxied URL of the selected source
func (s *Session) StreamURL() string {
	source := s.Resolved.Selector.Current()
	if s.watcher.deps.Streams == nil {
		return source.URL
	}
	return s.watcher.deps.Streams.StreamURL(source, s.Resolved.Referer)
}

// PlayOptions describes the selected source for a player
func (s *Session) PlayOptions() player.PlayOptions {
	opts := player.PlayOptions{
		Title:   s.Title,
		Episode: s.ID.Episode,
		Referer: s.Resolved.Referer,
	}
	if s.Resolved.Selector != nil {
		opts.IsM3U8 = s.Resolved.Selector.Current().IsM3U8
	}
	if sub := audio.PreferredSubtitle(s.Resolved.Subtitles); sub != nil {
		opts.SubtitleURL = sub.URL
		opts.SubtitleLang = sub.Lang
	}
	for _, sub := range s.Resolved.Subtitles {
		opts.Subtitles = append(opts.Subtitles, player.SubtitleTrack{URL: sub.URL, Lang: sub.Lang})
	}
	return opts
}

// Play hands the selected source to p and records progress until playback
// ends. Players that cannot report progress return once launched.
func (s *Session) Play(ctx context.Context, p player.Player) error {
	if err := p.Play(ctx, s.StreamURL(), s.PlayOptions()); err != nil {
		return fmt.Errorf("failed to start player: %w", err)
	}

	if err := s.watcher.deps.Resolver.Remember(s.ID.AnimeID, s.Resolved.Selector); err != nil {
		s.watcher.deps.Logger.Warn("failed to remember audio choice", "error", err)
	}

	last, err := s.monitor(ctx, p)
	if errors.Is(err, player.ErrProgressUnsupported) {
		return nil
	}
	if last != nil {
		s.recordProgress(last)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// monitor polls the player until it reports EOF or goes away and returns the
// last progress it saw
func (s *Session) monitor(ctx context.Context, p player.Player) (*player.PlaybackProgress, error) {
	ticker := time.NewTicker(s.watcher.pollInterval)
	defer ticker.Stop()

	var last *player.PlaybackProgress
	for {
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-ticker.C:
		}

		pollCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		progress, err := p.GetProgress(pollCtx)
		cancel()

		switch {
		case errors.Is(err, player.ErrProgressUnsupported):
			return nil, err
		case errors.Is(err, context.DeadlineExceeded):
			continue
		case err != nil && playerGone(err):
			return last, nil
		case err != nil:
			s.watcher.deps.Logger.Debug("progress poll failed", "error", err)
			continue
		}

		last = progress
		if progress.EOF {
			return last, nil
		}
	}
}

// playerGone reports IPC errors meaning the player has exited
func playerGone(err error) bool {
	if errors.Is(err, player.ErrPlayerClosed) {
		return true
	}
	msg := err.Error()
	for _, pattern := range []string{"broken pipe", "connection refused", "no such file", "pipe has been ended", "file has been closed"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

func (s *Session) recordProgress(progress *player.PlaybackProgress) {
	if s.watcher.deps.History == nil || progress.Duration <= 0 {
		return
	}

	title := s.ID.AnimeName
	image := ""
	if s.watcher.deps.Details != nil {
		if saved, err := s.watcher.deps.Details.GetDetails(s.ID.AnimeID); err == nil && saved != nil {
			title, image = saved.Title, saved.Image
		}
	}

	err := s.watcher.deps.History.AddOrUpdate(database.History{
		AnimeID:         s.ID.AnimeID,
		AnimeTitle:      title,
		Image:           image,
		Episode:         s.ID.Episode,
		WatchID:         s.ID.String(),
		ProviderName:    s.Resolved.Provider,
		ProgressSeconds: int(progress.CurrentTime.Seconds()),
		TotalSeconds:    int(progress.Duration.Seconds()),
		ProgressPercent: progress.Percentage,
	})
	if err != nil {
		s.watcher.deps.Logger.Error("failed to save playback progress", "anime_id", s.ID.AnimeID, "error", err)
	}
}
