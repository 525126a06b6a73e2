package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/mugiwarahub/mugiwara/internal/config"
	"github.com/mugiwarahub/mugiwara/internal/database"
	"github.com/mugiwarahub/mugiwara/internal/episodes"
	"github.com/mugiwarahub/mugiwara/internal/providers"
	"github.com/mugiwarahub/mugiwara/pkg/types"
)

// Resolved is the outcome of looking up an episode's streams
type Resolved struct {
	Provider  string
	Sources   *types.EpisodeSources
	Selector  *Selector
	Referer   string
	Subtitles []types.Subtitle
}

// Resolver finds the first provider in registry order that has sources for an episode
type Resolver struct {
	registry         *providers.Registry
	db               *gorm.DB
	audioPreference  string
	preferredQuality string
	logger           *slog.Logger
}

// NewResolver creates a resolver. db may be nil, in which case per-anime
// audio preferences are neither read nor saved.
func NewResolver(registry *providers.Registry, db *gorm.DB, cfg *config.Config, logger *slog.Logger) *Resolver {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = providers.Default()
	}

	return &Resolver{
		registry:         registry,
		db:               db,
		audioPreference:  cfg.Providers.AudioPreference,
		preferredQuality: cfg.Providers.PreferredQuality,
		logger:           logger,
	}
}

// Resolve tries each provider in order. An answer counts only when it carries
// at least one source.
func (r *Resolver) Resolve(ctx context.Context, w episodes.WatchID) (*Resolved, error) {
	ordered := r.registry.Ordered()
	if len(ordered) == 0 {
		return nil, fmt.Errorf("%w: no providers enabled", types.ErrLoadFailed)
	}

	var lastErr error
	for _, provider := range ordered {
		name := provider.Name()
		episodeID := w.EpisodeID(name)
		if episodeID == "" {
			r.logger.Debug("provider has no id for episode", "provider", name, "watch_id", w.String())
			lastErr = nil
			continue
		}

		res, err := provider.Sources(ctx, episodeID)
		if err != nil {
			r.logger.Error("error fetching sources", "provider", name, "episode_id", episodeID, "error", err)
			lastErr = err
			continue
		}
		if res == nil || len(res.Sources) == 0 {
			r.logger.Warn("provider returned no sources", "provider", name, "episode_id", episodeID)
			lastErr = nil
			continue
		}

		selector, err := NewSelector(res.Sources)
		if err != nil {
			return nil, err
		}
		r.applyPreferences(selector, w.AnimeID)

		return &Resolved{
			Provider:  name,
			Sources:   res,
			Selector:  selector,
			Referer:   res.Headers.Referer,
			Subtitles: res.Subtitles,
		}, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrLoadFailed, lastErr)
	}
	return nil, types.ErrNoSources
}

// applyPreferences moves the selector to the saved per-anime audio and
// quality, falling back to the configured defaults
func (r *Resolver) applyPreferences(s *Selector, animeID int) {
	audioPref := r.audioPreference
	quality := r.preferredQuality

	if r.db != nil {
		pref, err := database.GetAudioPreference(r.db, animeID)
		if err != nil {
			r.logger.Warn("failed to read audio preference", "anime_id", animeID, "error", err)
		} else if pref != nil {
			audioPref = pref.Preference
			if pref.Quality != "" {
				quality = pref.Quality
			}
		}
	}

	if audioPref == types.AudioDub {
		s.SetAudio(types.AudioDub)
	}
	if quality != "" {
		s.ChangeQuality(quality)
	}
}

// Remember stores the selector's audio and quality for the anime
func (r *Resolver) Remember(animeID int, s *Selector) error {
	if r.db == nil || s == nil {
		return nil
	}
	audioPref := types.AudioSub
	if s.IsDub() {
		audioPref = types.AudioDub
	}
	if err := database.SaveAudioPreference(r.db, animeID, audioPref, s.Quality()); err != nil {
		return fmt.Errorf("failed to save audio preference: %w", err)
	}
	return nil
}

// Forget drops the stored preference for the anime
func (r *Resolver) Forget(animeID int) error {
	if r.db == nil {
		return nil
	}
	if err := database.ClearAudioPreference(r.db, animeID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}
