package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/mugiwarahub/mugiwara/internal/anilist"
	"github.com/mugiwarahub/mugiwara/internal/backend"
	"github.com/mugiwarahub/mugiwara/internal/config"
	"github.com/mugiwarahub/mugiwara/internal/episodes"
	"github.com/mugiwarahub/mugiwara/internal/history"
	"github.com/mugiwarahub/mugiwara/internal/playback"
	"github.com/mugiwarahub/mugiwara/internal/providers"
	"github.com/mugiwarahub/mugiwara/internal/providers/api"
	"github.com/mugiwarahub/mugiwara/internal/registry"
	"github.com/mugiwarahub/mugiwara/internal/session"
	"github.com/mugiwarahub/mugiwara/internal/tui"
)

// app holds the services shared by every command
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	configFile string

	sessions  *session.Store
	catalog   *anilist.Client
	proxy     *api.Client
	backend   *backend.Client
	registry  *registry.Registry
	providers *providers.Registry
	history   *history.Service
	details   *history.Details
	episodes  playback.EpisodeLoader
	resolver  *playback.Resolver
	watcher   *playback.Watcher
}

func newApp(cfg *config.Config, db *gorm.DB, logger *slog.Logger) *app {
	a := &app{
		cfg:       cfg,
		logger:    logger,
		sessions:  session.NewStore(db, cfg.Session.TokenLifetime),
		catalog:   anilist.NewClient(cfg, logger),
		proxy:     api.NewClient(cfg, logger),
		registry:  registry.New(),
		providers: providers.NewRegistry(),
		history:   history.NewService(db),
	}
	a.backend = backend.NewClient(cfg, a.sessions, logger)
	a.details = history.NewDetails(db, a.sessions)

	a.loadProviders(cfg)

	a.episodes = playback.RegistryEpisodes{Registry: a.providers, Logger: logger}
	a.resolver = playback.NewResolver(a.providers, db, cfg, logger)
	a.watcher = playback.NewWatcher(playback.Deps{
		Resolver: a.resolver,
		Episodes: a.episodes,
		Backend:  a.backend,
		History:  a.history,
		Details:  a.details,
		Auth:     a.sessions,
		Streams:  a.proxy,
		Logger:   logger,
	})
	return a
}

// loadProviders rebuilds the enabled providers and swaps them into the live registry
func (a *app) loadProviders(cfg *config.Config) {
	a.registry.Load(cfg, a.proxy)
	for _, err := range a.registry.Apply(a.providers) {
		a.logger.Warn("failed to register provider", "error", err)
	}
	a.logger.Debug("providers loaded", "providers", a.registry.List())
}

// watchConfig reloads the providers when the config file changes
func (a *app) watchConfig(v *viper.Viper) {
	a.configFile = v.ConfigFileUsed()
	if a.configFile == "" {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		a.logger.Info("config file changed", "name", e.Name)

		var next config.Config
		if err := v.Unmarshal(&next); err != nil {
			a.logger.Error("failed to reload config", "error", err)
			return
		}
		if err := next.Validate(); err != nil {
			a.logger.Error("ignoring invalid config", "error", err)
			return
		}

		a.loadProviders(&next)
		a.logger.Info("providers reloaded")
	})
	v.WatchConfig()
}

func (a *app) checkProviders(ctx context.Context) {
	a.logger.Info("running provider health checks")
	a.providers.CheckAllProviders(ctx)
	if err := a.proxy.HealthCheck(ctx); err != nil {
		a.logger.Warn("proxy unreachable", "error", err)
	}
	a.logger.Info("provider health checks complete")
}

// play starts a watch session for id and plays it on the configured player
func (a *app) play(ctx context.Context, id episodes.WatchID, opts watchOptions) (*playback.Session, error) {
	s, err := a.watcher.Start(ctx, id)
	if err != nil {
		return nil, err
	}

	sel := s.Selector()
	if opts.dub && !sel.SetAudio("dub") {
		a.logger.Warn("no dub available, keeping sub", "episode", id.String())
	}
	if opts.quality != "" && !sel.ChangeQuality(opts.quality) {
		a.logger.Warn("quality not available", "quality", opts.quality, "available", sel.AvailableQualities())
	}

	playerName := opts.player
	if playerName == "" {
		playerName = a.cfg.Player.Backend
	}
	p, err := playback.NewPlayer(a.cfg, playerName, a.logger)
	if err != nil {
		return s, err
	}

	if opts.before != nil {
		opts.before(s)
	}
	if err := s.Play(ctx, p); err != nil && !errors.Is(err, context.Canceled) {
		return s, err
	}
	return s, nil
}

// watchByNumber builds the WatchID of episode number ep of an anime
func (a *app) watchByNumber(ctx context.Context, animeID, ep int) (episodes.WatchID, error) {
	entries, err := a.episodes.Load(ctx, animeID)
	if err != nil {
		return episodes.WatchID{}, err
	}
	entry, err := episodes.Lookup(entries, ep)
	if err != nil {
		return episodes.WatchID{}, err
	}

	name := "Anime Episode"
	if info, err := a.proxy.Info(ctx, animeID); err == nil {
		name = info.Title.Preferred()
	} else {
		a.logger.Warn("anime info unavailable, using a generic title", "anime_id", animeID, "error", err)
	}
	return episodes.NewWatchID(entry, animeID, name), nil
}

func (a *app) tuiDeps() tui.Deps {
	return tui.Deps{
		Catalog:  a.catalog,
		Info:     a.proxy,
		Account:  a.backend,
		Episodes: a.episodes,
		History:  a.history,
		Details:  a.details,
		Auth:     a.sessions,
		Watch: func(ctx context.Context, id episodes.WatchID) error {
			_, err := a.play(ctx, id, watchOptions{})
			return err
		},
		Config: a.cfg,
		Logger: a.logger,
	}
}
