package playback

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/mugiwarahub/mugiwara/internal/config"
	"github.com/mugiwarahub/mugiwara/internal/player"
	"github.com/mugiwarahub/mugiwara/internal/player/mpv"
	"github.com/mugiwarahub/mugiwara/internal/player/printer"
	"github.com/mugiwarahub/mugiwara/internal/player/web"
)

// NewPlayer builds the player named by backend, falling back to the
// configured one when backend is empty. When mpv is missing the browser
// player is used instead.
func NewPlayer(cfg *config.Config, backend string, logger *slog.Logger) (player.Player, error) {
	if backend == "" {
		backend = cfg.Player.Backend
	}
	if logger == nil {
		logger = slog.Default()
	}

	switch backend {
	case "mpv", "":
		p, err := mpv.New(cfg, logger)
		if err != nil {
			logger.Warn("mpv unavailable, using browser player", "error", err)
			return newWebPlayer(logger), nil
		}
		return p, nil
	case "browser":
		return newWebPlayer(logger), nil
	case "print":
		return printer.New(nil), nil
	default:
		return nil, fmt.Errorf("unknown player backend %q", backend)
	}
}

func newWebPlayer(logger *slog.Logger) *web.Player {
	return web.New(filepath.Join(config.GetCacheDir(), "player"), logger)
}
