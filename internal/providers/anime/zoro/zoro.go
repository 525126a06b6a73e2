package zoro

import (
	"context"
	"fmt"
	"sync"

	"github.com/mugiwarahub/mugiwara/internal/audio"
	"github.com/mugiwarahub/mugiwara/pkg/types"
)

// AutoQuality labels adaptive streams that carry no resolution
const AutoQuality = "auto"

// Proxy is the part of the proxy client Zoro needs
type Proxy interface {
	Episodes(ctx context.Context, anilistID int, provider string) ([]types.ProviderEpisode, error)
	WatchZoro(ctx context.Context, zoroID string) (*types.EpisodeSources, error)
	HealthCheck(ctx context.Context) error
}

// Zoro serves adaptive HLS sources with subtitle tracks
type Zoro struct {
	proxy        Proxy
	episodeCache sync.Map
}

func New(proxy Proxy) *Zoro {
	return &Zoro{proxy: proxy}
}

func (z *Zoro) Name() string {
	return types.ProviderZoro
}

// Episodes lists the Zoro episodes of an anime
func (z *Zoro) Episodes(ctx context.Context, anilistID int) ([]types.ProviderEpisode, error) {
	if cached, ok := z.episodeCache.Load(anilistID); ok {
		return cached.([]types.ProviderEpisode), nil
	}

	episodes, err := z.proxy.Episodes(ctx, anilistID, types.ProviderZoro)
	if err != nil {
		return nil, err
	}

	z.episodeCache.Store(anilistID, episodes)
	return episodes, nil
}

// Sources fetches and normalizes the sources of an episode
func (z *Zoro) Sources(ctx context.Context, episodeID string) (*types.EpisodeSources, error) {
	if episodeID == "" {
		return nil, fmt.Errorf("empty zoro episode id")
	}

	res, err := z.proxy.WatchZoro(ctx, episodeID)
	if err != nil {
		return nil, err
	}

	normalized := *res
	normalized.Sources = Normalize(res.Sources)
	return &normalized, nil
}

func (z *Zoro) HealthCheck(ctx context.Context) error {
	return z.proxy.HealthCheck(ctx)
}

// Normalize gives Zoro sources a quality so they fit quality and dub selection.
// The type field only marks dubbed streams, everything else counts as sub.
func Normalize(sources []types.Source) []types.Source {
	out := make([]types.Source, len(sources))
	for i, s := range sources {
		if s.Quality == "" {
			s.Quality = AutoQuality
		}
		if audio.DetectAudioType(s.Type) == types.AudioDub {
			s.IsDub = true
		}
		out[i] = s
	}
	return out
}
