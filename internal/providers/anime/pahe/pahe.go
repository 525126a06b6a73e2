package pahe

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mugiwarahub/mugiwara/pkg/types"
)

// Proxy is the part of the proxy client Pahe needs
type Proxy interface {
	Episodes(ctx context.Context, anilistID int, provider string) ([]types.ProviderEpisode, error)
	WatchPahe(ctx context.Context, paheID string) (*types.EpisodeSources, error)
	HealthCheck(ctx context.Context) error
}

// Pahe serves graded sub/dub sources. Episode ids look like "session/episode".
type Pahe struct {
	proxy        Proxy
	episodeCache sync.Map
}

func New(proxy Proxy) *Pahe {
	return &Pahe{proxy: proxy}
}

func (p *Pahe) Name() string {
	return types.ProviderPahe
}

// Episodes lists the Pahe episodes of an anime
func (p *Pahe) Episodes(ctx context.Context, anilistID int) ([]types.ProviderEpisode, error) {
	if cached, ok := p.episodeCache.Load(anilistID); ok {
		return cached.([]types.ProviderEpisode), nil
	}

	episodes, err := p.proxy.Episodes(ctx, anilistID, types.ProviderPahe)
	if err != nil {
		return nil, err
	}

	p.episodeCache.Store(anilistID, episodes)
	return episodes, nil
}

// Sources fetches the sources of a "session/episode" id
func (p *Pahe) Sources(ctx context.Context, episodeID string) (*types.EpisodeSources, error) {
	if !ValidID(episodeID) {
		return nil, fmt.Errorf("invalid pahe episode id %q", episodeID)
	}
	return p.proxy.WatchPahe(ctx, episodeID)
}

func (p *Pahe) HealthCheck(ctx context.Context) error {
	return p.proxy.HealthCheck(ctx)
}

// SplitID splits a Pahe episode id into its two path halves
func SplitID(id string) (string, string) {
	first, second, _ := strings.Cut(id, "/")
	return first, second
}

// JoinID rebuilds an episode id from its halves, "" when either half is missing
func JoinID(first, second string) string {
	if first == "" || second == "" {
		return ""
	}
	return first + "/" + second
}

// ValidID reports whether id has both halves
func ValidID(id string) bool {
	first, second := SplitID(id)
	return JoinID(first, second) != ""
}
