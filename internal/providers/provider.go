package providers

import (
	"context"
	"time"

	"github.com/mugiwarahub/mugiwara/pkg/types"
)

// Provider is an episode source reachable through the proxy
type Provider interface {
	// Name returns the provider key used in config and episode routing
	Name() string

	// Episodes lists the episodes the provider has for an AniList id
	Episodes(ctx context.Context, anilistID int) ([]types.ProviderEpisode, error)

	// Sources returns the playable streams of one episode
	Sources(ctx context.Context, episodeID string) (*types.EpisodeSources, error)

	HealthCheck(ctx context.Context) error
}

// HealthCheckResult holds detailed health check information
type HealthCheckResult struct {
	Duration  time.Duration
	Error     string
	CheckedAt time.Time
}

// ProviderStatus holds the health status of a provider
type ProviderStatus struct {
	ProviderName string
	Healthy      bool
	Status       string // e.g., "Online", "Offline: ...", "Checking..."
	LastCheck    time.Time
	LastResult   *HealthCheckResult
}
