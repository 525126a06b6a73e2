package registry

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mugiwarahub/mugiwara/internal/config"
	"github.com/mugiwarahub/mugiwara/internal/providers"
	"github.com/mugiwarahub/mugiwara/pkg/types"
)

type nopProxy struct{}

func (nopProxy) Episodes(ctx context.Context, anilistID int, provider string) ([]types.ProviderEpisode, error) {
	return nil, nil
}
func (nopProxy) WatchPahe(ctx context.Context, paheID string) (*types.EpisodeSources, error) {
	return nil, nil
}
func (nopProxy) WatchZoro(ctx context.Context, zoroID string) (*types.EpisodeSources, error) {
	return nil, nil
}
func (nopProxy) HealthCheck(ctx context.Context) error { return nil }

func TestRegistry_Load(t *testing.T) {
	t.Run("defaults load both providers", func(t *testing.T) {
		reg := New()
		reg.Load(config.Default(), nopProxy{})

		assert.Equal(t, []string{"pahe", "zoro"}, reg.List())
		p, err := reg.Get("zoro")
		require.NoError(t, err)
		assert.Equal(t, "zoro", p.Name())
	})

	t.Run("disabled providers are skipped", func(t *testing.T) {
		cfg := config.Default()
		cfg.Providers.Pahe.Enabled = false

		reg := New()
		reg.Load(cfg, nopProxy{})

		assert.Equal(t, []string{"zoro"}, reg.List())
		_, err := reg.Get("pahe")
		assert.Error(t, err)
	})

	t.Run("apply honours configured order", func(t *testing.T) {
		cfg := config.Default()
		cfg.Providers.Order = []string{"zoro", "pahe"}

		reg := New()
		reg.Load(cfg, nopProxy{})

		target := providers.NewRegistry()
		_ = target.Register(&stale{})
		errs := reg.Apply(target)

		assert.Empty(t, errs)
		assert.Equal(t, []string{"zoro", "pahe"}, target.List())
	})
}

func TestRegistry_ApplyNeverEmpty(t *testing.T) {
	reg := New()
	reg.Load(config.Default(), nopProxy{})

	target := providers.NewRegistry()
	require.Empty(t, reg.Apply(target))

	var empty atomic.Int32
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Go(func() {
		for {
			select {
			case <-stop:
				return
			default:
				if len(target.Ordered()) == 0 {
					empty.Add(1)
				}
			}
		}
	})

	for range 500 {
		require.Empty(t, reg.Apply(target))
	}
	close(stop)
	wg.Wait()

	assert.Zero(t, empty.Load(), "resolvers saw an empty registry during reload")
	assert.Equal(t, []string{"pahe", "zoro"}, target.List())
}

type stale struct{}

func (stale) Name() string { return "stale" }
func (stale) Episodes(ctx context.Context, anilistID int) ([]types.ProviderEpisode, error) {
	return nil, nil
}
func (stale) Sources(ctx context.Context, episodeID string) (*types.EpisodeSources, error) {
	return nil, nil
}
func (stale) HealthCheck(ctx context.Context) error { return nil }
