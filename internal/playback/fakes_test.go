package playback

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mugiwarahub/mugiwara/internal/backend"
	"github.com/mugiwarahub/mugiwara/internal/database"
	"github.com/mugiwarahub/mugiwara/internal/player"
	"github.com/mugiwarahub/mugiwara/internal/providers"
	"github.com/mugiwarahub/mugiwara/pkg/types"
)

type fakeProvider struct {
	name     string
	episodes []types.ProviderEpisode
	sources  map[string]*types.EpisodeSources
	err      error
	calls    []string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Episodes(ctx context.Context, anilistID int) ([]types.ProviderEpisode, error) {
	return f.episodes, nil
}

func (f *fakeProvider) Sources(ctx context.Context, episodeID string) (*types.EpisodeSources, error) {
	f.calls = append(f.calls, episodeID)
	if f.err != nil {
		return nil, f.err
	}
	return f.sources[episodeID], nil
}

func (f *fakeProvider) HealthCheck(ctx context.Context) error { return nil }

func newRegistry(t *testing.T, ps ...providers.Provider) *providers.Registry {
	t.Helper()
	r := providers.NewRegistry()
	for _, p := range ps {
		require.NoError(t, r.Register(p))
	}
	return r
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type fakeBackend struct {
	added   []backend.ContinueItem
	deleted []int
}

func (f *fakeBackend) AddContinueWatching(ctx context.Context, item backend.ContinueItem) error {
	f.added = append(f.added, item)
	return nil
}

func (f *fakeBackend) DeleteContinueWatching(ctx context.Context, animeID int) error {
	f.deleted = append(f.deleted, animeID)
	return nil
}

type loggedIn bool

func (l loggedIn) LoggedIn() bool { return bool(l) }

// fakePlayer replays a fixed list of progress answers
type fakePlayer struct {
	player.Callbacks

	mu       sync.Mutex
	url      string
	opts     player.PlayOptions
	progress []*player.PlaybackProgress
	final    error
	playErr  error
}

func (f *fakePlayer) Play(ctx context.Context, url string, opts player.PlayOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.url, f.opts = url, opts
	return f.playErr
}

func (f *fakePlayer) Stop(ctx context.Context) error { return nil }

func (f *fakePlayer) GetProgress(ctx context.Context) (*player.PlaybackProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.progress) == 0 {
		if f.final != nil {
			return nil, f.final
		}
		return nil, errors.New("write unix: broken pipe")
	}
	p := f.progress[0]
	f.progress = f.progress[1:]
	return p, nil
}

func (f *fakePlayer) IsPlaying() bool { return true }

func (f *fakePlayer) State() player.PlaybackState { return player.StatePlaying }

type proxyURLs struct{}

func (proxyURLs) StreamURL(source types.Source, referer string) string {
	return "proxy:" + source.URL + "|" + referer
}
