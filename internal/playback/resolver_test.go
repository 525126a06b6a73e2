package playback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mugiwarahub/mugiwara/internal/config"
	"github.com/mugiwarahub/mugiwara/internal/database"
	"github.com/mugiwarahub/mugiwara/internal/episodes"
	"github.com/mugiwarahub/mugiwara/pkg/types"
)

var testWatch = episodes.WatchID{
	PaheID0:   "aaa",
	PaheID1:   "bbb",
	ZoroID:    "frieren-18542?ep=107257",
	Episode:   3,
	AnimeID:   154587,
	AnimeName: "Frieren",
}

func paheSources() *types.EpisodeSources {
	return &types.EpisodeSources{
		Headers: types.SourceHeaders{Referer: "https://kwik.si/"},
		Sources: []types.Source{
			{URL: "https://cdn/360.m3u8", Quality: "360p"},
			{URL: "https://cdn/1080.m3u8", Quality: "1080p"},
			{URL: "https://cdn/1080-dub.m3u8", Quality: "1080p", IsDub: true},
			{URL: "https://cdn/720-dub.m3u8", Quality: "720p", IsDub: true},
		},
	}
}

func TestResolver_Resolve(t *testing.T) {
	pahe := &fakeProvider{name: types.ProviderPahe, sources: map[string]*types.EpisodeSources{"aaa/bbb": paheSources()}}
	zoro := &fakeProvider{name: types.ProviderZoro}

	r := NewResolver(newRegistry(t, pahe, zoro), nil, config.Default(), nil)
	res, err := r.Resolve(context.Background(), testWatch)
	require.NoError(t, err)

	assert.Equal(t, types.ProviderPahe, res.Provider)
	assert.Equal(t, "https://kwik.si/", res.Referer)
	assert.Equal(t, "https://cdn/1080.m3u8", res.Selector.Current().URL)
	assert.Equal(t, []string{"aaa/bbb"}, pahe.calls)
	assert.Empty(t, zoro.calls)
}

func TestResolver_FallsBack(t *testing.T) {
	zoroRes := &types.EpisodeSources{
		Sources:   []types.Source{{URL: "https://zoro/master.m3u8", Type: "sub"}},
		Subtitles: []types.Subtitle{{URL: "https://zoro/en.vtt", Lang: "English"}},
	}

	tests := []struct {
		name  string
		pahe  *fakeProvider
		watch episodes.WatchID
	}{
		{
			name:  "pahe errors",
			pahe:  &fakeProvider{name: types.ProviderPahe, err: errors.New("boom")},
			watch: testWatch,
		},
		{
			name:  "pahe empty",
			pahe:  &fakeProvider{name: types.ProviderPahe, sources: map[string]*types.EpisodeSources{"aaa/bbb": {}}},
			watch: testWatch,
		},
		{
			name: "no pahe id",
			pahe: &fakeProvider{name: types.ProviderPahe},
			watch: episodes.WatchID{
				ZoroID: testWatch.ZoroID, Episode: 3, AnimeID: 154587, AnimeName: "Frieren",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zoro := &fakeProvider{name: types.ProviderZoro, sources: map[string]*types.EpisodeSources{testWatch.ZoroID: zoroRes}}
			r := NewResolver(newRegistry(t, tt.pahe, zoro), nil, config.Default(), nil)

			res, err := r.Resolve(context.Background(), tt.watch)
			require.NoError(t, err)
			assert.Equal(t, types.ProviderZoro, res.Provider)
			assert.Equal(t, zoroRes.Subtitles, res.Subtitles)
		})
	}
}

func TestResolver_Failures(t *testing.T) {
	t.Run("last provider errors", func(t *testing.T) {
		pahe := &fakeProvider{name: types.ProviderPahe, sources: map[string]*types.EpisodeSources{}}
		zoro := &fakeProvider{name: types.ProviderZoro, err: errors.New("upstream down")}
		r := NewResolver(newRegistry(t, pahe, zoro), nil, config.Default(), nil)

		_, err := r.Resolve(context.Background(), testWatch)
		assert.ErrorIs(t, err, types.ErrLoadFailed)
		assert.ErrorContains(t, err, "upstream down")
	})

	t.Run("nothing found", func(t *testing.T) {
		pahe := &fakeProvider{name: types.ProviderPahe, err: errors.New("boom")}
		zoro := &fakeProvider{name: types.ProviderZoro, sources: map[string]*types.EpisodeSources{}}
		r := NewResolver(newRegistry(t, pahe, zoro), nil, config.Default(), nil)

		_, err := r.Resolve(context.Background(), testWatch)
		assert.ErrorIs(t, err, types.ErrNoSources)
	})

	t.Run("no providers", func(t *testing.T) {
		r := NewResolver(newRegistry(t), nil, config.Default(), nil)
		_, err := r.Resolve(context.Background(), testWatch)
		assert.ErrorIs(t, err, types.ErrLoadFailed)
	})
}

func TestResolver_Preferences(t *testing.T) {
	db := openTestDB(t)
	pahe := &fakeProvider{name: types.ProviderPahe, sources: map[string]*types.EpisodeSources{"aaa/bbb": paheSources()}}
	r := NewResolver(newRegistry(t, pahe), db, config.Default(), nil)

	res, err := r.Resolve(context.Background(), testWatch)
	require.NoError(t, err)
	assert.False(t, res.Selector.IsDub())

	require.True(t, res.Selector.ToggleDub())
	require.True(t, res.Selector.ChangeQuality("720p"))
	require.NoError(t, r.Remember(testWatch.AnimeID, res.Selector))

	res, err = r.Resolve(context.Background(), testWatch)
	require.NoError(t, err)
	assert.True(t, res.Selector.IsDub())
	assert.Equal(t, "https://cdn/720-dub.m3u8", res.Selector.Current().URL)

	require.NoError(t, r.Forget(testWatch.AnimeID))
	pref, err := database.GetAudioPreference(db, testWatch.AnimeID)
	require.NoError(t, err)
	assert.Nil(t, pref)
}

func TestResolver_ConfiguredDub(t *testing.T) {
	cfg := config.Default()
	cfg.Providers.AudioPreference = types.AudioDub
	cfg.Providers.PreferredQuality = "720p"

	pahe := &fakeProvider{name: types.ProviderPahe, sources: map[string]*types.EpisodeSources{"aaa/bbb": paheSources()}}
	r := NewResolver(newRegistry(t, pahe), nil, cfg, nil)

	res, err := r.Resolve(context.Background(), testWatch)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/720-dub.m3u8", res.Selector.Current().URL)
}
