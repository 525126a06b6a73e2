package zoro

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mugiwarahub/mugiwara/pkg/types"
)

type fakeProxy struct {
	provider string
	res      *types.EpisodeSources
}

func (f *fakeProxy) Episodes(ctx context.Context, anilistID int, provider string) ([]types.ProviderEpisode, error) {
	f.provider = provider
	return []types.ProviderEpisode{{ID: "op?ep=1", Number: 1, Title: "Romance Dawn"}}, nil
}

func (f *fakeProxy) WatchZoro(ctx context.Context, zoroID string) (*types.EpisodeSources, error) {
	return f.res, nil
}

func (f *fakeProxy) HealthCheck(ctx context.Context) error { return nil }

func TestZoro_Episodes(t *testing.T) {
	proxy := &fakeProxy{}
	eps, err := New(proxy).Episodes(context.Background(), 21)
	require.NoError(t, err)
	assert.Equal(t, types.ProviderZoro, proxy.provider)
	assert.Equal(t, "Romance Dawn", eps[0].Title)
}

func TestZoro_Sources(t *testing.T) {
	proxy := &fakeProxy{res: &types.EpisodeSources{
		Sources: []types.Source{
			{URL: "sub.m3u8", IsM3U8: true, Type: "hls"},
			{URL: "dub.m3u8", IsM3U8: true, Type: "dub"},
		},
		Subtitles: []types.Subtitle{{URL: "en.vtt", Lang: "English"}},
	}}

	res, err := New(proxy).Sources(context.Background(), "op?ep=1")
	require.NoError(t, err)
	require.Len(t, res.Sources, 2)

	assert.Equal(t, AutoQuality, res.Sources[0].Quality)
	assert.False(t, res.Sources[0].IsDub)
	assert.True(t, res.Sources[1].IsDub)
	assert.Len(t, res.Subtitles, 1)

	// the proxy's answer is not mutated
	assert.Empty(t, proxy.res.Sources[0].Quality)

	_, err = New(proxy).Sources(context.Background(), "")
	assert.Error(t, err)
}

func TestNormalize_KeepsExistingQuality(t *testing.T) {
	out := Normalize([]types.Source{{Quality: "1080p"}})
	assert.Equal(t, "1080p", out[0].Quality)
}
