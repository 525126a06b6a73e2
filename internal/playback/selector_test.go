package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mugiwarahub/mugiwara/pkg/types"
)

var selectorSources = []types.Source{
	{URL: "360.m3u8", Quality: "360p"},
	{URL: "720.m3u8", Quality: "720p"},
	{URL: "1080.m3u8", Quality: "1080p"},
	{URL: "720-dub.m3u8", Quality: "720p", IsDub: true},
	{URL: "360-dub.m3u8", Quality: "360p", IsDub: true},
}

func TestPreferredSource(t *testing.T) {
	tests := []struct {
		name    string
		sources []types.Source
		want    string
	}{
		{name: "first high quality sub", sources: selectorSources, want: "720.m3u8"},
		{
			name: "falls back to any sub",
			sources: []types.Source{
				{URL: "1080-dub.m3u8", Quality: "1080p", IsDub: true},
				{URL: "360.m3u8", Quality: "360p"},
			},
			want: "360.m3u8",
		},
		{
			name:    "dub only",
			sources: []types.Source{{URL: "dub.m3u8", Quality: "1080p", IsDub: true}},
			want:    "dub.m3u8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PreferredSource(tt.sources)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.URL)
		})
	}

	_, err := PreferredSource(nil)
	assert.ErrorIs(t, err, types.ErrNoSources)
}

func TestSelector_ChangeQuality(t *testing.T) {
	s, err := NewSelector(selectorSources)
	require.NoError(t, err)
	assert.Equal(t, "720p", s.Quality())

	assert.True(t, s.ChangeQuality("1080p"))
	assert.Equal(t, "1080.m3u8", s.Current().URL)

	assert.False(t, s.ChangeQuality("480p"))
	assert.Equal(t, "1080p", s.Quality(), "unknown quality keeps the selection")
}

func TestSelector_ToggleDub(t *testing.T) {
	s, err := NewSelector(selectorSources)
	require.NoError(t, err)

	require.True(t, s.ToggleDub())
	assert.True(t, s.IsDub())
	assert.Equal(t, "720-dub.m3u8", s.Current().URL, "same quality is kept")

	require.True(t, s.ToggleDub())
	require.True(t, s.ChangeQuality("1080p"))
	require.True(t, s.ToggleDub())
	assert.Equal(t, "720-dub.m3u8", s.Current().URL, "first dub when quality is missing")
	assert.Equal(t, "720p", s.Quality())

	subOnly, err := NewSelector([]types.Source{{URL: "a", Quality: "auto"}})
	require.NoError(t, err)
	assert.False(t, subOnly.ToggleDub())
	assert.False(t, subOnly.IsDub())
	assert.False(t, subOnly.HasDub())
}

func TestSelector_AvailableQualities(t *testing.T) {
	s, err := NewSelector(selectorSources)
	require.NoError(t, err)
	assert.Equal(t, []string{"360p", "720p", "1080p"}, s.AvailableQualities())

	require.True(t, s.SetAudio(types.AudioDub))
	assert.Equal(t, []string{"720p", "360p"}, s.AvailableQualities())
	assert.True(t, s.SetAudio(types.AudioDub))
}
