package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mugiwarahub/mugiwara/pkg/types"
)

func TestDetectAudioType(t *testing.T) {
	tests := map[string]string{
		"dub":            types.AudioDub,
		"HLS-DUB":        types.AudioDub,
		"English Audio":  types.AudioDub,
		"sub":            types.AudioSub,
		"Japanese":       types.AudioSub,
		"raw":            types.AudioSub,
		"hls":            "unknown",
		"":               "unknown",
	}

	for label, want := range tests {
		t.Run(label, func(t *testing.T) {
			assert.Equal(t, want, DetectAudioType(label))
		})
	}
}

func TestPreferredSubtitle(t *testing.T) {
	assert.Nil(t, PreferredSubtitle(nil))

	subs := []types.Subtitle{
		{URL: "fr.vtt", Lang: "French"},
		{URL: "en.vtt", Lang: "English"},
	}
	sub := PreferredSubtitle(subs)
	require.NotNil(t, sub)
	assert.Equal(t, "en.vtt", sub.URL)

	sub = PreferredSubtitle([]types.Subtitle{{URL: "es.vtt", Lang: "Spanish"}})
	require.NotNil(t, sub)
	assert.Equal(t, "es.vtt", sub.URL)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "[DUB] 720p", Label(types.Source{Quality: "720p", IsDub: true}))
	assert.Equal(t, "[SUB] auto", Label(types.Source{Quality: "auto"}))
	assert.True(t, ValidPreference("sub"))
	assert.False(t, ValidPreference("raw"))
}
