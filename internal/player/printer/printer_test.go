package printer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mugiwarahub/mugiwara/internal/player"
)

func TestPlay(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	err := p.Play(context.Background(), "https://cdn.example/ep.m3u8", player.PlayOptions{
		Title:     "Frieren - Episode 1",
		Referer:   "https://kwik.si/",
		Subtitles: []player.SubtitleTrack{{URL: "https://cdn.example/en.vtt", Lang: "English"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "# Frieren - Episode 1\nhttps://cdn.example/ep.m3u8\nreferer: https://kwik.si/\nsubtitle[English]: https://cdn.example/en.vtt\n", buf.String())
	assert.Equal(t, player.StatePlaying, p.State())

	_, err = p.GetProgress(context.Background())
	assert.ErrorIs(t, err, player.ErrProgressUnsupported)
}
