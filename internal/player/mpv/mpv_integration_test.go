//go:build integration

package mpv

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mugiwarahub/mugiwara/internal/config"
	"github.com/mugiwarahub/mugiwara/internal/player"
)

func TestPlayStop(t *testing.T) {
	if _, err := exec.LookPath("mpv"); err != nil {
		t.Skip("mpv not available")
	}

	cfg := config.Default()
	cfg.Player.MPVArgs = []string{"--vo=null", "--ao=null"}
	p, err := New(cfg, nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, p.Play(ctx, "av://lavfi:testsrc=duration=10:size=320x240:rate=30", player.PlayOptions{Title: "test"}))

	require.Eventually(t, p.IsPlaying, 10*time.Second, 100*time.Millisecond)

	progress, err := p.GetProgress(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, progress.Duration, time.Duration(0))

	require.NoError(t, p.Stop(ctx))
	assert.Equal(t, player.StateStopped, p.State())

	_, err = p.GetProgress(ctx)
	assert.ErrorIs(t, err, player.ErrPlayerClosed)
}
