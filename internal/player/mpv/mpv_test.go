package mpv

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mugiwarahub/mugiwara/internal/player"
)

func TestBuildArgs(t *testing.T) {
	ipc := &IPCConfig{Type: IPCUnixSocket, Address: "/tmp/mugiwara-mpv-test.sock"}
	url := "https://proxy.example/api/hls-proxy?url=x"

	tests := []struct {
		name     string
		options  player.PlayOptions
		argOpts  ArgOptions
		contains []string
		excludes []string
	}{
		{
			name:     "defaults",
			argOpts:  ArgOptions{IPC: ipc},
			contains: []string{"--input-ipc-server=/tmp/mugiwara-mpv-test.sock", "--no-config", "--msg-level=all=warn", "--user-agent=" + defaultUserAgent},
			excludes: []string{"--referrer=", "--force-media-title="},
		},
		{
			name:     "user config and debug",
			argOpts:  ArgOptions{LoadUserConfig: true, Debug: true},
			excludes: []string{"--no-config", "--msg-level=all=warn"},
		},
		{
			name: "episode metadata",
			options: player.PlayOptions{
				StartTime: 90 * time.Second,
				Referer:   "https://kwik.si/",
				Title:     "Frieren - Episode 3",
				UserAgent: "test-agent",
			},
			contains: []string{"--start=90", "--referrer=https://kwik.si/", "--force-media-title=Frieren - Episode 3", "--user-agent=test-agent"},
		},
		{
			name:     "extra args",
			options:  player.PlayOptions{MPVArgs: []string{"--fs"}},
			argOpts:  ArgOptions{ExtraArgs: []string{"--volume=50"}},
			contains: []string{"--volume=50", "--fs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := BuildArgs(url, tt.options, tt.argOpts)
			require.NotEmpty(t, args)
			assert.Equal(t, url, args[len(args)-1])
			for _, want := range tt.contains {
				assert.Contains(t, args, want)
			}
			for _, prefix := range tt.excludes {
				for _, a := range args {
					assert.NotContains(t, a, prefix)
				}
			}
		})
	}
}

func TestBuildArgsSubtitles(t *testing.T) {
	opts := player.PlayOptions{
		SubtitleURL: "https://cdn.example/en.vtt",
		Subtitles: []player.SubtitleTrack{
			{URL: "https://cdn.example/es.vtt", Lang: "Spanish"},
			{URL: "https://cdn.example/en.vtt", Lang: "English"},
		},
	}

	var subs []string
	for _, a := range BuildArgs("u", opts, ArgOptions{}) {
		if len(a) > 11 && a[:11] == "--sub-file=" {
			subs = append(subs, a[11:])
		}
	}

	assert.Equal(t, []string{"https://cdn.example/en.vtt", "https://cdn.example/es.vtt"}, subs)
}

func TestNewIPCConfig(t *testing.T) {
	tests := []struct {
		platform Platform
		ipcType  IPCType
		isSocket bool
		prefix   string
	}{
		{PlatformLinux, IPCUnixSocket, true, os.TempDir()},
		{PlatformMac, IPCUnixSocket, true, os.TempDir()},
		{PlatformWSL, IPCUnixSocket, true, os.TempDir()},
		{PlatformWindows, IPCNamedPipe, false, `\\.\pipe\mugiwara-mpv-`},
	}

	for _, tt := range tests {
		cfg, err := NewIPCConfig(tt.platform)
		require.NoError(t, err)
		assert.Equal(t, tt.ipcType, cfg.Type)
		assert.Equal(t, tt.isSocket, cfg.IsSocket())
		assert.Contains(t, cfg.Address, "mugiwara-mpv-")
		assert.Contains(t, cfg.Address, tt.prefix)
	}

	a, err := NewIPCConfig(PlatformLinux)
	require.NoError(t, err)
	b, err := NewIPCConfig(PlatformLinux)
	require.NoError(t, err)
	assert.NotEqual(t, a.Address, b.Address)
}

func TestPlatform(t *testing.T) {
	assert.Equal(t, "mpv", PlatformLinux.Executable())
	assert.Equal(t, "mpv", PlatformWSL.Executable())
	assert.Equal(t, "mpv", PlatformMac.Executable())
	assert.Equal(t, "mpv.exe", PlatformWindows.Executable())
	assert.Equal(t, "wsl", PlatformWSL.String())

	ipc := &IPCConfig{Type: IPCUnixSocket, Address: "/tmp/x.sock"}
	assert.Equal(t, "--input-ipc-server=/tmp/x.sock", ipc.Arg())
}

func TestStoppedPlayer(t *testing.T) {
	p := &Player{state: player.StateStopped}

	_, err := p.GetProgress(context.Background())
	assert.ErrorIs(t, err, player.ErrPlayerClosed)
	assert.False(t, p.IsPlaying())
	assert.NoError(t, p.Stop(context.Background()))
}

func TestWaitForIPCSocket(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "mugiwara-mpv-*.sock")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, waitForIPC(ctx, &IPCConfig{Type: IPCUnixSocket, Address: f.Name()}))
}
