package mpv

import (
	"fmt"

	"github.com/mugiwarahub/mugiwara/internal/player"
)

// ArgOptions are the player-level settings that shape the mpv command line
type ArgOptions struct {
	IPC            *IPCConfig
	ExtraArgs      []string
	LoadUserConfig bool
	Debug          bool
}

// BuildArgs builds the mpv command line. The URL is always last.
func BuildArgs(url string, opts player.PlayOptions, a ArgOptions) []string {
	var args []string
	if a.IPC != nil {
		args = append(args, a.IPC.Arg())
	}
	args = append(args, "--no-ytdl", "--keep-open=no")

	if !a.LoadUserConfig {
		args = append(args, "--no-config")
	}
	if !a.Debug {
		args = append(args, "--msg-level=all=warn")
	}

	if opts.StartTime > 0 {
		args = append(args, fmt.Sprintf("--start=%.0f", opts.StartTime.Seconds()))
	}

	// The default track goes first so mpv selects it
	if opts.SubtitleURL != "" {
		args = append(args, "--sub-file="+opts.SubtitleURL)
	}
	for _, sub := range opts.Subtitles {
		if sub.URL != opts.SubtitleURL {
			args = append(args, "--sub-file="+sub.URL)
		}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	args = append(args, "--user-agent="+userAgent)

	if opts.Referer != "" {
		args = append(args, "--referrer="+opts.Referer)
	}

	if opts.Title != "" {
		args = append(args, "--force-media-title="+opts.Title)
	}

	args = append(args, a.ExtraArgs...)
	args = append(args, opts.MPVArgs...)

	return append(args, url)
}
