// Package printer writes the stream details instead of playing them, for piping
// into another player.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mugiwarahub/mugiwara/internal/player"
)

type Player struct {
	player.Callbacks

	mu      sync.Mutex
	out     io.Writer
	playing bool
}

// New returns a player that writes to out, or stdout when out is nil
func New(out io.Writer) *Player {
	if out == nil {
		out = os.Stdout
	}
	return &Player{out: out}
}

func (p *Player) Play(ctx context.Context, url string, opts player.PlayOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if opts.Title != "" {
		fmt.Fprintf(p.out, "# %s\n", opts.Title)
	}
	fmt.Fprintln(p.out, url)
	if opts.Referer != "" {
		fmt.Fprintf(p.out, "referer: %s\n", opts.Referer)
	}
	for _, sub := range opts.Subtitles {
		fmt.Fprintf(p.out, "subtitle[%s]: %s\n", sub.Lang, sub.URL)
	}
	p.playing = true
	return nil
}

func (p *Player) Stop(ctx context.Context) error {
	p.mu.Lock()
	p.playing = false
	p.mu.Unlock()
	return nil
}

func (p *Player) GetProgress(ctx context.Context) (*player.PlaybackProgress, error) {
	return nil, player.ErrProgressUnsupported
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *Player) State() player.PlaybackState {
	if p.IsPlaying() {
		return player.StatePlaying
	}
	return player.StateStopped
}

var _ player.Player = (*Player)(nil)
