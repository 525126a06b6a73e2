package player

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrProgressUnsupported comes from backends that hand the stream off, like the browser.
	ErrProgressUnsupported = errors.New("player does not report progress")
	ErrPlayerClosed        = errors.New("player closed")
)

// Player is a playback backend. Play returns once the stream has been handed
// over; progress and the end of playback arrive through the hooks.
type Player interface {
	Play(ctx context.Context, url string, options PlayOptions) error
	Stop(ctx context.Context) error
	GetProgress(ctx context.Context) (*PlaybackProgress, error)

	OnProgressUpdate(callback func(progress PlaybackProgress))
	OnPlaybackEnd(callback func())
	OnError(callback func(err error))

	IsPlaying() bool
	State() PlaybackState
}

type SubtitleTrack struct {
	URL  string
	Lang string
}

// PlayOptions describes one episode handed to a backend.
type PlayOptions struct {
	Title     string
	Episode   int
	StartTime time.Duration
	// IsM3U8 marks an HLS playlist; otherwise the stream is a plain video file
	IsM3U8 bool

	// SubtitleURL is selected by default; Subtitles lists every track.
	SubtitleURL  string
	SubtitleLang string
	Subtitles    []SubtitleTrack

	// Sent with stream requests that bypass the stream proxy
	Referer   string
	UserAgent string

	MPVArgs []string
}

type PlaybackProgress struct {
	CurrentTime time.Duration
	Duration    time.Duration
	Percentage  float64 // 0-100
	Paused      bool
	EOF         bool
}

type PlaybackState string

const (
	StateStopped PlaybackState = "stopped"
	StateLoading PlaybackState = "loading"
	StatePlaying PlaybackState = "playing"
	StateError   PlaybackState = "error"
)

func (s PlaybackState) String() string { return string(s) }

// Callbacks implements the On* hooks for backends. Hooks may be set from the
// UI goroutine while the backend fires them from its own.
type Callbacks struct {
	mu         sync.RWMutex
	onProgress func(PlaybackProgress)
	onEnd      func()
	onError    func(error)
}

func (c *Callbacks) OnProgressUpdate(callback func(progress PlaybackProgress)) {
	c.mu.Lock()
	c.onProgress = callback
	c.mu.Unlock()
}

func (c *Callbacks) OnPlaybackEnd(callback func()) {
	c.mu.Lock()
	c.onEnd = callback
	c.mu.Unlock()
}

func (c *Callbacks) OnError(callback func(err error)) {
	c.mu.Lock()
	c.onError = callback
	c.mu.Unlock()
}

func (c *Callbacks) EmitProgress(p PlaybackProgress) {
	c.mu.RLock()
	fn := c.onProgress
	c.mu.RUnlock()
	if fn != nil {
		fn(p)
	}
}

func (c *Callbacks) EmitEnd() {
	c.mu.RLock()
	fn := c.onEnd
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func (c *Callbacks) EmitError(err error) {
	c.mu.RLock()
	fn := c.onError
	c.mu.RUnlock()
	if fn != nil {
		fn(err)
	}
}

// Percent is position as a share of duration, 0 when duration is unknown.
func Percent(position, duration time.Duration) float64 {
	if duration <= 0 {
		return 0
	}
	return float64(position) / float64(duration) * 100
}
