// Package web plays episodes in the default browser through a generated
// video.js page.
package web

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/browser"

	"github.com/mugiwarahub/mugiwara/internal/player"
)

const pageTpl = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link href="https://vjs.zencdn.net/8.5.2/video-js.css" rel="stylesheet">
<style>
html,body{margin:0;height:100%;background:#0b0b10;color:#eee;font-family:sans-serif}
header{padding:12px 18px;font-size:18px}
.video-js{width:100%;height:calc(100% - 48px)}
</style>
</head>
<body>
<header>{{.Title}}</header>
<video id="player" class="video-js vjs-big-play-centered" controls autoplay preload="auto" crossorigin="anonymous">
<source src="{{.URL}}" type="{{.MimeType}}">
{{- range .Subtitles}}
<track kind="subtitles" src="{{.URL}}" srclang="{{.SrcLang}}" label="{{.Label}}"{{if .Default}} default{{end}}>
{{- end}}
</video>
<script src="https://vjs.zencdn.net/8.5.2/video.min.js"></script>
<script>videojs('player');</script>
</body>
</html>
`

var page = template.Must(template.New("player").Parse(pageTpl))

type track struct {
	URL     string
	SrcLang string
	Label   string
	Default bool
}

type pageData struct {
	Title     string
	URL       string
	MimeType  string
	Subtitles []track
}

// Opener opens a local file in the user's browser
type Opener func(path string) error

// Player writes a page per episode and opens it. It cannot report progress.
type Player struct {
	player.Callbacks

	mu    sync.Mutex
	dir   string
	open  Opener
	state player.PlaybackState
	last  string

	logger *slog.Logger
}

// New returns a browser player that writes its pages to dir
func New(dir string, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		dir:    dir,
		open:   browser.OpenFile,
		state:  player.StateStopped,
		logger: logger,
	}
}

// WithOpener replaces the function used to open the page
func (p *Player) WithOpener(open Opener) *Player {
	p.open = open
	return p
}

// Render returns the HTML page for url
func Render(url string, opts player.PlayOptions) ([]byte, error) {
	data := pageData{
		Title:    opts.Title,
		URL:      url,
		MimeType: mimeType(opts.IsM3U8),
	}
	if data.Title == "" {
		data.Title = "mugiwara"
	}
	for _, sub := range opts.Subtitles {
		data.Subtitles = append(data.Subtitles, track{
			URL:     sub.URL,
			SrcLang: srcLang(sub.Lang),
			Label:   sub.Lang,
			Default: sub.URL == opts.SubtitleURL,
		})
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render player page: %w", err)
	}
	return buf.Bytes(), nil
}

// mimeType follows the source flag; proxied URLs carry no usable extension.
func mimeType(isM3U8 bool) string {
	if isM3U8 {
		return "application/x-mpegURL"
	}
	return "video/mp4"
}

// srcLang is the lowercased first two letters of a language name, "English" -> "en".
func srcLang(lang string) string {
	r := []rune(lang)
	return strings.ToLower(string(r[:min(len(r), 2)]))
}

func (p *Player) Play(ctx context.Context, url string, opts player.PlayOptions) error {
	html, err := Render(url, opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return fmt.Errorf("failed to create player dir: %w", err)
	}
	path := filepath.Join(p.dir, "player.html")
	if err := os.WriteFile(path, html, 0644); err != nil {
		return fmt.Errorf("failed to write player page: %w", err)
	}

	if err := p.open(path); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	p.logger.Debug("opened browser player", "page", path, "title", opts.Title)

	p.mu.Lock()
	p.state = player.StatePlaying
	p.last = path
	p.mu.Unlock()
	return nil
}

// Page returns the path of the last page written
func (p *Player) Page() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func (p *Player) Stop(ctx context.Context) error {
	p.mu.Lock()
	p.state = player.StateStopped
	p.mu.Unlock()
	return nil
}

func (p *Player) GetProgress(ctx context.Context) (*player.PlaybackProgress, error) {
	return nil, player.ErrProgressUnsupported
}

func (p *Player) IsPlaying() bool {
	return p.State() == player.StatePlaying
}

func (p *Player) State() player.PlaybackState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

var _ player.Player = (*Player)(nil)
