package config

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// InitLogger builds the process logger from the logging section and installs
// it as the slog default. File "-" logs to stderr; an empty File logs to
// mugiwara.log in the state dir so the TUI keeps a clean screen.
func InitLogger(cfg *LoggingConfig) (*slog.Logger, error) {
	if cfg.File == "" {
		cfg.File = filepath.Join(GetStateDir(), "mugiwara.log")
	}

	w, console, err := openLogWriter(cfg)
	if err != nil {
		return nil, err
	}

	level := parseLogLevel(cfg.Level)
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	logger := slog.New(newLogHandler(w, strings.ToLower(cfg.Format), cfg.Color && console, opts))
	slog.SetDefault(logger)
	return logger, nil
}

func openLogWriter(cfg *LoggingConfig) (io.Writer, bool, error) {
	if cfg.File == "-" {
		return os.Stderr, true, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, false, fmt.Errorf("create log directory: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}, false, nil
}

func newLogHandler(w io.Writer, format string, color bool, opts *slog.HandlerOptions) slog.Handler {
	switch {
	case format == "json":
		return slog.NewJSONHandler(w, opts)
	case color:
		return NewColoredTextHandler(w, opts)
	default:
		return slog.NewTextHandler(w, opts)
	}
}

// ColoredTextHandler renders records with slog's text format and tints the
// leading time field by level.
type ColoredTextHandler struct {
	inner slog.Handler
	out   io.Writer
	mu    *sync.Mutex
	buf   *bytes.Buffer
}

func NewColoredTextHandler(w io.Writer, opts *slog.HandlerOptions) *ColoredTextHandler {
	buf := &bytes.Buffer{}
	return &ColoredTextHandler{
		inner: slog.NewTextHandler(buf, opts),
		out:   w,
		mu:    &sync.Mutex{},
		buf:   buf,
	}
}

func (h *ColoredTextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ColoredTextHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf.Reset()
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	_, err := io.WriteString(h.out, tintLine(h.buf.String(), r.Level))
	return err
}

// Derived handlers share the buffer and lock with their parent.
func (h *ColoredTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ColoredTextHandler{inner: h.inner.WithAttrs(attrs), out: h.out, mu: h.mu, buf: h.buf}
}

func (h *ColoredTextHandler) WithGroup(name string) slog.Handler {
	return &ColoredTextHandler{inner: h.inner.WithGroup(name), out: h.out, mu: h.mu, buf: h.buf}
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "31"
	case level >= slog.LevelWarn:
		return "33"
	case level >= slog.LevelInfo:
		return "32"
	default:
		return "90"
	}
}

func tintLine(line string, level slog.Level) string {
	head, rest, found := strings.Cut(line, " ")
	head = "\033[" + levelColor(level) + "m" + head + "\033[0m"
	if !found {
		return head
	}
	return head + " " + rest
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
