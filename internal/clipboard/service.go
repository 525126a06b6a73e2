// Package clipboard copies stream links to the system clipboard.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrNoClipboard is returned when neither the clipboard library nor any known
// command line tool can be used
var ErrNoClipboard = errors.New("no clipboard available (install wl-clipboard, xclip or xsel)")

// Service writes text to the clipboard. A configured command takes precedence
// over the clipboard library, which takes precedence over the detected tools.
type Service struct {
	command string
	logger  *slog.Logger

	// swapped in tests
	writeAll func(string) error
	lookPath func(string) (string, error)
}

func NewService(command string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		command:  command,
		logger:   logger,
		writeAll: clipboard.WriteAll,
		lookPath: exec.LookPath,
	}
}

// Copy places text on the clipboard
func (s *Service) Copy(ctx context.Context, text string) error {
	if s.command != "" {
		return s.copyWithCommand(ctx, text, parseCommand(s.command))
	}

	err := s.writeAll(text)
	if err == nil {
		s.logger.Debug("copied to clipboard", "length", len(text))
		return nil
	}
	s.logger.Debug("clipboard library failed, trying tools", "error", err)

	tool := s.detectTool()
	if tool == nil {
		return fmt.Errorf("%w: %w", ErrNoClipboard, err)
	}
	return s.copyWithCommand(ctx, text, tool)
}

// Read returns the clipboard contents
func (s *Service) Read() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func (s *Service) copyWithCommand(ctx context.Context, text string, parts []string) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid clipboard command %q", s.command)
	}

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		s.logger.Error("clipboard command failed", "command", parts[0], "error", err, "output", strings.TrimSpace(string(out)))
		return fmt.Errorf("clipboard command %s failed: %w", parts[0], err)
	}
	s.logger.Debug("copied to clipboard", "command", parts[0], "length", len(text))
	return nil
}

// detectTool picks a command line clipboard tool for this system
func (s *Service) detectTool() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{"clip.exe"}
	case "darwin":
		return []string{"pbcopy"}
	}

	if isWSL() {
		return []string{"clip.exe"}
	}

	candidates := [][]string{
		{"wl-copy"},
		{"xclip", "-selection", "clipboard"},
		{"xsel", "--clipboard", "--input"},
	}
	for _, c := range candidates {
		if _, err := s.lookPath(c[0]); err == nil {
			return c
		}
	}
	return nil
}

// parseCommand splits a command line, keeping quoted arguments together
func parseCommand(command string) []string {
	var parts []string
	var current strings.Builder
	var quote rune
	inQuotes := false

	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}

	for _, r := range command {
		switch {
		case (r == '\'' || r == '"') && !inQuotes:
			inQuotes, quote = true, r
		case inQuotes && r == quote:
			inQuotes = false
		case r == ' ' && !inQuotes:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return parts
}

func isWSL() bool {
	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}
	version := strings.ToLower(string(data))
	return strings.Contains(version, "microsoft") || strings.Contains(version, "wsl")
}
