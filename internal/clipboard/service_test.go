package clipboard

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"wl-copy", []string{"wl-copy"}},
		{"xclip -selection clipboard", []string{"xclip", "-selection", "clipboard"}},
		{`sh -c "cat > /tmp/out"`, []string{"sh", "-c", "cat > /tmp/out"}},
		{`  tee  'a b'  `, []string{"tee", "a b"}},
		{"", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseCommand(tt.in), tt.in)
	}
}

func TestCopy_LibraryFirst(t *testing.T) {
	var got string
	s := NewService("", nil)
	s.writeAll = func(text string) error {
		got = text
		return nil
	}

	require.NoError(t, s.Copy(context.Background(), "https://proxy/api/hls-proxy?url=x"))
	assert.Equal(t, "https://proxy/api/hls-proxy?url=x", got)
}

func TestCopy_NoTools(t *testing.T) {
	if runtime.GOOS != "linux" || isWSL() {
		t.Skip("tool detection differs on this platform")
	}

	s := NewService("", nil)
	s.writeAll = func(string) error { return errors.New("no display") }
	s.lookPath = func(string) (string, error) { return "", exec.ErrNotFound }

	err := s.Copy(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNoClipboard)
}

func TestCopy_ConfiguredCommand(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	out := t.TempDir() + "/clip.txt"
	s := NewService(`sh -c "cat > `+out+`"`, nil)
	s.writeAll = func(string) error {
		t.Error("library should not be used when a command is configured")
		return nil
	}

	require.NoError(t, s.Copy(context.Background(), "copied"))
	data, err := readFile(out)
	require.NoError(t, err)
	assert.Equal(t, "copied", data)
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	return string(b), err
}
