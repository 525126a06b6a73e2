package utils

import (
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"removes extra spaces", "hello    world", "hello world"},
		{"removes tabs", "hello\t\tworld", "hello world"},
		{"removes newlines", "hello\n\nworld", "hello world"},
		{"trims leading/trailing", "  hello world  ", "hello world"},
		{"handles empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestCutRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		n        int
		expected string
	}{
		{"short text still gets ellipsis", "Pirates", 120, "Pirates..."},
		{"cuts at rune count", "abcdef", 3, "abc..."},
		{"counts runes not bytes", "ワンピース", 2, "ワン..."},
		{"empty", "", 5, "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CutRunes(tt.input, tt.n))
		})
	}
}

func TestTruncateWidth(t *testing.T) {
	assert.Equal(t, "hello world", TruncateWidth("hello world", 20))
	assert.Equal(t, "hello…", TruncateWidth("hello world", 6))
	assert.Equal(t, "", TruncateWidth("hello", 0))
	assert.LessOrEqual(t, runewidth.StringWidth(TruncateWidth("ワンピース", 6)), 6)
}

func TestDefaultString(t *testing.T) {
	assert.Equal(t, "first", DefaultString("first", "second"))
	assert.Equal(t, "second", DefaultString("", "second"))
	assert.Equal(t, "", DefaultString("", ""))
	assert.Equal(t, "", DefaultString())
}

func TestDefaultInt(t *testing.T) {
	assert.Equal(t, 5, DefaultInt(5, 10))
	assert.Equal(t, 10, DefaultInt(0, 10))
	assert.Equal(t, 0, DefaultInt())
}
