package utils

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

var spaceRun = regexp.MustCompile(`\s+`)

// CleanText collapses whitespace runs to one space and trims the ends.
func CleanText(text string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(text, " "))
}

// CutRunes keeps the first n runes of s and always appends "...", which is
// how feed cards end their synopsis.
func CutRunes(s string, n int) string {
	if r := []rune(s); len(r) > n {
		s = string(r[:n])
	}
	return s + "..."
}

// TruncateWidth fits s into width terminal cells; CJK runes take two.
func TruncateWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

func DefaultString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func DefaultInt(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
