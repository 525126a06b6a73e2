package audio

import (
	"strings"

	"github.com/mugiwarahub/mugiwara/pkg/types"
)

// DetectAudioType classifies a provider's track label.
// Returns "dub", "sub" or "unknown".
func DetectAudioType(label string) string {
	lowerLabel := strings.ToLower(label)

	if strings.Contains(lowerLabel, "dub") ||
		strings.Contains(lowerLabel, "english audio") {
		return types.AudioDub
	}

	if strings.Contains(lowerLabel, "sub") ||
		strings.Contains(lowerLabel, "japanese") ||
		strings.Contains(lowerLabel, "original") ||
		strings.Contains(lowerLabel, "raw") {
		return types.AudioSub
	}

	return "unknown"
}

// ValidPreference reports whether p is "sub" or "dub"
func ValidPreference(p string) bool {
	return p == types.AudioSub || p == types.AudioDub
}

// PreferredSubtitle picks an English track, else the first one.
// Returns nil when there are no subtitles.
func PreferredSubtitle(subtitles []types.Subtitle) *types.Subtitle {
	if len(subtitles) == 0 {
		return nil
	}

	englishCodes := []string{"english", "eng", "en"}
	for _, code := range englishCodes {
		for i := range subtitles {
			if strings.HasPrefix(strings.ToLower(subtitles[i].Lang), code) {
				return &subtitles[i]
			}
		}
	}

	return &subtitles[0]
}

// Label formats a track for display, e.g. "[DUB] 1080p"
func Label(source types.Source) string {
	return "[" + strings.ToUpper(source.Audio()) + "] " + source.Quality
}
