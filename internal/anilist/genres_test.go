package anilist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenres(t *testing.T) {
	assert.Len(t, Genres(), 15)

	popular := Popular()
	assert.Len(t, popular, 6)
	assert.Equal(t, "Action", popular[0].Name)
	assert.Equal(t, "Sci-Fi", popular[5].Name)
}

func TestMatchGenre(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"action", "Action", true},
		{"SLICE OF LIFE", "Slice of Life", true},
		{"psych", "Psychological", true},
		{"scifi", "Sci-Fi", true},
		{"", "", false},
		{"qqq", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			g, ok := MatchGenre(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, g.Name)
		})
	}
}
