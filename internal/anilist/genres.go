package anilist

import (
	"strings"

	"github.com/mugiwarahub/mugiwara/internal/providers/utils"
)

// Genre is a browseable AniList genre
type Genre struct {
	Name  string
	Color string
}

var genres = []Genre{
	{Name: "Action", Color: "#FF5722"},
	{Name: "Romance", Color: "#E91E63"},
	{Name: "Comedy", Color: "#FFEB3B"},
	{Name: "Horror", Color: "#212121"},
	{Name: "Fantasy", Color: "#9C27B0"},
	{Name: "Sci-Fi", Color: "#3F51B5"},
	{Name: "Slice of Life", Color: "#4CAF50"},
	{Name: "Adventure", Color: "#FF9800"},
	{Name: "Sports", Color: "#03A9F4"},
	{Name: "Mecha", Color: "#607D8B"},
	{Name: "Drama", Color: "#795548"},
	{Name: "Mystery", Color: "#673AB7"},
	{Name: "Supernatural", Color: "#009688"},
	{Name: "Music", Color: "#FFC107"},
	{Name: "Psychological", Color: "#F44336"},
}

const popularGenres = 6

// Genres returns every browseable genre
func Genres() []Genre {
	return append([]Genre(nil), genres...)
}

// Popular returns the genres shown first
func Popular() []Genre {
	return append([]Genre(nil), genres[:popularGenres]...)
}

// MatchGenre resolves user input to a genre, first exactly then by fuzzy match
func MatchGenre(input string) (Genre, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Genre{}, false
	}

	names := make([]string, len(genres))
	for i, g := range genres {
		names[i] = g.Name
	}

	best := utils.BestMatch(input, names)
	if best == "" {
		return Genre{}, false
	}
	for _, g := range genres {
		if g.Name == best {
			return g, true
		}
	}
	return Genre{}, false
}
