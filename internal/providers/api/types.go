package api

import (
	"github.com/mugiwarahub/mugiwara/pkg/types"
)

// Title is the multi-language title returned by the proxy
type Title struct {
	Romaji  string `json:"romaji"`
	English string `json:"english"`
	Native  string `json:"native"`
}

// Preferred returns the English title, falling back to Romaji then Native
func (t Title) Preferred() string {
	switch {
	case t.English != "":
		return t.English
	case t.Romaji != "":
		return t.Romaji
	default:
		return t.Native
	}
}

// CharacterName holds a character or voice actor name
type CharacterName struct {
	Full string `json:"full"`
}

// VoiceActor voices a character
type VoiceActor struct {
	ID       int           `json:"id"`
	Name     CharacterName `json:"name"`
	Image    string        `json:"image"`
	Language string        `json:"language"`
}

// Character is a character listed on an anime
type Character struct {
	ID          int           `json:"id"`
	Name        CharacterName `json:"name"`
	Image       string        `json:"image"`
	Role        string        `json:"role"`
	VoiceActors []VoiceActor  `json:"voiceActors"`
}

// Relation links to a related media entry
type Relation struct {
	ID           int    `json:"id"`
	RelationType string `json:"relationType"`
	Title        Title  `json:"title"`
	Image        string `json:"image"`
	Type         string `json:"type"`
	Status       string `json:"status"`
	Episodes     int    `json:"episodes"`
}

// RawRecommendation is a recommendation as returned by the proxy.
// ID is a pointer because the proxy omits it for removed entries.
type RawRecommendation struct {
	ID     *int    `json:"id"`
	Image  string  `json:"image"`
	Rating float64 `json:"rating"`
	Title  Title   `json:"title"`
}

// Recommendation is the flattened form shown to the user
type Recommendation struct {
	ID     int
	Image  string
	Rating float64
	Title  string
}

// EpisodeCounts splits the episode count by audio track
type EpisodeCounts struct {
	Sub int `json:"sub"`
	Dub int `json:"dub"`
}

// AnimeInfo is the response of /api/info/{id}
type AnimeInfo struct {
	ID              string              `json:"id"`
	Title           Title               `json:"title"`
	Synonyms        []string            `json:"synonyms"`
	Image           string              `json:"image"`
	Cover           string              `json:"cover"`
	Description     string              `json:"description"`
	Status          string              `json:"status"`
	ReleaseDate     int                 `json:"releaseDate"`
	Color           string              `json:"color"`
	Episodes        EpisodeCounts       `json:"episodes"`
	TotalEpisodes   int                 `json:"totalEpisodes"`
	CurrentEpisode  int                 `json:"currentEpisode"`
	Rating          float64             `json:"rating"`
	Duration        int                 `json:"duration"`
	Genres          []string            `json:"genres"`
	Season          string              `json:"season"`
	Studios         []string            `json:"studios"`
	Type            string              `json:"type"`
	Characters      []Character         `json:"characters"`
	Relations       []Relation          `json:"relations"`
	Recommendations []RawRecommendation `json:"recommendations"`
}

// AnimeDetails is AnimeInfo after the post-processing the details view needs
type AnimeDetails struct {
	Info            *AnimeInfo
	Characters      []Character
	Relations       []Relation
	Recommendations []Recommendation
}

// EpisodeSources is the response of the watch endpoints
type EpisodeSources = types.EpisodeSources

// ProviderEpisode is one element of the /api/episodes response
type ProviderEpisode = types.ProviderEpisode

// ErrorResponse represents an error response from the proxy
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
