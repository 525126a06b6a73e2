package types

// Provider names
const (
	ProviderPahe = "pahe"
	ProviderZoro = "zoro"
)

// Audio tracks
const (
	AudioSub = "sub"
	AudioDub = "dub"
)

// ProviderEpisode is one episode as listed by a single provider
type ProviderEpisode struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Title  string `json:"title,omitempty"`
	Image  string `json:"image,omitempty"`
}

// Source is a single playable stream of an episode
type Source struct {
	URL     string `json:"url"`
	Quality string `json:"quality,omitempty"`
	IsM3U8  bool   `json:"isM3U8,omitempty"`
	IsDub   bool   `json:"isDub,omitempty"`
	// Type is set by providers that label streams instead of grading them
	Type string `json:"type,omitempty"`
}

// Subtitle is a text track offered with a source
type Subtitle struct {
	URL  string `json:"url"`
	Lang string `json:"lang"`
}

// SourceHeaders are the request headers a stream host expects
type SourceHeaders struct {
	Referer string `json:"Referer"`
}

// EpisodeSources is the answer to a watch request
type EpisodeSources struct {
	Headers   SourceHeaders `json:"headers"`
	Sources   []Source      `json:"sources"`
	Subtitles []Subtitle    `json:"subtitles,omitempty"`
}

// Audio returns "dub" or "sub" for the source
func (s Source) Audio() string {
	if s.IsDub {
		return AudioDub
	}
	return AudioSub
}
