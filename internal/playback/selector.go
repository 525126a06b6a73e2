package playback

import (
	"github.com/mugiwarahub/mugiwara/pkg/types"
)

// PreferredSource picks a 1080p or 720p sub source, else any sub source,
// else the first source.
func PreferredSource(sources []types.Source) (types.Source, error) {
	if len(sources) == 0 {
		return types.Source{}, types.ErrNoSources
	}

	for _, s := range sources {
		if (s.Quality == "1080p" || s.Quality == "720p") && !s.IsDub {
			return s, nil
		}
	}

	for _, s := range sources {
		if !s.IsDub {
			return s, nil
		}
	}

	return sources[0], nil
}

// Selector tracks which source of an episode is playing
type Selector struct {
	sources []types.Source
	current types.Source
	quality string
	dub     bool
}

// NewSelector starts on the preferred source
func NewSelector(sources []types.Source) (*Selector, error) {
	source, err := PreferredSource(sources)
	if err != nil {
		return nil, err
	}

	return &Selector{
		sources: sources,
		current: source,
		quality: source.Quality,
		dub:     source.IsDub,
	}, nil
}

// Current returns the selected source
func (s *Selector) Current() types.Source {
	return s.current
}

func (s *Selector) Quality() string {
	return s.quality
}

func (s *Selector) IsDub() bool {
	return s.dub
}

// Sources returns every source of the episode
func (s *Selector) Sources() []types.Source {
	return s.sources
}

// ChangeQuality selects the first source with quality q and the current
// audio. Returns false and keeps the selection when there is none.
func (s *Selector) ChangeQuality(q string) bool {
	for _, src := range s.sources {
		if src.Quality == q && src.IsDub == s.dub {
			s.current = src
			s.quality = q
			return true
		}
	}
	return false
}

// ToggleDub switches between sub and dub when the other audio exists,
// keeping the quality if possible.
func (s *Selector) ToggleDub() bool {
	want := !s.dub

	var matching []types.Source
	for _, src := range s.sources {
		if src.IsDub == want {
			matching = append(matching, src)
		}
	}
	if len(matching) == 0 {
		return false
	}

	s.current = matching[0]
	for _, src := range matching {
		if src.Quality == s.quality {
			s.current = src
			break
		}
	}
	s.quality = s.current.Quality
	s.dub = want
	return true
}

// SetAudio moves to the given audio ("sub" or "dub") when it is available
func (s *Selector) SetAudio(pref string) bool {
	if (pref == types.AudioDub) == s.dub {
		return true
	}
	return s.ToggleDub()
}

// HasDub reports whether any dubbed source exists
func (s *Selector) HasDub() bool {
	for _, src := range s.sources {
		if src.IsDub {
			return true
		}
	}
	return false
}

// AvailableQualities lists the distinct qualities for the current audio in source order
func (s *Selector) AvailableQualities() []string {
	seen := make(map[string]bool)
	var qualities []string
	for _, src := range s.sources {
		if src.IsDub != s.dub || src.Quality == "" || seen[src.Quality] {
			continue
		}
		seen[src.Quality] = true
		qualities = append(qualities, src.Quality)
	}
	return qualities
}
