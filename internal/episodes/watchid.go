package episodes

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mugiwarahub/mugiwara/internal/providers/anime/pahe"
	"github.com/mugiwarahub/mugiwara/pkg/types"
)

const (
	watchIDSeparator = "+"
	defaultAnimeName = "Anime Episode"
)

// WatchID identifies one episode of one anime for playback. Its string form
// "paheId0+paheId1+zoroId+episode+animeId+name" is also what the backend
// stores as a continue-watching episodeId.
type WatchID struct {
	PaheID0   string
	PaheID1   string
	ZoroID    string
	Episode   int
	AnimeID   int
	AnimeName string
}

// NewWatchID builds the WatchID of entry
func NewWatchID(entry Entry, animeID int, name string) WatchID {
	return WatchID{
		PaheID0:   entry.PaheID0,
		PaheID1:   entry.PaheID1,
		ZoroID:    entry.ZoroID,
		Episode:   entry.Number,
		AnimeID:   animeID,
		AnimeName: name,
	}
}

// PaheID returns the joined Pahe id, "" when unknown
func (w WatchID) PaheID() string {
	return pahe.JoinID(w.PaheID0, w.PaheID1)
}

// EpisodeID returns the id the named provider knows this episode by
func (w WatchID) EpisodeID(provider string) string {
	switch provider {
	case types.ProviderPahe:
		return w.PaheID()
	case types.ProviderZoro:
		return w.ZoroID
	default:
		return ""
	}
}

// Title is the display title, "{name} - Episode {n}"
func (w WatchID) Title() string {
	return fmt.Sprintf("%s - Episode %d", w.AnimeName, w.Episode)
}

func (w WatchID) String() string {
	// The separator must not appear inside the name
	name := strings.ReplaceAll(url.PathEscape(w.AnimeName), "+", "%2B")
	return strings.Join([]string{
		w.PaheID0,
		w.PaheID1,
		w.ZoroID,
		strconv.Itoa(w.Episode),
		strconv.Itoa(w.AnimeID),
		name,
	}, watchIDSeparator)
}

// ParseWatchID decodes a WatchID string. The episode defaults to 1 and the
// name to "Anime Episode" when missing.
func ParseWatchID(s string) (WatchID, error) {
	parts := strings.SplitN(strings.TrimSpace(s), watchIDSeparator, 6)
	if len(parts) < 5 {
		return WatchID{}, fmt.Errorf("%w: %q", types.ErrInvalidWatchID, s)
	}

	animeID, err := strconv.Atoi(parts[4])
	if err != nil || animeID <= 0 {
		return WatchID{}, fmt.Errorf("%w: bad anime id %q", types.ErrInvalidWatchID, parts[4])
	}

	episode := 1
	if parts[3] != "" {
		episode, err = strconv.Atoi(parts[3])
		if err != nil || episode < 1 {
			return WatchID{}, fmt.Errorf("%w: bad episode %q", types.ErrInvalidWatchID, parts[3])
		}
	}

	name := defaultAnimeName
	if len(parts) == 6 && parts[5] != "" {
		if decoded, err := url.PathUnescape(parts[5]); err == nil {
			name = decoded
		} else {
			name = parts[5]
		}
	}

	return WatchID{
		PaheID0:   idPart(parts[0]),
		PaheID1:   idPart(parts[1]),
		ZoroID:    idPart(idUnescape(parts[2])),
		Episode:   episode,
		AnimeID:   animeID,
		AnimeName: name,
	}, nil
}

// idPart maps the placeholders older clients wrote for missing ids to ""
func idPart(s string) string {
	switch s {
	case "null", "undefined":
		return ""
	}
	return s
}

func idUnescape(s string) string {
	if decoded, err := url.PathUnescape(s); err == nil {
		return decoded
	}
	return s
}
