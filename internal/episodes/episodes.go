package episodes

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mugiwarahub/mugiwara/internal/providers/anime/pahe"
	"github.com/mugiwarahub/mugiwara/pkg/types"
)

// DefaultGroupSize is the number of episodes shown per range
const DefaultGroupSize = 24

// Entry is one episode as seen by the user, carrying the ids both providers know it by
type Entry struct {
	PaheID0 string
	PaheID1 string
	ZoroID  string
	Number  int
	Title   string
	Image   string
}

// PaheID returns the "session/episode" id, or "" when Pahe does not have the episode
func (e Entry) PaheID() string {
	return pahe.JoinID(e.PaheID0, e.PaheID1)
}

// Lister is anything that can list the episodes of an anime
type Lister interface {
	Episodes(ctx context.Context, anilistID int) ([]types.ProviderEpisode, error)
}

// Stitch merges the Pahe and Zoro lists. Pahe drives the list when it has
// episodes and Zoro ids are matched by position, not by episode number.
func Stitch(paheEpisodes, zoroEpisodes []types.ProviderEpisode) []Entry {
	if len(paheEpisodes) == 0 {
		entries := make([]Entry, 0, len(zoroEpisodes))
		for _, ep := range zoroEpisodes {
			entries = append(entries, Entry{
				ZoroID: ep.ID,
				Number: ep.Number,
				Title:  ep.Title,
				Image:  ep.Image,
			})
		}
		return entries
	}

	entries := make([]Entry, 0, len(paheEpisodes))
	for i, ep := range paheEpisodes {
		first, second := pahe.SplitID(ep.ID)
		entry := Entry{
			PaheID0: first,
			PaheID1: second,
			Number:  ep.Number,
			Title:   ep.Title,
			Image:   ep.Image,
		}
		if i < len(zoroEpisodes) {
			entry.ZoroID = zoroEpisodes[i].ID
			if zoroEpisodes[i].Title != "" {
				entry.Title = zoroEpisodes[i].Title
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// Load fetches both provider lists and stitches them. A nil lister counts as an
// empty list. If either fetch fails the result is empty.
func Load(ctx context.Context, paheLister, zoroLister Lister, anilistID int, logger *slog.Logger) ([]Entry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	paheEpisodes, err := list(ctx, paheLister, anilistID)
	if err != nil {
		logger.Error("fatal error fetching episode data", "provider", types.ProviderPahe, "anime_id", anilistID, "error", err)
		return []Entry{}, fmt.Errorf("failed to load pahe episodes: %w", err)
	}

	zoroEpisodes, err := list(ctx, zoroLister, anilistID)
	if err != nil {
		logger.Error("fatal error fetching episode data", "provider", types.ProviderZoro, "anime_id", anilistID, "error", err)
		return []Entry{}, fmt.Errorf("failed to load zoro episodes: %w", err)
	}

	return Stitch(paheEpisodes, zoroEpisodes), nil
}

func list(ctx context.Context, l Lister, anilistID int) ([]types.ProviderEpisode, error) {
	if l == nil {
		return nil, nil
	}
	return l.Episodes(ctx, anilistID)
}

// Find returns the entry numbered ep
func Find(entries []Entry, ep int) (Entry, bool) {
	for _, e := range entries {
		if e.Number == ep {
			return e, true
		}
	}
	return Entry{}, false
}

// Lookup is Find with an error wrapping types.ErrEpisodeOutOfRange when the
// list has no entry numbered ep.
func Lookup(entries []Entry, ep int) (Entry, error) {
	if e, ok := Find(entries, ep); ok {
		return e, nil
	}
	return Entry{}, fmt.Errorf("%w: episode %d (the list has %d episodes)", types.ErrEpisodeOutOfRange, ep, len(entries))
}

// IsLast reports whether ep is the number of the final entry
func IsLast(entries []Entry, ep int) bool {
	if len(entries) == 0 {
		return false
	}
	return entries[len(entries)-1].Number == ep
}

// Next returns the WatchID of the episode after w
func Next(entries []Entry, w WatchID) (WatchID, bool) {
	if len(entries) == 0 || w.Episode >= entries[len(entries)-1].Number {
		return WatchID{}, false
	}
	return adjacent(entries, w, w.Episode+1)
}

// Previous returns the WatchID of the episode before w
func Previous(entries []Entry, w WatchID) (WatchID, bool) {
	if w.Episode <= 1 {
		return WatchID{}, false
	}
	return adjacent(entries, w, w.Episode-1)
}

func adjacent(entries []Entry, w WatchID, ep int) (WatchID, bool) {
	entry, ok := Find(entries, ep)
	if !ok {
		return WatchID{}, false
	}
	return NewWatchID(entry, w.AnimeID, w.AnimeName), true
}
