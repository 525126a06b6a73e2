package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/mugiwarahub/mugiwara/internal/anilist"
	"github.com/mugiwarahub/mugiwara/internal/backend"
	"github.com/mugiwarahub/mugiwara/internal/database"
	"github.com/mugiwarahub/mugiwara/internal/episodes"
	"github.com/mugiwarahub/mugiwara/internal/providers"
	"github.com/mugiwarahub/mugiwara/internal/providers/api"
	"github.com/mugiwarahub/mugiwara/internal/providers/utils"
)

const synopsisRunes = 300

func printCards(w io.Writer, title string, cards []anilist.Card) {
	fmt.Fprintf(w, "%s (%d)\n", title, len(cards))
	if len(cards) == 0 {
		fmt.Fprintln(w, "  nothing found")
		return
	}
	for i, c := range cards {
		fmt.Fprintf(w, "%3d. %s [%d]\n", i+1, c.Title, c.ID)
		meta := []string{"★ " + c.RatingLabel(), c.EpisodesLabel("?") + " eps"}
		if c.Year > 0 {
			meta = append(meta, fmt.Sprint(c.Year))
		}
		if c.Status != "" {
			meta = append(meta, c.Status)
		}
		if len(c.Genres) > 0 {
			meta = append(meta, strings.Join(c.Genres, ", "))
		}
		fmt.Fprintf(w, "     %s\n", strings.Join(meta, " • "))
	}
}

func printPage(w io.Writer, title string, page *anilist.Page) {
	printCards(w, fmt.Sprintf("%s, page %d", title, page.CurrentPage), page.Items)
	if page.HasNextPage {
		fmt.Fprintf(w, "\nMore results: --page %d\n", page.CurrentPage+1)
	}
}

func printDetails(w io.Writer, d *api.AnimeDetails) {
	info := d.Info
	fmt.Fprintln(w, info.Title.Preferred())
	if info.Title.Romaji != "" && info.Title.Romaji != info.Title.Preferred() {
		fmt.Fprintf(w, "  %s\n", info.Title.Romaji)
	}

	var meta []string
	if info.Rating > 0 {
		meta = append(meta, fmt.Sprintf("★ %.1f", info.Rating))
	}
	for _, s := range []string{info.Type, info.Status, info.Season} {
		if s != "" {
			meta = append(meta, s)
		}
	}
	if info.ReleaseDate > 0 {
		meta = append(meta, fmt.Sprint(info.ReleaseDate))
	}
	if n := utils.DefaultInt(info.TotalEpisodes, info.Episodes.Sub); n > 0 {
		meta = append(meta, fmt.Sprintf("%d episodes (sub %d, dub %d)", n, info.Episodes.Sub, info.Episodes.Dub))
	}
	if info.Duration > 0 {
		meta = append(meta, fmt.Sprintf("%d min", info.Duration))
	}
	fmt.Fprintf(w, "  %s\n", strings.Join(meta, " • "))

	if len(info.Genres) > 0 {
		fmt.Fprintf(w, "  Genres: %s\n", strings.Join(info.Genres, ", "))
	}
	if len(info.Studios) > 0 {
		fmt.Fprintf(w, "  Studios: %s\n", strings.Join(info.Studios, ", "))
	}
	if text := utils.CardSynopsis(info.Description, synopsisRunes); text != "" {
		fmt.Fprintf(w, "\n%s\n", text)
	}

	if len(d.Characters) > 0 {
		fmt.Fprintln(w, "\nCharacters:")
		for i, c := range d.Characters {
			if i == 8 {
				break
			}
			line := fmt.Sprintf("  %s (%s)", c.Name.Full, strings.ToLower(c.Role))
			if len(c.VoiceActors) > 0 {
				line += " - " + c.VoiceActors[0].Name.Full
			}
			fmt.Fprintln(w, line)
		}
	}
	if len(d.Relations) > 0 {
		fmt.Fprintln(w, "\nRelated:")
		for _, r := range d.Relations {
			fmt.Fprintf(w, "  %s: %s [%d]\n", r.RelationType, r.Title.Preferred(), r.ID)
		}
	}
	if len(d.Recommendations) > 0 {
		fmt.Fprintln(w, "\nRecommended:")
		for i, r := range d.Recommendations {
			if i == 5 {
				break
			}
			fmt.Fprintf(w, "  %s [%d]\n", r.Title, r.ID)
		}
	}
}

// printEpisodes lists one group of entries with the WatchID each one plays
func printEpisodes(w io.Writer, entries []episodes.Entry, group, size, animeID int, name string) error {
	groups := episodes.Groups(len(entries), size)
	if group < 0 || group >= len(groups) {
		return fmt.Errorf("group %d out of range, the list has %d groups", group+1, len(groups))
	}

	fmt.Fprintf(w, "%s (%d/%d)\n", groups[group].Label, group+1, len(groups))
	for _, e := range episodes.Slice(entries, group, size) {
		title := utils.DefaultString(e.Title, fmt.Sprintf("Episode %d", e.Number))
		sources := []string{}
		if e.PaheID() != "" {
			sources = append(sources, "pahe")
		}
		if e.ZoroID != "" {
			sources = append(sources, "zoro")
		}
		fmt.Fprintf(w, "%4d  %s [%s]\n", e.Number, title, strings.Join(sources, ","))
		fmt.Fprintf(w, "      %s\n", episodes.NewWatchID(e, animeID, name))
	}
	if len(groups) > 1 {
		fmt.Fprint(w, "\nGroups: ")
		labels := make([]string, len(groups))
		for i, g := range groups {
			labels[i] = fmt.Sprintf("%d) %d-%d", i+1, g.Start, g.End)
		}
		fmt.Fprintln(w, strings.Join(labels, "  "))
	}
	return nil
}

func printProviderStatuses(w io.Writer, ordered []providers.Provider, statuses []*providers.ProviderStatus) {
	byName := make(map[string]*providers.ProviderStatus, len(statuses))
	for _, s := range statuses {
		byName[s.ProviderName] = s
	}

	fmt.Fprintf(w, "Providers in fallback order (%d):\n\n", len(ordered))
	for i, p := range ordered {
		status := "unknown"
		if s, ok := byName[p.Name()]; ok {
			status = s.Status
			if s.LastResult != nil {
				status += fmt.Sprintf(" (%dms)", s.LastResult.Duration.Milliseconds())
			}
		}
		fmt.Fprintf(w, "%d. %s - %s\n", i+1, p.Name(), status)
	}
}

func printComments(w io.Writer, comments []backend.Comment) {
	if len(comments) == 0 {
		fmt.Fprintln(w, "No comments yet")
		return
	}
	for _, c := range comments {
		head := c.User.Name
		if age := c.Age(); age != "" {
			head += " • " + age
		}
		fmt.Fprintf(w, "%s\n  %s\n", head, c.Content)
	}
}

func printWatchlist(w io.Writer, items []backend.WatchlistItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Your watchlist is empty")
		return
	}
	for i, it := range items {
		fmt.Fprintf(w, "%3d. %s [%d]\n", i+1, it.Title(), it.AnimeID)
		if it.JapaneseTitle != "" && it.JapaneseTitle != it.Title() {
			fmt.Fprintf(w, "     %s\n", it.JapaneseTitle)
		}
	}
}

func printContinue(w io.Writer, items []backend.ContinueItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Nothing to continue")
		return
	}
	for _, it := range items {
		fmt.Fprintf(w, "%s [%d]\n", it.Title, it.AnimeID)
		if id, err := episodes.ParseWatchID(it.EpisodeID); err == nil {
			fmt.Fprintf(w, "  episode %d: mugiwara watch --id '%s'\n", id.Episode, id)
		}
	}
}

func printHistory(w io.Writer, rows []database.History) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No history")
		return
	}
	for _, h := range rows {
		state := fmt.Sprintf("%.0f%%", h.ProgressPercent)
		if h.Completed {
			state = "completed"
		}
		fmt.Fprintf(w, "%s - Episode %d [%d] %s, %s\n", h.AnimeTitle, h.Episode, h.AnimeID, state, humanize.Time(h.WatchedAt))
	}
}
