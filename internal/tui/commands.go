package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mugiwarahub/mugiwara/internal/anilist"
	"github.com/mugiwarahub/mugiwara/internal/backend"
	"github.com/mugiwarahub/mugiwara/internal/episodes"
	"github.com/mugiwarahub/mugiwara/internal/providers/utils"
	"github.com/mugiwarahub/mugiwara/internal/tui/components/cardlist"
)

const continueLimit = 10

func cardItem(c anilist.Card) cardlist.Item {
	parts := []string{"★ " + c.RatingLabel(), c.EpisodesLabel("?") + " eps"}
	if c.Year > 0 {
		parts = append(parts, fmt.Sprint(c.Year))
	}
	if len(c.Genres) > 0 {
		parts = append(parts, strings.Join(c.Genres, ", "))
	}
	return cardlist.Item{ID: c.ID, Title: c.Title, Subtitle: strings.Join(parts, " • ")}
}

func cardItems(cards []anilist.Card) []cardlist.Item {
	items := make([]cardlist.Item, 0, len(cards))
	for _, c := range cards {
		items = append(items, cardItem(c))
	}
	return items
}

// continueItem shows the resume point parsed from the stored WatchID
func continueItem(animeID int, title, watchID string) cardlist.Item {
	sub := "Resume"
	if w, err := episodes.ParseWatchID(watchID); err == nil {
		sub = fmt.Sprintf("Resume episode %d", w.Episode)
	}
	return cardlist.Item{ID: animeID, Title: title, Subtitle: sub, Payload: watchID}
}

func (m *Model) loggedIn() bool {
	return m.deps.Auth != nil && m.deps.Auth.LoggedIn()
}

func (m *Model) loadHome() tea.Cmd {
	ctx := m.ctx
	deps := m.deps
	loggedIn := m.loggedIn()

	return func() tea.Msg {
		var sections []homeSection
		var failures []error

		feed := func(title string, fetch func(context.Context) ([]anilist.Card, error)) {
			cards, err := fetch(ctx)
			if err != nil {
				deps.Logger.Error("failed to load home feed", "feed", title, "error", err)
				failures = append(failures, err)
			}
			sections = append(sections, homeSection{title: title, items: cardItems(cards)})
		}

		feed("Featured", deps.Catalog.Featured)
		sections = append(sections, homeSection{title: "Continue Watching", items: continueItems(ctx, deps, loggedIn)})
		feed("Airing Now", deps.Catalog.Airing)
		feed("Recommended", deps.Catalog.Recommended)
		feed("Movies", deps.Catalog.Movies)

		if loggedIn && deps.Account != nil {
			var items []cardlist.Item
			for _, w := range deps.Account.HomeWatchlist(ctx) {
				items = append(items, cardlist.Item{ID: int(w.AnimeID), Title: w.Title(), Subtitle: w.Synopsis})
			}
			sections = append(sections, homeSection{title: "Watchlist", items: items})
		}

		// Only give up when no feed loaded at all
		if len(failures) == 4 {
			return homeLoadedMsg{err: errors.Join(failures...)}
		}
		return homeLoadedMsg{sections: sections}
	}
}

func continueItems(ctx context.Context, deps Deps, loggedIn bool) []cardlist.Item {
	var items []cardlist.Item

	if loggedIn && deps.Account != nil {
		remote, err := deps.Account.ContinueWatching(ctx)
		if err == nil {
			for _, c := range remote {
				items = append(items, continueItem(int(c.AnimeID), c.Title, c.EpisodeID))
			}
			return items
		}
		deps.Logger.Warn("continue watching unavailable, using local history", "error", err)
	}

	if deps.History == nil {
		return nil
	}
	recent, err := deps.History.Recent(continueLimit)
	if err != nil {
		deps.Logger.Error("failed to read local history", "error", err)
		return nil
	}
	for _, h := range recent {
		items = append(items, continueItem(h.AnimeID, h.AnimeTitle, h.WatchID))
	}
	return items
}

func (m *Model) loadSearch(query string, page int) tea.Cmd {
	ctx, catalog := m.ctx, m.deps.Catalog
	return func() tea.Msg {
		res, err := catalog.Search(ctx, query, page)
		return pageLoadedMsg{target: viewSearch, key: query, page: res, append: page > 1, err: err}
	}
}

func (m *Model) loadGenre(genre string, page int) tea.Cmd {
	ctx, catalog := m.ctx, m.deps.Catalog
	return func() tea.Msg {
		res, err := catalog.ByGenre(ctx, genre, page)
		return pageLoadedMsg{target: viewGenre, key: genre, page: res, append: page > 1, err: err}
	}
}

// loadDetails fetches the info page and, for logged in users, the watchlist
// state. Opening details while logged in also saves the title and image used
// for continue watching.
func (m *Model) loadDetails(id int) tea.Cmd {
	ctx, deps := m.ctx, m.deps
	loggedIn := m.loggedIn()

	return func() tea.Msg {
		details, err := deps.Info.Details(ctx, id)
		if err != nil {
			return detailsLoadedMsg{id: id, err: err}
		}

		msg := detailsLoadedMsg{id: id, details: details}
		if !loggedIn {
			return msg
		}

		if deps.Details != nil {
			if _, err := deps.Details.SaveDetails(id, details.Info.Title.Preferred(), details.Info.Image); err != nil {
				deps.Logger.Warn("failed to save anime details", "anime_id", id, "error", err)
			}
		}
		if deps.Account != nil {
			in, err := deps.Account.InWatchlist(ctx, id)
			if err != nil {
				deps.Logger.Warn("watchlist check failed", "anime_id", id, "error", err)
			}
			msg.inWatchlist = in
		}
		return msg
	}
}

func (m *Model) loadEpisodes(id int) tea.Cmd {
	ctx, loader := m.ctx, m.deps.Episodes
	return func() tea.Msg {
		if loader == nil {
			return episodesLoadedMsg{id: id}
		}
		entries, err := loader.Load(ctx, id)
		return episodesLoadedMsg{id: id, entries: entries, err: err}
	}
}

func (m *Model) loadComments(id int) tea.Cmd {
	ctx, account := m.ctx, m.deps.Account
	return func() tea.Msg {
		if account == nil {
			return commentsLoadedMsg{id: id}
		}
		comments, err := account.Comments(ctx, id)
		return commentsLoadedMsg{id: id, comments: comments, err: err}
	}
}

func (m *Model) postComment(id int, text string) tea.Cmd {
	ctx, account := m.ctx, m.deps.Account
	return func() tea.Msg {
		comments, err := account.AddComment(ctx, id, text)
		return commentsLoadedMsg{id: id, comments: comments, err: err}
	}
}

func (m *Model) toggleWatchlist(item backend.WatchlistItem) tea.Cmd {
	ctx, account := m.ctx, m.deps.Account
	return func() tea.Msg {
		added, err := account.ToggleWatchlist(ctx, item)
		return watchlistToggledMsg{added: added, err: err}
	}
}

func (m *Model) loadProfile() tea.Cmd {
	ctx, deps := m.ctx, m.deps
	return func() tea.Msg {
		msg := profileLoadedMsg{}
		if deps.History != nil {
			stats, err := deps.History.GetStats()
			if err != nil {
				deps.Logger.Warn("failed to read history stats", "error", err)
			}
			msg.stats = stats
		}
		if deps.Account == nil {
			return msg
		}
		msg.profile, msg.err = deps.Account.Me(ctx)
		return msg
	}
}

func (m *Model) watch(id episodes.WatchID) tea.Cmd {
	ctx, watch := m.ctx, m.deps.Watch
	return func() tea.Msg {
		if watch == nil {
			return playbackDoneMsg{title: id.Title(), err: errors.New("playback is not configured")}
		}
		return playbackDoneMsg{title: id.Title(), err: watch(ctx, id)}
	}
}

func synopsis(text string, n int) string {
	return utils.CardSynopsis(text, n)
}
