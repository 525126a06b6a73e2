package tui

import (
	"github.com/mugiwarahub/mugiwara/internal/anilist"
	"github.com/mugiwarahub/mugiwara/internal/backend"
	"github.com/mugiwarahub/mugiwara/internal/episodes"
	"github.com/mugiwarahub/mugiwara/internal/history"
	"github.com/mugiwarahub/mugiwara/internal/providers/api"
	"github.com/mugiwarahub/mugiwara/internal/tui/components/cardlist"
)

type homeSection struct {
	title string
	items []cardlist.Item
}

type homeLoadedMsg struct {
	sections []homeSection
	err      error
}

type pageLoadedMsg struct {
	target view
	key    string
	page   *anilist.Page
	append bool
	err    error
}

type detailsLoadedMsg struct {
	id          int
	details     *api.AnimeDetails
	inWatchlist bool
	err         error
}

type episodesLoadedMsg struct {
	id      int
	entries []episodes.Entry
	err     error
}

type commentsLoadedMsg struct {
	id       int
	comments []backend.Comment
	err      error
}

type watchlistToggledMsg struct {
	added bool
	err   error
}

type profileLoadedMsg struct {
	profile *backend.Profile
	stats   *history.Stats
	err     error
}

type playbackDoneMsg struct {
	title string
	err   error
}
