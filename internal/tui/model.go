package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mugiwarahub/mugiwara/internal/anilist"
	"github.com/mugiwarahub/mugiwara/internal/backend"
	"github.com/mugiwarahub/mugiwara/internal/config"
	"github.com/mugiwarahub/mugiwara/internal/episodes"
	"github.com/mugiwarahub/mugiwara/internal/history"
	"github.com/mugiwarahub/mugiwara/internal/providers/api"
	"github.com/mugiwarahub/mugiwara/internal/tui/components/cardlist"
	"github.com/mugiwarahub/mugiwara/internal/tui/styles"
	"github.com/mugiwarahub/mugiwara/pkg/types"
)

type view int

const (
	viewHome view = iota
	viewSearch
	viewGenres
	viewGenre
	viewDetails
	viewProfile
)

type detailsFocus int

const (
	focusEpisodes detailsFocus = iota
	focusComments
)

// Model is the root bubbletea model
type Model struct {
	ctx  context.Context
	deps Deps
	keys keyMap

	width  int
	height int

	view    view
	history []view

	spinner spinner.Model
	loading bool
	err     error
	retry   tea.Cmd
	status  string

	// home
	sections []homeSection
	section  int
	homeList cardlist.Model

	// search
	searchInput textinput.Model
	query       string
	searchPage  int
	searchList  cardlist.Model

	// genre browse
	genreList  cardlist.Model
	genre      string
	genrePage  int
	genreItems cardlist.Model

	// details
	detailsID       int
	details         *api.AnimeDetails
	inWatchlist     bool
	entries         []episodes.Entry
	episodesErr     error
	episodesLoading bool
	group           int
	episodeCursor   int
	comments        []backend.Comment
	commentsErr     error
	commentInput    textinput.Model
	focus           detailsFocus

	// profile
	profile *backend.Profile
	stats   *history.Stats
}

// New builds the model. Missing optional dependencies disable the features
// that need them.
func New(ctx context.Context, deps Deps) *Model {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Config == nil {
		deps.Config = config.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	search := textinput.New()
	search.Placeholder = "Search anime..."
	search.CharLimit = 100

	comment := textinput.New()
	comment.Placeholder = "Write a comment..."
	comment.CharLimit = 500

	genreList := cardlist.New("No genres")
	var genreItems []cardlist.Item
	for i, g := range anilist.Genres() {
		genreItems = append(genreItems, cardlist.Item{ID: i, Title: g.Name, Subtitle: "Browse " + g.Name + " anime"})
	}
	genreList.SetItems(genreItems, false)

	return &Model{
		ctx:          ctx,
		deps:         deps,
		keys:         defaultKeyMap(),
		width:        80,
		height:       24,
		spinner:      sp,
		homeList:     cardlist.New("Nothing here yet"),
		searchInput:  search,
		searchList:   cardlist.New("No results"),
		genreList:    genreList,
		genreItems:   cardlist.New("No anime in this genre"),
		commentInput: comment,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.start(m.loadHome())
}

// start shows the spinner and runs cmd, remembering it for retry
func (m *Model) start(cmd tea.Cmd) tea.Cmd {
	m.loading = true
	m.err = nil
	m.retry = cmd
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m *Model) fail(err error) {
	m.loading = false
	m.err = err
	m.deps.Logger.Error("tui request failed", "view", m.view, "error", err)
}

func (m *Model) done() {
	m.loading = false
	m.err = nil
	m.retry = nil
}

func (m *Model) navigate(v view) {
	if m.view != v {
		m.history = append(m.history, m.view)
	}
	m.view = v
	m.err = nil
	m.status = ""
}

func (m *Model) back() {
	if len(m.history) == 0 {
		return
	}
	m.view = m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	m.err = nil
	m.loading = false
	m.status = ""
}

func (m *Model) resize() {
	listHeight := max(m.height-10, 4)
	for _, l := range []*cardlist.Model{&m.homeList, &m.searchList, &m.genreList, &m.genreItems} {
		l.SetSize(m.width-4, listHeight)
	}
	m.searchInput.Width = max(m.width-10, 10)
	m.commentInput.Width = max(m.width-10, 10)
}

// currentListFiltered reports whether esc should clear a filter instead of going back
func (m *Model) currentListFiltered() bool {
	switch m.view {
	case viewHome:
		return m.homeList.FilterActive()
	case viewSearch:
		return m.searchList.FilterActive()
	case viewGenres:
		return m.genreList.FilterActive()
	case viewGenre:
		return m.genreItems.FilterActive()
	}
	return false
}

// typing reports whether keys go to a text input
func (m *Model) typing() bool {
	switch m.view {
	case viewSearch:
		return m.searchInput.Focused() || m.searchList.Filtering()
	case viewDetails:
		return m.commentInput.Focused()
	case viewHome:
		return m.homeList.Filtering()
	case viewGenres:
		return m.genreList.Filtering()
	case viewGenre:
		return m.genreItems.Filtering()
	}
	return false
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.episodesLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case homeLoadedMsg:
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.done()
		m.sections = msg.sections
		m.section = min(m.section, max(len(m.sections)-1, 0))
		m.showSection()
		return m, nil

	case pageLoadedMsg:
		return m, m.handlePage(msg)

	case detailsLoadedMsg:
		if msg.id != m.detailsID {
			return m, nil
		}
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.done()
		m.details = msg.details
		m.inWatchlist = msg.inWatchlist
		return m, nil

	case episodesLoadedMsg:
		if msg.id != m.detailsID {
			return m, nil
		}
		m.episodesLoading = false
		m.entries, m.episodesErr = msg.entries, msg.err
		if msg.err == nil && len(msg.entries) == 0 {
			m.episodesErr = types.ErrNoEpisodes
		}
		return m, nil

	case commentsLoadedMsg:
		if msg.id != m.detailsID {
			return m, nil
		}
		m.commentsErr = msg.err
		if msg.err == nil {
			m.comments = msg.comments
		}
		return m, nil

	case watchlistToggledMsg:
		if msg.err != nil {
			m.status = styles.ErrorStyle.Render(msg.err.Error())
			return m, nil
		}
		m.inWatchlist = msg.added
		if msg.added {
			m.status = styles.SuccessStyle.Render("Added to watchlist")
		} else {
			m.status = styles.SuccessStyle.Render("Removed from watchlist")
		}
		return m, nil

	case profileLoadedMsg:
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.done()
		m.profile, m.stats = msg.profile, msg.stats
		return m, nil

	case playbackDoneMsg:
		if msg.err != nil {
			m.status = styles.ErrorStyle.Render(msg.err.Error())
		} else {
			m.status = styles.SuccessStyle.Render("Finished " + msg.title)
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handlePage(msg pageLoadedMsg) tea.Cmd {
	var list *cardlist.Model
	switch msg.target {
	case viewSearch:
		if msg.key != m.query {
			return nil
		}
		list = &m.searchList
	case viewGenre:
		if msg.key != m.genre {
			return nil
		}
		list = &m.genreItems
	default:
		return nil
	}

	if msg.err != nil {
		m.fail(msg.err)
		return nil
	}
	m.done()

	if msg.page == nil {
		list.SetItems(nil, false)
		return nil
	}
	items := cardItems(msg.page.Items)
	if msg.append {
		list.AppendItems(items, msg.page.HasNextPage)
	} else {
		list.SetItems(items, msg.page.HasNextPage)
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	if m.typing() {
		return m.handleTyping(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit) && m.view == viewHome:
		return tea.Quit
	case key.Matches(msg, m.keys.Retry) && m.err != nil && m.retry != nil:
		return m.start(m.retry)
	case key.Matches(msg, m.keys.Back) && !m.currentListFiltered():
		m.back()
		return nil
	case key.Matches(msg, m.keys.Home) && m.view != viewHome:
		m.history = nil
		m.view = viewHome
		m.err = nil
		return nil
	case key.Matches(msg, m.keys.Search) && m.view != viewSearch:
		m.navigate(viewSearch)
		m.searchInput.Focus()
		return textinput.Blink
	case key.Matches(msg, m.keys.Genres) && m.view != viewGenres:
		m.navigate(viewGenres)
		return nil
	case key.Matches(msg, m.keys.Profile) && m.view != viewProfile:
		if !m.loggedIn() {
			m.status = styles.ErrorStyle.Render(types.ErrNotAuthenticated.Error() + ", run `mugiwara login`")
			return nil
		}
		m.navigate(viewProfile)
		return m.start(m.loadProfile())
	}

	switch m.view {
	case viewHome:
		return m.updateHome(msg)
	case viewSearch:
		return m.updateSearch(msg)
	case viewGenres:
		return m.updateGenres(msg)
	case viewGenre:
		return m.updateGenre(msg)
	case viewDetails:
		return m.updateDetails(msg)
	}
	return nil
}

func (m *Model) handleTyping(msg tea.KeyMsg) tea.Cmd {
	switch m.view {
	case viewSearch:
		if m.searchInput.Focused() {
			switch msg.Type {
			case tea.KeyEsc:
				m.searchInput.Blur()
				if m.query == "" {
					m.back()
				}
				return nil
			case tea.KeyEnter:
				q := strings.TrimSpace(m.searchInput.Value())
				if q == "" {
					return nil
				}
				m.searchInput.Blur()
				m.query, m.searchPage = q, 1
				return m.start(m.loadSearch(q, 1))
			}
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			return cmd
		}
		var cmd tea.Cmd
		m.searchList, cmd = m.searchList.Update(msg)
		return cmd

	case viewDetails:
		switch msg.Type {
		case tea.KeyEsc:
			m.commentInput.Blur()
			return nil
		case tea.KeyEnter:
			text := strings.TrimSpace(m.commentInput.Value())
			if text == "" {
				m.status = styles.ErrorStyle.Render(backend.ErrEmptyComment.Error())
				return nil
			}
			m.commentInput.Blur()
			m.commentInput.SetValue("")
			return m.postComment(m.detailsID, text)
		}
		var cmd tea.Cmd
		m.commentInput, cmd = m.commentInput.Update(msg)
		return cmd
	}

	var cmd tea.Cmd
	switch m.view {
	case viewHome:
		m.homeList, cmd = m.homeList.Update(msg)
	case viewGenres:
		m.genreList, cmd = m.genreList.Update(msg)
	case viewGenre:
		m.genreItems, cmd = m.genreItems.Update(msg)
	}
	return cmd
}

// openDetails switches to the details view of id and loads it
func (m *Model) openDetails(id int) tea.Cmd {
	m.navigate(viewDetails)
	m.detailsID = id
	m.details = nil
	m.inWatchlist = false
	m.entries, m.episodesErr = nil, nil
	m.comments, m.commentsErr = nil, nil
	m.group, m.episodeCursor = 0, 0
	m.focus = focusEpisodes
	m.episodesLoading = true

	return tea.Batch(
		m.start(m.loadDetails(id)),
		m.loadEpisodes(id),
		m.loadComments(id),
	)
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("mugiwara") + " " + styles.SubtitleStyle.Render(m.viewTitle()) + "\n\n")

	switch {
	case m.err != nil:
		b.WriteString(m.errorView())
	case m.loading:
		b.WriteString(m.spinner.View() + " Loading...")
	default:
		b.WriteString(m.body())
	}

	if m.status != "" {
		b.WriteString("\n\n" + m.status)
	}
	b.WriteString("\n\n" + styles.HelpStyle.Render(m.footer()))

	return styles.AppStyle.Render(b.String())
}

func (m *Model) viewTitle() string {
	switch m.view {
	case viewSearch:
		return "Search"
	case viewGenres:
		return "Genres"
	case viewGenre:
		return m.genre
	case viewDetails:
		if m.details != nil {
			return m.details.Info.Title.Preferred()
		}
		return "Details"
	case viewProfile:
		return "Profile"
	}
	return "Home"
}

func (m *Model) errorView() string {
	msg := m.err.Error()
	switch {
	case errors.Is(m.err, types.ErrSessionExpired):
		msg = types.ErrSessionExpired.Error()
	case errors.Is(m.err, types.ErrNotAuthenticated):
		msg = "You are not logged in. Run `mugiwara login` first."
	}
	out := styles.ErrorStyle.Render("Error: ") + msg
	if m.retry != nil {
		out += "\n\n" + styles.HelpStyle.Render(help(m.keys.Retry))
	}
	return out
}

func (m *Model) body() string {
	switch m.view {
	case viewSearch:
		return m.searchView()
	case viewGenres:
		return m.genreList.View()
	case viewGenre:
		return m.genreItems.View()
	case viewDetails:
		return m.detailsView()
	case viewProfile:
		return m.profileView()
	}
	return m.homeView()
}

func (m *Model) footer() string {
	common := []key.Binding{m.keys.Search, m.keys.Genres, m.keys.Profile, m.keys.Home, m.keys.Back, m.keys.Quit}
	switch m.view {
	case viewHome:
		return help(append([]key.Binding{m.keys.NextSection, m.keys.Select}, common...)...) + " • / filter"
	case viewDetails:
		return help(append([]key.Binding{m.keys.Select, m.keys.PrevGroup, m.keys.NextGroup, m.keys.Watchlist, m.keys.Comment, m.keys.NextSection}, common...)...)
	}
	return help(append([]key.Binding{m.keys.Select}, common...)...) + " • / filter"
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
