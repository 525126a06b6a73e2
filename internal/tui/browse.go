package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mugiwarahub/mugiwara/internal/tui/styles"
)

func itoa(n int) string { return strconv.Itoa(n) }

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.String() == "i":
		m.searchInput.Focus()
		return textinput.Blink
	case key.Matches(msg, m.keys.Select):
		if m.searchList.LoadMoreSelected() {
			m.searchPage++
			return m.start(m.loadSearch(m.query, m.searchPage))
		}
		if item, ok := m.searchList.Selected(); ok {
			return m.openDetails(item.ID)
		}
		return nil
	}

	var cmd tea.Cmd
	m.searchList, cmd = m.searchList.Update(msg)
	return cmd
}

func (m *Model) searchView() string {
	out := m.searchInput.View()
	if m.query == "" {
		return out + "\n\n" + styles.HelpStyle.Render("Type a title and press enter")
	}
	return out + "\n\n" + styles.SubtitleStyle.Render("Results for "+strconv.Quote(m.query)) + "\n\n" +
		m.searchList.View() + "\n\n" + styles.HelpStyle.Render("i edit query")
}

func (m *Model) updateGenres(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Select) {
		item, ok := m.genreList.Selected()
		if !ok {
			return nil
		}
		m.navigate(viewGenre)
		m.genre, m.genrePage = item.Title, 1
		m.genreItems.SetItems(nil, false)
		return m.start(m.loadGenre(item.Title, 1))
	}

	var cmd tea.Cmd
	m.genreList, cmd = m.genreList.Update(msg)
	return cmd
}

func (m *Model) updateGenre(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Select) {
		if m.genreItems.LoadMoreSelected() {
			m.genrePage++
			return m.start(m.loadGenre(m.genre, m.genrePage))
		}
		if item, ok := m.genreItems.Selected(); ok {
			return m.openDetails(item.ID)
		}
		return nil
	}

	var cmd tea.Cmd
	m.genreItems, cmd = m.genreItems.Update(msg)
	return cmd
}
