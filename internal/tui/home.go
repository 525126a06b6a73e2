package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mugiwarahub/mugiwara/internal/episodes"
	"github.com/mugiwarahub/mugiwara/internal/tui/styles"
)

// showSection loads the selected home section into the list
func (m *Model) showSection() {
	if len(m.sections) == 0 {
		m.homeList.SetItems(nil, false)
		return
	}
	m.homeList.SetItems(m.sections[m.section].items, false)
}

func (m *Model) updateHome(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.NextSection) && len(m.sections) > 0:
		m.section = (m.section + 1) % len(m.sections)
		m.showSection()
		return nil
	case key.Matches(msg, m.keys.PrevSection) && len(m.sections) > 0:
		m.section = (m.section - 1 + len(m.sections)) % len(m.sections)
		m.showSection()
		return nil
	case key.Matches(msg, m.keys.Select):
		item, ok := m.homeList.Selected()
		if !ok {
			return nil
		}
		if item.Payload != "" {
			id, err := episodes.ParseWatchID(item.Payload)
			if err != nil {
				m.deps.Logger.Warn("bad continue watching entry, opening details", "watch_id", item.Payload, "error", err)
				return m.openDetails(item.ID)
			}
			m.status = styles.SubtitleStyle.Render("Starting " + id.Title() + "...")
			return m.watch(id)
		}
		return m.openDetails(item.ID)
	}

	var cmd tea.Cmd
	m.homeList, cmd = m.homeList.Update(msg)
	return cmd
}

func (m *Model) homeView() string {
	if len(m.sections) == 0 {
		return styles.HelpStyle.Render("Nothing to show")
	}

	var tabs []string
	for i, s := range m.sections {
		label := s.title
		if len(s.items) > 0 {
			label += " (" + itoa(len(s.items)) + ")"
		}
		if i == m.section {
			tabs = append(tabs, styles.SectionHeaderActiveStyle.Render(label))
		} else {
			tabs = append(tabs, styles.SectionHeaderStyle.Render(label))
		}
	}
	return strings.Join(tabs, " ") + "\n\n" + m.homeList.View()
}
