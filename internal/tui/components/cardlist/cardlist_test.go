package cardlist

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		m, _ = m.Update(keyPress(k))
	}
	return m
}

func sample() []Item {
	return []Item{
		{ID: 1, Title: "One Piece"},
		{ID: 2, Title: "Frieren: Beyond Journey's End"},
		{ID: 3, Title: "Jujutsu Kaisen"},
	}
}

func TestNavigation(t *testing.T) {
	m := New("nothing")
	m.SetItems(sample(), false)

	m = press(m, "down", "down", "down")
	item, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, 3, item.ID)

	m = press(m, "up", "g")
	item, _ = m.Selected()
	assert.Equal(t, 1, item.ID)

	m = press(m, "G")
	item, _ = m.Selected()
	assert.Equal(t, 3, item.ID)
}

func TestLoadMore(t *testing.T) {
	m := New("nothing")
	m.SetItems(sample(), true)

	m = press(m, "G")
	assert.True(t, m.LoadMoreSelected())
	_, ok := m.Selected()
	assert.False(t, ok)

	m.AppendItems([]Item{{ID: 4, Title: "Dandadan"}}, false)
	assert.False(t, m.LoadMoreSelected())
	item, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, 4, item.ID)
	assert.Len(t, m.Items(), 4)
}

func TestFilter(t *testing.T) {
	m := New("nothing")
	m.SetItems(sample(), true)

	m = press(m, "/")
	assert.True(t, m.Filtering())
	m = press(m, "f", "r", "i")
	assert.Equal(t, 1, m.Len())

	m = press(m, "enter")
	assert.False(t, m.Filtering())
	item, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, 2, item.ID)
	assert.False(t, m.LoadMoreSelected())

	m = press(m, "esc")
	assert.Equal(t, 3, m.Len())
}

func TestEmptyView(t *testing.T) {
	m := New("No results")
	assert.Contains(t, m.View(), "No results")
	_, ok := m.Selected()
	assert.False(t, ok)
}
