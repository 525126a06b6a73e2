// Package cardlist is a scrollable, filterable list of anime cards with an
// optional "load more" row at the end.
package cardlist

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mugiwarahub/mugiwara/internal/providers/utils"
	"github.com/mugiwarahub/mugiwara/internal/tui/common"
	"github.com/mugiwarahub/mugiwara/internal/tui/styles"
)

const loadMoreLabel = "Load more"

// Item is one row
type Item struct {
	ID       int
	Title    string
	Subtitle string
	// Payload carries view specific data, such as a WatchID to resume
	Payload string
}

type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Filter key.Binding
	Clear  key.Binding
	Apply  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom: key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Clear:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filter")),
		Apply:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply filter")),
	}
}

type Model struct {
	items   []Item
	visible []int
	cursor  int
	offset  int
	hasMore bool

	filter *common.FuzzySearch
	keys   KeyMap

	width  int
	height int
	empty  string
}

// New returns an empty list; empty is shown when there are no items
func New(empty string) Model {
	return Model{
		filter: common.NewFuzzySearch(),
		keys:   DefaultKeyMap(),
		empty:  empty,
		width:  80,
		height: 10,
	}
}

// SetItems replaces the rows and resets the cursor
func (m *Model) SetItems(items []Item, hasMore bool) {
	m.items = items
	m.hasMore = hasMore
	m.cursor, m.offset = 0, 0
	m.refilter()
}

// AppendItems adds a further page, keeping the cursor on the first new row
func (m *Model) AppendItems(items []Item, hasMore bool) {
	first := len(m.items)
	m.items = append(m.items, items...)
	m.hasMore = hasMore
	m.refilter()
	for i, idx := range m.visible {
		if idx == first {
			m.cursor = i
			break
		}
	}
	m.scroll()
}

func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, max(height, 1)
	m.filter.SetWidth(width)
	m.scroll()
}

func (m Model) Items() []Item { return m.items }

func (m Model) Len() int { return len(m.visible) }

// Filtering reports whether key presses are going to the filter input
func (m Model) Filtering() bool { return m.filter.IsEditing() }

// FilterActive reports whether a filter narrows the rows
func (m Model) FilterActive() bool { return m.filter.IsActive() }

// rows is the number of selectable rows including "load more"
func (m Model) rows() int {
	n := len(m.visible)
	if m.showLoadMore() {
		n++
	}
	return n
}

// "load more" only makes sense while the whole page is shown
func (m Model) showLoadMore() bool {
	return m.hasMore && (!m.filter.IsActive() || m.filter.Query() == "")
}

// Selected returns the item under the cursor
func (m Model) Selected() (Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return Item{}, false
	}
	return m.items[m.visible[m.cursor]], true
}

// LoadMoreSelected reports whether the cursor is on the "load more" row
func (m Model) LoadMoreSelected() bool {
	return m.showLoadMore() && m.cursor == len(m.visible)
}

func (m *Model) refilter() {
	titles := make([]string, len(m.items))
	for i, it := range m.items {
		titles[i] = it.Title
	}
	m.visible = m.filter.Filter(titles)
	if m.cursor >= m.rows() {
		m.cursor = max(m.rows()-1, 0)
	}
}

func (m *Model) scroll() {
	rows := m.pageRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

// every item takes two lines
func (m Model) pageRows() int {
	return max(m.height/2, 1)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.filter.IsEditing() {
		switch {
		case key.Matches(keyMsg, m.keys.Clear):
			m.filter.Deactivate()
		case key.Matches(keyMsg, m.keys.Apply):
			m.filter.Lock()
		default:
			cmd := m.filter.Update(msg)
			m.cursor, m.offset = 0, 0
			m.refilter()
			return m, cmd
		}
		m.refilter()
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < m.rows()-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Top):
		m.cursor = 0
	case key.Matches(keyMsg, m.keys.Bottom):
		m.cursor = max(m.rows()-1, 0)
	case key.Matches(keyMsg, m.keys.Filter):
		cmd := m.filter.Activate()
		m.refilter()
		return m, cmd
	case key.Matches(keyMsg, m.keys.Clear) && m.filter.IsActive():
		m.filter.Deactivate()
		m.refilter()
	}
	m.scroll()
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	if f := m.filter.View(); f != "" {
		b.WriteString(f + "\n\n")
	}

	if m.rows() == 0 {
		b.WriteString(styles.HelpStyle.Render(m.empty))
		return b.String()
	}

	end := min(m.offset+m.pageRows(), m.rows())
	textWidth := max(m.width-6, 10)
	for row := m.offset; row < end; row++ {
		selected := row == m.cursor

		if row == len(m.visible) {
			style := styles.ItemStyle
			if selected {
				style = styles.ItemSelectedStyle
			}
			b.WriteString(style.Render(styles.SubtitleStyle.Render(loadMoreLabel)) + "\n")
			continue
		}

		item := m.items[m.visible[row]]
		title := utils.TruncateWidth(item.Title, textWidth)
		sub := utils.TruncateWidth(item.Subtitle, textWidth)

		itemStyle, titleStyle := styles.ItemStyle, styles.ItemTitleStyle
		if selected {
			itemStyle, titleStyle = styles.ItemSelectedStyle, styles.ItemTitleSelectedStyle
		}
		b.WriteString(itemStyle.Render(titleStyle.Render(title)+"\n"+styles.MetadataStyle.Render(sub)) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
