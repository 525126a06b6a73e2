package common

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/mugiwarahub/mugiwara/internal/tui/styles"
)

type filterMode int

const (
	filterOff filterMode = iota
	filterEditing
	// filterApplied keeps the query while list keys navigate again
	filterApplied
)

// FuzzySearch is the "/" filter line above card lists.
type FuzzySearch struct {
	input textinput.Model
	mode  filterMode
}

func NewFuzzySearch() *FuzzySearch {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "Type to filter..."
	in.CharLimit = 200
	in.TextStyle = styles.ItemTitleStyle
	in.PlaceholderStyle = styles.MetadataStyle
	return &FuzzySearch{input: in}
}

func (f *FuzzySearch) Activate() tea.Cmd {
	f.mode = filterEditing
	f.input.Reset()
	f.input.Focus()
	return textinput.Blink
}

func (f *FuzzySearch) Deactivate() {
	f.mode = filterOff
	f.input.Reset()
	f.input.Blur()
}

// Lock ends editing and leaves the current query applied.
func (f *FuzzySearch) Lock() {
	if f.mode == filterEditing {
		f.mode = filterApplied
		f.input.Blur()
	}
}

func (f *FuzzySearch) IsActive() bool  { return f.mode != filterOff }
func (f *FuzzySearch) IsEditing() bool { return f.mode == filterEditing }

func (f *FuzzySearch) Query() string {
	if f.mode == filterOff {
		return ""
	}
	return f.input.Value()
}

func (f *FuzzySearch) Update(msg tea.Msg) tea.Cmd {
	if f.mode != filterEditing {
		return nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

func (f *FuzzySearch) SetWidth(width int) {
	f.input.Width = max(width-20, 10)
}

func (f *FuzzySearch) View() string {
	prefix := styles.MetadataStyle.Render("Filter: ") + styles.SubtitleStyle.Render("┃") + " "
	switch f.mode {
	case filterEditing:
		return prefix + f.input.View() + styles.HelpStyle.Render(" (enter to apply)")
	case filterApplied:
		return prefix + styles.ItemTitleStyle.Render(f.input.Value()) +
			styles.HelpStyle.Render(" (/ to edit • esc to clear)")
	}
	return ""
}

// Filter maps the query onto items and returns matching indices, best match
// first. An empty query keeps every item in its original order.
func (f *FuzzySearch) Filter(items []string) []int {
	query := f.Query()
	if query == "" {
		all := make([]int, len(items))
		for i := range all {
			all[i] = i
		}
		return all
	}

	var out []int
	for _, m := range fuzzy.Find(query, items) {
		out = append(out, m.Index)
	}
	return out
}
