package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit        key.Binding
	Back        key.Binding
	Select      key.Binding
	Retry       key.Binding
	Home        key.Binding
	Search      key.Binding
	Genres      key.Binding
	Profile     key.Binding
	NextSection key.Binding
	PrevSection key.Binding
	Watchlist   key.Binding
	Comment     key.Binding
	NextGroup   key.Binding
	PrevGroup   key.Binding
	Up          key.Binding
	Down        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Select:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Retry:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Home:        key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "home")),
		Search:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "search")),
		Genres:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "genres")),
		Profile:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile")),
		NextSection: key.NewBinding(key.WithKeys("tab", "l"), key.WithHelp("tab", "next")),
		PrevSection: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
		Watchlist:   key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "watchlist")),
		Comment:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comment")),
		NextGroup:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next range")),
		PrevGroup:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev range")),
		Up:          key.NewBinding(key.WithKeys("up", "k")),
		Down:        key.NewBinding(key.WithKeys("down", "j")),
	}
}

// help lists the hints shown in the footer
func help(bindings ...key.Binding) string {
	var s string
	for i, b := range bindings {
		h := b.Help()
		if i > 0 {
			s += " • "
		}
		s += h.Key + " " + h.Desc
	}
	return s
}
