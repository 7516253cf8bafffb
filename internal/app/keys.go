package app

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the normal mode bindings
type keyMap struct {
	Down       key.Binding
	Up         key.Binding
	Left       key.Binding
	Right      key.Binding
	Top        key.Binding
	Bottom     key.Binding
	HalfDown   key.Binding
	HalfUp     key.Binding
	Edit       key.Binding
	Expand     key.Binding
	Toggle     key.Binding
	Detail     key.Binding
	Delete     key.Binding
	Search     key.Binding
	Filter     key.Binding
	SortColumn key.Binding
	SortMenu   key.Binding
	Clear      key.Binding
	Refresh    key.Binding
	Projects   key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Left:       key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h", "previous column")),
		Right:      key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l", "next column")),
		Top:        key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first row")),
		Bottom:     key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last row")),
		HalfDown:   key.NewBinding(key.WithKeys("ctrl+d", "pgdown"), key.WithHelp("ctrl+d", "half page down")),
		HalfUp:     key.NewBinding(key.WithKeys("ctrl+u", "pgup"), key.WithHelp("ctrl+u", "half page up")),
		Edit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit cell")),
		Expand:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "expand")),
		Toggle:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle status")),
		Detail:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "details")),
		Delete:     key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filter:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		SortColumn: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
		SortMenu:   key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "sort menu")),
		Clear:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Projects:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "projects")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}
