package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Next      key.Binding
	Prev      key.Binding
	First     key.Binding
	Last      key.Binding
	Page      key.Binding
	Search    key.Binding
	Column    key.Binding
	Sort      key.Binding
	ClearSort key.Binding
	Toggle    key.Binding
	ToggleAll key.Binding
	Clear     key.Binding
	Open      key.Binding
	Action    key.Binding
	NextAct   key.Binding
	Help      key.Binding
	Quit      key.Binding

	// Search mode.
	Accept key.Binding
	Cancel key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Next:      key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("→/n", "next page")),
		Prev:      key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("←/p", "prev page")),
		First:     key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first page")),
		Last:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last page")),
		Page:      key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "go to page")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Column:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "sort column")),
		Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		ClearSort: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "clear sort")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "select")),
		ToggleAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select page")),
		Clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear selection")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open row")),
		Action:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "run action")),
		NextAct:   key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "next action")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Accept:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "done")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Next, k.Prev, k.Sort, k.Toggle, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open},
		{k.Next, k.Prev, k.First, k.Last, k.Page},
		{k.Search, k.Column, k.Sort, k.ClearSort},
		{k.Toggle, k.ToggleAll, k.Clear, k.Action, k.NextAct},
		{k.Help, k.Quit},
	}
}

type searchKeyMap struct {
	keyMap
}

func (k searchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Accept, k.Cancel}
}

func (k searchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Accept, k.Cancel}}
}
