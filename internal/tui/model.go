// Package tui is an interactive terminal browser for a table, built on
// bubbletea. Every key press becomes a table intent or outbound call; the
// screen is redrawn from table.View.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/datatable/internal/render"
	"github.com/roach88/datatable/internal/table"
)

// Model is the bubbletea model for browsing one table.
type Model struct {
	table  *table.Table
	keys   keyMap
	help   help.Model
	search textinput.Model
	styles render.Styles

	searching bool
	cursor    int
	column    int // index into sortable keys
	action    int // index into offered actions
	status    string
	quitting  bool
}

// Option configures a Model.
type Option func(*Model)

// WithStyles sets the table styles. Default: render.DefaultStyles.
func WithStyles(s render.Styles) Option {
	return func(m *Model) {
		m.styles = s
	}
}

// New creates a Model over t.
func New(t *table.Table, opts ...Option) Model {
	in := textinput.New()
	in.Prompt = "/ "
	in.Placeholder = "search"

	m := Model{
		table:  t,
		keys:   newKeyMap(),
		help:   help.New(),
		search: in,
		styles: render.DefaultStyles(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(t *table.Table, opts ...Option) error {
	_, err := tea.NewProgram(New(t, opts...), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Cursor returns the highlighted index on the visible page.
func (m Model) Cursor() int { return m.cursor }

// Status returns the last status message.
func (m Model) Status() string { return m.status }

// Searching reports whether the search input has focus.
func (m Model) Searching() bool { return m.searching }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Accept):
		m.searching = false
		m.search.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.table.Dispatch(table.SetSearch{Text: ""})
		m.clampCursor()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if eff := m.table.Dispatch(table.SetSearch{Text: m.search.Value()}); eff.Changed {
		m.cursor = 0
	}
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	v := m.table.View()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Search):
		if !v.Searchable {
			m.status = "search is disabled"
			return m, nil
		}
		m.searching = true
		m.search.SetValue(v.Search)
		m.search.CursorEnd()
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Cancel):
		if v.Search != "" {
			m.search.SetValue("")
			m.table.Dispatch(table.SetSearch{Text: ""})
		}

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(v.Rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Next):
		m.page(table.NextPage{})
	case key.Matches(msg, m.keys.Prev):
		m.page(table.PrevPage{})
	case key.Matches(msg, m.keys.First):
		m.page(table.FirstPage{})
	case key.Matches(msg, m.keys.Last):
		m.page(table.LastPage{})
	case key.Matches(msg, m.keys.Page):
		m.page(table.GoToPage{Page: int(msg.Runes[0] - '0')})

	case key.Matches(msg, m.keys.Column):
		if keys := m.table.Columns().SortableKeys(); len(keys) > 0 {
			m.column = (m.column + 1) % len(keys)
			m.status = "sort column: " + keys[m.column]
		}
	case key.Matches(msg, m.keys.Sort):
		keys := m.table.Columns().SortableKeys()
		if len(keys) == 0 {
			m.status = "no sortable columns"
			return m, nil
		}
		m.table.Dispatch(table.SortBy{Key: keys[m.column%len(keys)]})
	case key.Matches(msg, m.keys.ClearSort):
		m.table.Dispatch(table.ClearSort{})

	case key.Matches(msg, m.keys.Toggle):
		if !v.Selectable {
			m.status = "selection is disabled"
			return m, nil
		}
		if len(v.Rows) > 0 {
			if _, err := m.table.ToggleVisibleRow(m.cursor); err != nil {
				m.status = err.Error()
			}
		}
	case key.Matches(msg, m.keys.ToggleAll):
		if !v.Selectable {
			m.status = "selection is disabled"
			return m, nil
		}
		m.table.Dispatch(table.ToggleAllVisible{Checked: !v.AllSelected})
	case key.Matches(msg, m.keys.Clear):
		m.table.Dispatch(table.ClearSelection{})

	case key.Matches(msg, m.keys.Open):
		if len(v.Rows) > 0 {
			if err := m.table.ClickRow(m.cursor); err != nil {
				m.status = err.Error()
			}
		}
	case key.Matches(msg, m.keys.NextAct):
		if len(v.Actions) > 0 {
			m.action = (m.action + 1) % len(v.Actions)
			m.status = "action: " + v.Actions[m.action]
		}
	case key.Matches(msg, m.keys.Action):
		m.runAction(v)
	}

	m.clampCursor()
	return m, nil
}

func (m *Model) page(in table.Intent) {
	if eff := m.table.Dispatch(in); eff.Changed {
		m.cursor = 0
	}
}

func (m *Model) runAction(v table.View) {
	if len(v.Actions) == 0 {
		m.status = "select rows to run an action"
		return
	}
	label := v.Actions[m.action%len(v.Actions)]
	if err := m.table.RunAction(label); err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("%s: %d rows", label, len(v.SelectedIDs))
}

func (m *Model) clampCursor() {
	n := len(m.table.View().Rows)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	if m.searching {
		b.WriteString(m.search.View())
		b.WriteString("\n\n")
	}

	v := m.table.View()
	b.WriteString(render.Text(v, render.WithStyles(m.styles), render.WithCursor(m.cursor)))

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.searching {
		b.WriteString(m.help.View(searchKeyMap{m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}
