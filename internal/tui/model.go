// Package tui is the interactive task list: a name prompt, the searchable
// list with inline edit, and an add screen. Every change is written through
// the repository and followed by a fresh read; the model keeps no cache.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/maloquacious/todo/internal/store"
)

type screen int

const (
	screenName screen = iota
	screenList
	screenAdd
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Done   key.Binding
	Search key.Binding
	Back   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Add:    key.NewBinding(key.WithKeys("a", "+"), key.WithHelp("a", "add")),
	Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete: key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
	Done:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "done")),
	Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is the bubbletea model for the task list.
type Model struct {
	ctx  context.Context
	repo store.ItemRepository

	screen screen
	name   string

	nameInput textinput.Model
	search    textinput.Model
	editor    textinput.Model // shared by add and inline edit
	searching bool

	items  []store.Item
	cursor int

	editing bool
	editID  int64

	status    string
	statusErr bool

	width int
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// New builds the model. A non-empty name skips the name screen.
func New(ctx context.Context, repo store.ItemRepository, name string) Model {
	m := Model{
		ctx:       ctx,
		repo:      repo,
		nameInput: newInput("Enter your name"),
		search:    newInput("Search"),
		editor:    newInput("Input your task"),
		width:     80,
	}
	m.search.Prompt = "/ "
	if name != "" {
		m.name = name
		m.screen = screenList
	} else {
		m.nameInput.Focus()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.screen == screenList {
		return m.refetch()
	}
	return nil
}

func (m Model) refetch() tea.Cmd {
	return fetchCmd(m.ctx, m.repo, m.search.Value())
}

func (m Model) selected() (store.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return store.Item{}, false
	}
	return m.items[m.cursor], true
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case itemsLoadedMsg:
		// a newer read for the current filter is on its way
		if msg.filter != m.search.Value() {
			return m, nil
		}
		m.items = msg.items
		if m.cursor >= len(m.items) {
			m.cursor = len(m.items) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case mutatedMsg:
		if !msg.found {
			m.setStatus(fmt.Sprintf("item %d not found", msg.id), true)
		} else {
			m.setStatus(fmt.Sprintf("%s: item %d", msg.op, msg.id), false)
		}
		if msg.op == opCreate {
			m.screen = screenList
			m.editor.Blur()
			m.editor.SetValue("")
		}
		return m, m.refetch()

	case errMsg:
		m.setStatus(fmt.Sprintf("%s failed: %v", msg.op, msg.err), true)
		return m, nil

	case tea.KeyMsg:
		switch m.screen {
		case screenName:
			return m.updateName(msg)
		case screenAdd:
			return m.updateAdd(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) updateName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		name, err := store.NormalizeValue(m.nameInput.Value())
		if err != nil {
			m.setStatus("Please enter your name", true)
			return m, nil
		}
		m.name = name
		m.screen = screenList
		m.nameInput.Blur()
		m.setStatus("", false)
		return m, m.refetch()
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.screen = screenList
		m.editor.Blur()
		m.editor.SetValue("")
		m.setStatus("", false)
		return m, m.refetch()
	case "enter":
		value, err := store.NormalizeValue(m.editor.Value())
		if err != nil {
			m.setStatus("Task cannot be empty", true)
			return m, nil
		}
		return m, createCmd(m.ctx, m.repo, value)
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.editing {
		switch msg.String() {
		case "enter":
			value, err := store.NormalizeValue(m.editor.Value())
			if err != nil {
				m.setStatus("Task cannot be empty", true)
				return m, nil
			}
			id := m.editID
			m.stopEditing()
			return m, updateCmd(m.ctx, m.repo, id, value)
		case "esc":
			m.stopEditing()
			m.setStatus("", false)
			return m, nil
		}
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}

	if m.searching {
		switch msg.String() {
		case "enter", "esc":
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			return m, tea.Batch(cmd, m.refetch())
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Back):
		m.screen = screenName
		m.nameInput.Focus()
		return m, nil
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, keys.Add):
		m.screen = screenAdd
		m.editor.SetValue("")
		m.editor.Placeholder = "Input your task"
		m.setStatus("", false)
		return m, m.editor.Focus()
	case key.Matches(msg, keys.Edit):
		if it, ok := m.selected(); ok {
			m.editing = true
			m.editID = it.ID
			m.editor.SetValue(it.Value)
			m.editor.CursorEnd()
			m.editor.Placeholder = "Edit task"
			m.setStatus("", false)
			return m, m.editor.Focus()
		}
	case key.Matches(msg, keys.Delete):
		if it, ok := m.selected(); ok {
			return m, deleteCmd(m.ctx, m.repo, it.ID)
		}
	case key.Matches(msg, keys.Done):
		if it, ok := m.selected(); ok {
			return m, doneCmd(m.ctx, m.repo, it.ID)
		}
	}
	return m, nil
}

func (m *Model) stopEditing() {
	m.editing = false
	m.editID = 0
	m.editor.Blur()
	m.editor.SetValue("")
}

// Run starts the interactive program and blocks until the user quits.
func Run(ctx context.Context, repo store.ItemRepository, name string) error {
	p := tea.NewProgram(New(ctx, repo, name), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
