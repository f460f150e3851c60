// Package ui is the interactive terminal front end, built on bubbletea.
//
// The model never holds task state of its own beyond the latest snapshot.
// Every change goes through the engine, and snapshots come back through
// Engine.Subscribe.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tasklist/internal/engine"
	"tasklist/internal/task"
	"tasklist/internal/theme"
)

// Placeholder is shown in the empty add field.
const Placeholder = "Add a new todo"

type focus int

const (
	focusInput focus = iota
	focusList
)

type (
	// loadedMsg reports that the engine finished loading.
	loadedMsg struct {
		tasks []task.Task
		err   error
	}

	// snapshotMsg carries a list published by the engine.
	snapshotMsg []task.Task
)

// Model is the bubbletea model of the task list screen.
type Model struct {
	eng     *engine.Engine
	theme   theme.Theme
	keys    keyMap
	help    help.Model
	input   textinput.Model
	updates *feed

	tasks   []task.Task
	cursor  int
	focus   focus
	detail  int // id of the task in the detail view, 0 when none
	loading bool
	status  string
	width   int
}

// New returns a model for eng drawn with th. It subscribes to eng; call
// Close when done with the model.
func New(eng *engine.Engine, th theme.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = Placeholder
	ti.CharLimit = task.MaxTitleLen
	ti.Width = task.MaxTitleLen + 2
	ti.Focus()

	f := newFeed()
	f.stop = eng.Subscribe(f.push)

	return Model{
		eng:     eng,
		theme:   th,
		keys:    newKeyMap(),
		help:    help.New(),
		input:   ti,
		updates: f,
		loading: true,
	}
}

// Close unsubscribes the model from the engine.
func (m Model) Close() {
	m.updates.close()
}

// Init starts loading and listening for snapshots.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.load(), m.updates.wait())
}

func (m Model) load() tea.Cmd {
	eng := m.eng
	return func() tea.Msg {
		err := eng.Load(context.Background())
		return loadedMsg{tasks: eng.Snapshot(), err: err}
	}
}

// Update handles a message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = "load: " + msg.err.Error()
		}
		m.setTasks(msg.tasks)
		return m, nil

	case snapshotMsg:
		m.setTasks(msg)
		return m, m.updates.wait()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.abort):
		return m, tea.Quit
	case key.Matches(msg, m.keys.theme):
		m.theme = m.theme.Toggle()
		m.status = "theme: " + m.theme.Name
		return m, nil
	}

	if m.loading {
		return m, nil
	}
	if m.detail != 0 {
		return m.handleDetailKey(msg)
	}
	if key.Matches(msg, m.keys.focus) {
		return m.switchFocus()
	}
	if m.focus == focusInput {
		return m.handleInputKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) switchFocus() (tea.Model, tea.Cmd) {
	if m.focus == focusInput {
		m.focus = focusList
		m.input.Blur()
		return m, nil
	}
	m.focus = focusInput
	return m, m.input.Focus()
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.add) {
		t, ok, err := m.eng.Add(m.input.Value())
		switch {
		case err != nil:
			m.status = err.Error()
		case ok:
			m.input.Reset()
			m.status = fmt.Sprintf("added #%d", t.ID)
			m.setTasks(m.eng.Snapshot())
			m.cursor = 0
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.up):
		m.cursor = clampCursor(m.cursor-1, len(m.tasks))
	case key.Matches(msg, m.keys.down):
		m.cursor = clampCursor(m.cursor+1, len(m.tasks))
	case key.Matches(msg, m.keys.toggle):
		if t, ok := m.selected(); ok {
			m.mutate(m.eng.Toggle(t.ID))
		}
	case key.Matches(msg, m.keys.remove):
		if t, ok := m.selected(); ok {
			if m.mutate(m.eng.Remove(t.ID)) {
				m.status = fmt.Sprintf("removed #%d", t.ID)
			}
		}
	case key.Matches(msg, m.keys.open):
		if t, ok := m.selected(); ok {
			m.detail = t.ID
		}
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.detail = 0
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggle):
		m.mutate(m.eng.Toggle(m.detail))
	}
	return m, nil
}

// mutate applies the result of an engine mutation to the model.
func (m *Model) mutate(changed bool, err error) bool {
	if err != nil {
		m.status = err.Error()
		return false
	}
	if changed {
		m.status = ""
		m.setTasks(m.eng.Snapshot())
	}
	return changed
}

func (m *Model) setTasks(tasks []task.Task) {
	m.tasks = tasks
	m.cursor = clampCursor(m.cursor, len(tasks))
	if m.detail != 0 && task.IndexOf(tasks, m.detail) < 0 {
		m.detail = 0
	}
}

func (m Model) selected() (task.Task, bool) {
	if len(m.tasks) == 0 {
		return task.Task{}, false
	}
	return m.tasks[m.cursor], true
}

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Todo List"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.theme.Muted.Render("loading…"))
		b.WriteString("\n")
	case m.detail != 0:
		b.WriteString(m.detailView())
	default:
		b.WriteString(m.listView())
	}

	if n := m.eng.SaveFailures(); n > 0 {
		b.WriteString("\n")
		b.WriteString(m.theme.Error.Render(fmt.Sprintf("%d save(s) failed; changes are kept in memory", n)))
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.Status.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render(m.help.View(m.helpKeys())))
	b.WriteString("\n")
	return b.String()
}

func (m Model) listView() string {
	var b strings.Builder
	b.WriteString(m.theme.Border.Render(m.input.View()))
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		b.WriteString(m.theme.Muted.Render("Nothing to do"))
		b.WriteString("\n")
		return b.String()
	}
	for i, t := range m.tasks {
		b.WriteString(m.itemView(t, m.focus == focusList && i == m.cursor))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) itemView(t task.Task, selected bool) string {
	prefix := "  "
	if selected {
		prefix = "> "
	}
	box := "[ ]"
	title := m.theme.Item.Render(t.Title)
	if t.Completed {
		box = "[x]"
		title = m.theme.Done.Render(t.Title)
	}
	if selected {
		return m.theme.Selected.Render(prefix+box) + " " + title
	}
	return prefix + box + " " + title
}

func (m Model) detailView() string {
	t, ok := m.eng.Lookup(m.detail)
	if !ok {
		return m.theme.Muted.Render("task not found") + "\n"
	}
	status := "open"
	if t.Completed {
		status = "completed"
	}
	body := fmt.Sprintf("#%d\n%s\n\nstatus: %s", t.ID, t.Title, status)
	return m.theme.Border.Render(body) + "\n"
}

func (m Model) helpKeys() helpKeys {
	switch {
	case m.loading:
		return helpKeys{m.keys.abort}
	case m.detail != 0:
		return helpKeys{m.keys.toggle, m.keys.back, m.keys.theme, m.keys.quit}
	case m.focus == focusInput:
		return helpKeys{m.keys.add, m.keys.focus, m.keys.theme, m.keys.abort}
	}
	return helpKeys{m.keys.up, m.keys.down, m.keys.toggle, m.keys.remove, m.keys.open, m.keys.focus, m.keys.theme, m.keys.quit}
}

func clampCursor(cur, n int) int {
	if n <= 0 || cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
