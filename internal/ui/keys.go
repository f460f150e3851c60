package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	focus  key.Binding
	up     key.Binding
	down   key.Binding
	toggle key.Binding
	remove key.Binding
	open   key.Binding
	add    key.Binding
	back   key.Binding
	theme  key.Binding
	quit   key.Binding
	abort  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		focus:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch focus")),
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		toggle: key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle")),
		remove: key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d/x", "remove")),
		open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		add:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		theme:  key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
		quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		abort:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// helpKeys adapts the bindings that apply in the current mode to help.KeyMap.
type helpKeys []key.Binding

func (h helpKeys) ShortHelp() []key.Binding  { return h }
func (h helpKeys) FullHelp() [][]key.Binding { return [][]key.Binding{h} }
