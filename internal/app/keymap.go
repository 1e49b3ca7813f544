package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines global and pane-specific bindings.
type KeyMap struct {
	Quit          key.Binding
	Back          key.Binding
	ToggleFocus   key.Binding
	ToggleSidebar key.Binding
	Up            key.Binding
	Down          key.Binding
	Open          key.Binding
	Refresh       key.Binding
	Top           key.Binding
	Bottom        key.Binding

	HalfPageDown key.Binding
	HalfPageUp   key.Binding
	PageDown     key.Binding
	PageUp       key.Binding
	JumpDown     key.Binding
	JumpUp       key.Binding
	ScrollDown   key.Binding
	ScrollUp     key.Binding

	ToggleView   key.Binding
	ToggleWrap   key.Binding
	ToggleExpand key.Binding
	Visual       key.Binding
	NextThread   key.Binding
	PrevThread   key.Binding
	Comment      key.Binding
	Yank         key.Binding
	Filter       key.Binding
	Help         key.Binding
}

func defaultKeyMap() KeyMap {
	return KeyMap{
		Quit:          key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Back:          key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "back")),
		ToggleFocus:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch focus")),
		ToggleSidebar: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sidebar")),
		Up:            key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/up", "move up")),
		Down:          key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/down", "move down")),
		Open:          key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Refresh:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Top:           key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "top")),
		Bottom:        key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "bottom")),

		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "half page down")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "half page up")),
		PageDown:     key.NewBinding(key.WithKeys("ctrl+f", "pgdown"), key.WithHelp("ctrl+f", "page down")),
		PageUp:       key.NewBinding(key.WithKeys("ctrl+b", "pgup"), key.WithHelp("ctrl+b", "page up")),
		JumpDown:     key.NewBinding(key.WithKeys("}"), key.WithHelp("}", "jump down")),
		JumpUp:       key.NewBinding(key.WithKeys("{"), key.WithHelp("{", "jump up")),
		ScrollDown:   key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "scroll down")),
		ScrollUp:     key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "scroll up")),

		ToggleView:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "view mode")),
		ToggleWrap:   key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "wrap")),
		ToggleExpand: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "expand comments")),
		Visual:       key.NewBinding(key.WithKeys("V", " "), key.WithHelp("V", "visual select")),
		NextThread:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next thread")),
		PrevThread:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev thread")),
		Comment:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "comment")),
		Yank:         key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy location")),
		Filter:       key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter status")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}
