package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type Mapping struct {
	OctaveDown key.Binding
	OctaveUp   key.Binding
	Narrower   key.Binding
	Wider      key.Binding
	CycleTheme key.Binding
	ReleaseAll key.Binding
	Quit       key.Binding
}

var DefaultMapping = Mapping{
	OctaveDown: key.NewBinding(
		key.WithKeys("z"),
		key.WithHelp("z", "octave down"),
	),
	OctaveUp: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "octave up"),
	),
	Narrower: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "narrower black keys"),
	),
	Wider: key.NewBinding(
		key.WithKeys("=", "+"),
		key.WithHelp("=", "wider black keys"),
	),
	CycleTheme: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "colors"),
	),
	ReleaseAll: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "release all"),
	),
	Quit: key.NewBinding(
		key.WithKeys(tea.KeyCtrlC.String(), tea.KeyEsc.String()),
		key.WithHelp("esc", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (m Mapping) ShortHelp() []key.Binding {
	return []key.Binding{m.OctaveDown, m.OctaveUp, m.CycleTheme, m.Quit}
}

// FullHelp implements help.KeyMap.
func (m Mapping) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.OctaveDown, m.OctaveUp},
		{m.Narrower, m.Wider},
		{m.CycleTheme, m.ReleaseAll, m.Quit},
	}
}
