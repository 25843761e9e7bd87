package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/julianstephens/retcal/internal/constants"
)

type KeyMap struct {
	Tab    key.Binding
	Quit   key.Binding
	Help   key.Binding
	Add    key.Binding
	Submit key.Binding
	Cancel key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch focus"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add goal"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp and FullHelp make Model a help.KeyMap whose bindings follow the
// current screen and focus.
func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case constants.StateAddGoal:
		return []key.Binding{m.keys.Tab, m.keys.Submit, m.keys.Cancel}
	default:
		return []key.Binding{m.keys.Tab, m.keys.Add, m.keys.Quit, m.keys.Help}
	}
}

func (m Model) FullHelp() [][]key.Binding {
	switch m.state {
	case constants.StateAddGoal:
		iv := m.intervals.Keys()
		return [][]key.Binding{
			{m.keys.Tab, m.keys.Submit, m.keys.Cancel},
			{iv.Prev, iv.Next, iv.Increment, iv.Decrement, iv.Append, iv.Remove},
		}
	default:
		cal := m.calendar.Keys()
		day := m.dayList.Keys()
		return [][]key.Binding{
			{m.keys.Tab, m.keys.Add, m.keys.Quit, m.keys.Help},
			{cal.Left, cal.Right, cal.Up, cal.Down, cal.PrevMonth, cal.NextMonth, cal.Today},
			{day.Select, day.Toggle},
		}
	}
}
