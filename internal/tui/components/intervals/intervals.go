package intervals

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/retcal/internal/models"
)

type KeyMap struct {
	Prev      key.Binding
	Next      key.Binding
	Increment key.Binding
	Decrement key.Binding
	Append    key.Binding
	Remove    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev repeat"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next repeat"),
		),
		Increment: key.NewBinding(
			key.WithKeys("+", "=", "up", "k"),
			key.WithHelp("+", "more days"),
		),
		Decrement: key.NewBinding(
			key.WithKeys("-", "down", "j"),
			key.WithHelp("-", "fewer days"),
		),
		Append: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add repeat"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "remove repeat"),
		),
	}
}

var (
	cellStyle     = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	selectedStyle = cellStyle.BorderForeground(lipgloss.Color("205")).Bold(true)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Model edits a repeat-interval list. Rejected adjustments leave the list
// unchanged and surface the reason through Err.
type Model struct {
	keys    KeyMap
	values  models.Intervals
	cursor  int
	err     error
	focused bool
}

func New(initial models.Intervals) Model {
	if len(initial) == 0 || initial.Validate() != nil {
		initial = models.DefaultIntervals()
	}
	values := make(models.Intervals, len(initial))
	copy(values, initial)
	return Model{keys: DefaultKeyMap(), values: values}
}

func (m Model) Keys() KeyMap { return m.keys }

func (m Model) Values() models.Intervals {
	out := make(models.Intervals, len(m.values))
	copy(out, m.values)
	return out
}

func (m Model) Cursor() int { return m.cursor }

func (m Model) Err() error { return m.err }

func (m Model) Focused() bool { return m.focused }

func (m *Model) Focus() { m.focused = true }

func (m *Model) Blur() { m.focused = false }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Prev):
		if m.cursor > 0 {
			m.cursor--
		}
		m.err = nil
	case key.Matches(keyMsg, m.keys.Next):
		if m.cursor < len(m.values)-1 {
			m.cursor++
		}
		m.err = nil
	case key.Matches(keyMsg, m.keys.Increment):
		m.apply(m.values.Increment(m.cursor))
	case key.Matches(keyMsg, m.keys.Decrement):
		m.apply(m.values.Decrement(m.cursor))
	case key.Matches(keyMsg, m.keys.Append):
		m.values = m.values.Append()
		m.cursor = len(m.values) - 1
		m.err = nil
	case key.Matches(keyMsg, m.keys.Remove):
		m.apply(m.values.Remove(m.cursor))
		if m.cursor >= len(m.values) {
			m.cursor = len(m.values) - 1
		}
	}
	return m, nil
}

func (m *Model) apply(next models.Intervals, err error) {
	if err != nil {
		m.err = err
		return
	}
	m.values = next
	m.err = nil
}

func (m Model) View() string {
	cells := make([]string, len(m.values))
	for i, v := range m.values {
		style := cellStyle
		if m.focused && i == m.cursor {
			style = selectedStyle
		}
		cells[i] = style.Render(fmt.Sprintf("+%d", v))
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render("Repeat after (days)"))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(m.err.Error()))
	}
	return b.String()
}
