package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/retcal/internal/models"
)

// MonthChangedMsg is emitted when the cursor moves into another month so the
// parent can reload the goal markers.
type MonthChangedMsg struct {
	Year  int
	Month time.Month
}

type KeyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	Today     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev day"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next day"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev week"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next week"),
		),
		PrevMonth: key.NewBinding(
			key.WithKeys("[", "pgup"),
			key.WithHelp("[", "prev month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("]", "pgdown"),
			key.WithHelp("]", "next month"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
	}
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	weekdayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	dayStyle      = lipgloss.NewStyle().Width(4).Align(lipgloss.Right)
	todayStyle    = dayStyle.Foreground(lipgloss.Color("86")).Bold(true)
	markedStyle   = dayStyle.Foreground(lipgloss.Color("214"))
	selectedStyle = dayStyle.Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Bold(true)
)

type Model struct {
	keys      KeyMap
	cursor    models.Date
	today     models.Date
	weekStart time.Weekday
	marked    map[string]bool
}

func New(selected models.Date, weekStart time.Weekday) Model {
	return Model{
		keys:      DefaultKeyMap(),
		cursor:    selected,
		today:     models.Today(),
		weekStart: weekStart,
		marked:    make(map[string]bool),
	}
}

func (m Model) Keys() KeyMap { return m.keys }

// Selected returns the date under the cursor.
func (m Model) Selected() models.Date { return m.cursor }

func (m *Model) SetToday(d models.Date) { m.today = d }

func (m *Model) Select(d models.Date) { m.cursor = d }

// SetMarked replaces the set of dates that carry at least one goal.
func (m *Model) SetMarked(dates []models.Date) {
	m.marked = make(map[string]bool, len(dates))
	for _, d := range dates {
		m.marked[d.String()] = true
	}
}

func (m Model) Marked(d models.Date) bool { return m.marked[d.String()] }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	prev := m.cursor
	switch {
	case key.Matches(keyMsg, m.keys.Left):
		m.cursor = m.cursor.AddDays(-1)
	case key.Matches(keyMsg, m.keys.Right):
		m.cursor = m.cursor.AddDays(1)
	case key.Matches(keyMsg, m.keys.Up):
		m.cursor = m.cursor.AddDays(-7)
	case key.Matches(keyMsg, m.keys.Down):
		m.cursor = m.cursor.AddDays(7)
	case key.Matches(keyMsg, m.keys.PrevMonth):
		m.cursor = m.cursor.AddMonths(-1)
	case key.Matches(keyMsg, m.keys.NextMonth):
		m.cursor = m.cursor.AddMonths(1)
	case key.Matches(keyMsg, m.keys.Today):
		m.cursor = m.today
	default:
		return m, nil
	}

	if prev.Year() != m.cursor.Year() || prev.Month() != m.cursor.Month() {
		changed := MonthChangedMsg{Year: m.cursor.Year(), Month: m.cursor.Month()}
		return m, func() tea.Msg { return changed }
	}
	return m, nil
}

// leadingBlanks is the number of empty cells before the 1st of the month.
func (m Model) leadingBlanks() int {
	first := models.NewDate(m.cursor.Year(), m.cursor.Month(), 1)
	return (int(first.Weekday()) - int(m.weekStart) + 7) % 7
}

func (m Model) View() string {
	var b strings.Builder

	title := fmt.Sprintf("%s %d", m.cursor.Month(), m.cursor.Year())
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")

	for i := 0; i < 7; i++ {
		wd := time.Weekday((int(m.weekStart) + i) % 7)
		b.WriteString(weekdayStyle.Render(fmt.Sprintf("%4s", wd.String()[:2])))
	}
	b.WriteString("\n")

	year, month := m.cursor.Year(), m.cursor.Month()
	col := m.leadingBlanks()
	b.WriteString(strings.Repeat("    ", col))

	for day := 1; day <= models.DaysIn(year, month); day++ {
		d := models.NewDate(year, month, day)
		marked := m.marked[d.String()]
		label := fmt.Sprintf("%d", day)
		if marked {
			label += "•"
		}

		style := dayStyle
		switch {
		case d.Equal(m.cursor):
			style = selectedStyle
		case marked:
			style = markedStyle
		case d.Equal(m.today):
			style = todayStyle
		}
		b.WriteString(style.Render(label))

		col++
		if col == 7 && day != models.DaysIn(year, month) {
			b.WriteString("\n")
			col = 0
		}
	}

	return b.String()
}
