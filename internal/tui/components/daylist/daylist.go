package daylist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/retcal/internal/models"
)

type SelectGoalMsg struct {
	Goal models.GoalInstance
}

type ToggleGoalMsg struct {
	ID        string
	Completed bool
}

type Item struct {
	Goal models.GoalInstance
}

func (i Item) Title() string {
	if i.Goal.Completed {
		return "✓ " + i.Goal.Name
	}
	return "○ " + i.Goal.Name
}

func (i Item) Description() string {
	status := "pending"
	if i.Goal.Completed {
		status = "done"
	}
	return fmt.Sprintf("%s | group %s", status, shortID(i.Goal.GroupID))
}

func (i Item) FilterValue() string { return i.Goal.Name }

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

type KeyMap struct {
	Select key.Binding
	Toggle key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "actions"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "c"),
			key.WithHelp("space", "toggle done"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(goals []models.GoalInstance, width, height int) Model {
	l := list.New(toItems(goals), list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	// quit and help are owned by the parent model
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ShowFullHelp.SetEnabled(false)
	l.KeyMap.CloseFullHelp.SetEnabled(false)

	return Model{list: l, keys: DefaultKeyMap()}
}

func toItems(goals []models.GoalInstance) []list.Item {
	items := make([]list.Item, len(goals))
	for i, g := range goals {
		items[i] = Item{Goal: g}
	}
	return items
}

func (m Model) Keys() KeyMap { return m.keys }

func (m *Model) SetGoals(goals []models.GoalInstance) {
	m.list.SetItems(toItems(goals))
}

func (m Model) Len() int { return len(m.list.Items()) }

// Selected returns the highlighted goal, if any.
func (m Model) Selected() (models.GoalInstance, bool) {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.Goal, true
	}
	return models.GoalInstance{}, false
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Select):
			if g, ok := m.Selected(); ok {
				return m, func() tea.Msg { return SelectGoalMsg{Goal: g} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Toggle):
			if g, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ToggleGoalMsg{ID: g.ID, Completed: !g.Completed} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No goals on this day.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
