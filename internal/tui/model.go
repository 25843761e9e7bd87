package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/retcal/internal/config"
	"github.com/julianstephens/retcal/internal/constants"
	"github.com/julianstephens/retcal/internal/goals"
	"github.com/julianstephens/retcal/internal/models"
	"github.com/julianstephens/retcal/internal/tui/components/calendar"
	"github.com/julianstephens/retcal/internal/tui/components/daylist"
	"github.com/julianstephens/retcal/internal/tui/components/intervals"
)

type pane int

const (
	paneCalendar pane = iota
	paneDayList
)

// calendarWidth is the rendered width of the month grid plus its border.
const calendarWidth = 34

// InstanceMenuModel backs the per-instance action form.
type InstanceMenuModel struct {
	Action string
}

// ConfirmFormModel backs the delete confirmation form.
type ConfirmFormModel struct {
	Confirmed bool
}

const (
	actionToggle         = "toggle"
	actionDeleteInstance = "delete-instance"
	actionDeleteGroup    = "delete-group"
	actionCancel         = "cancel"
)

type Model struct {
	store    *goals.Store
	settings *config.Config

	state    constants.SessionState
	focus    pane
	keys     KeyMap
	help     help.Model
	calendar calendar.Model
	dayList  daylist.Model

	nameInput textinput.Model
	intervals intervals.Model
	formError string

	form          *huh.Form
	menuForm      *InstanceMenuModel
	confirmForm   *ConfirmFormModel
	selected      models.GoalInstance
	pendingAction string

	status   string
	errMsg   string
	width    int
	height   int
	quitting bool
}

func NewModel(store *goals.Store, settings *config.Config) Model {
	if settings == nil {
		settings = config.DefaultConfig()
	}

	today := models.Today()
	m := Model{
		store:    store,
		settings: settings,
		state:    constants.StateCalendar,
		focus:    paneCalendar,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		calendar: calendar.New(today, settings.FirstWeekday()),
		dayList:  daylist.New(nil, 40, 12),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh reloads the day list and month markers for the selected date.
func (m *Model) refresh() {
	sel := m.calendar.Selected()
	m.dayList.SetGoals(m.store.FilterByDate(sel))
	m.calendar.SetMarked(m.store.DatesWithGoals(sel.Year(), sel.Month()))
}

func (m *Model) selectDate(d models.Date) {
	m.calendar.Select(d)
	m.refresh()
}

func newNameInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "What do you want to remember?"
	ti.CharLimit = 120
	ti.Prompt = "Goal: "
	return ti
}

func NewInstanceMenuForm(fm *InstanceMenuModel, goal models.GoalInstance) *huh.Form {
	toggle := "Mark complete"
	if goal.Completed {
		toggle = "Mark incomplete"
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(goal.Name + " on " + goal.Date.String()).
				Options(
					huh.NewOption(toggle, actionToggle),
					huh.NewOption("Delete this repeat", actionDeleteInstance),
					huh.NewOption("Delete every repeat of this goal", actionDeleteGroup),
					huh.NewOption("Cancel", actionCancel),
				).
				Value(&fm.Action),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewConfirmForm(fm *ConfirmFormModel, message string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(message).
				Affirmative("Delete").
				Negative("Keep").
				Value(&fm.Confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}
