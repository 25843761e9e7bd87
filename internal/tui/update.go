package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/retcal/internal/constants"
	apperrors "github.com/julianstephens/retcal/internal/errors"
	"github.com/julianstephens/retcal/internal/logger"
	"github.com/julianstephens/retcal/internal/models"
	"github.com/julianstephens/retcal/internal/tui/components/calendar"
	"github.com/julianstephens/retcal/internal/tui/components/daylist"
	"github.com/julianstephens/retcal/internal/tui/components/intervals"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.dayList.SetSize(max(msg.Width-calendarWidth-8, 20), max(msg.Height-8, 4))
		return m, nil

	case calendar.MonthChangedMsg:
		m.refresh()
		return m, nil

	case daylist.SelectGoalMsg:
		return m, m.openInstanceMenu(msg.Goal)

	case daylist.ToggleGoalMsg:
		m.setCompleted(msg.ID, msg.Completed)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateAddGoal:
		cmd = m.updateAddGoal(msg)
	case constants.StateInstanceMenu:
		cmd = m.updateInstanceMenu(msg)
	case constants.StateConfirmDelete:
		cmd = m.updateConfirmDelete(msg)
	default:
		cmd = m.updateCalendar(msg)
	}
	return m, cmd
}

func (m *Model) updateCalendar(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Quit):
			m.quitting = true
			return tea.Quit
		case key.Matches(keyMsg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return nil
		case key.Matches(keyMsg, m.keys.Tab):
			if m.focus == paneCalendar {
				m.focus = paneDayList
			} else {
				m.focus = paneCalendar
			}
			return nil
		case key.Matches(keyMsg, m.keys.Add):
			return m.openAddGoal()
		}
	}

	var cmd tea.Cmd
	if m.focus == paneDayList {
		m.dayList, cmd = m.dayList.Update(msg)
		return cmd
	}

	prev := m.calendar.Selected()
	m.calendar, cmd = m.calendar.Update(msg)
	if !m.calendar.Selected().Equal(prev) {
		m.status = ""
		m.errMsg = ""
		m.refresh()
	}
	return cmd
}

func (m *Model) openAddGoal() tea.Cmd {
	m.nameInput = newNameInput()
	m.intervals = intervals.New(m.settings.Intervals())
	m.formError = ""
	m.state = constants.StateAddGoal
	return m.nameInput.Focus()
}

func (m *Model) updateAddGoal(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Cancel):
			m.formError = ""
			m.state = constants.StateCalendar
			return nil
		case key.Matches(keyMsg, m.keys.Tab):
			if m.nameInput.Focused() {
				m.nameInput.Blur()
				m.intervals.Focus()
				return nil
			}
			m.intervals.Blur()
			return m.nameInput.Focus()
		case key.Matches(keyMsg, m.keys.Submit):
			m.submitGoal()
			return nil
		}
	}

	var cmd tea.Cmd
	if m.nameInput.Focused() {
		m.nameInput, cmd = m.nameInput.Update(msg)
		return cmd
	}
	m.intervals, cmd = m.intervals.Update(msg)
	return cmd
}

// submitGoal adds a goal group for the selected date. Validation failures
// keep the form open with the message shown.
func (m *Model) submitGoal() {
	created, err := m.store.AddGroup(m.nameInput.Value(), m.calendar.Selected(), m.intervals.Values())
	if err != nil {
		var vErr *apperrors.ValidationError
		if errors.As(err, &vErr) {
			m.formError = vErr.Error()
			return
		}
		m.formError = err.Error()
		logger.Error("Failed to add goal", "error", err)
		return
	}

	m.formError = ""
	m.status = fmt.Sprintf("Added %q with %d repeats", created[0].Name, len(created))
	m.state = constants.StateCalendar
	m.refresh()
}

func (m *Model) openInstanceMenu(goal models.GoalInstance) tea.Cmd {
	m.selected = goal
	m.menuForm = &InstanceMenuModel{}
	m.form = NewInstanceMenuForm(m.menuForm, goal)
	m.state = constants.StateInstanceMenu
	return m.form.Init()
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	return cmd
}

func (m *Model) updateInstanceMenu(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeForm()
		return nil
	}

	cmds := []tea.Cmd{m.updateForm(msg)}

	switch m.form.State {
	case huh.StateCompleted:
		cmds = append(cmds, m.applyAction(m.menuForm.Action))
	case huh.StateAborted:
		m.closeForm()
	}
	return tea.Batch(cmds...)
}

// applyAction runs the choice made in the instance menu. Deletions go through
// a confirmation step first.
func (m *Model) applyAction(action string) tea.Cmd {
	switch action {
	case actionToggle:
		m.setCompleted(m.selected.ID, !m.selected.Completed)
		m.closeForm()
		return nil
	case actionDeleteInstance, actionDeleteGroup:
		message := fmt.Sprintf("Delete %q on %s?", m.selected.Name, m.selected.Date)
		if action == actionDeleteGroup {
			message = fmt.Sprintf("Delete every repeat of %q?", m.selected.Name)
		}
		m.pendingAction = action
		m.confirmForm = &ConfirmFormModel{}
		m.form = NewConfirmForm(m.confirmForm, message)
		m.state = constants.StateConfirmDelete
		return m.form.Init()
	default:
		m.closeForm()
		return nil
	}
}

func (m *Model) updateConfirmDelete(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeForm()
		return nil
	}

	cmd := m.updateForm(msg)

	switch m.form.State {
	case huh.StateCompleted:
		if m.confirmForm.Confirmed {
			m.deletePending()
		}
		m.closeForm()
	case huh.StateAborted:
		m.closeForm()
	}
	return cmd
}

func (m *Model) deletePending() {
	switch m.pendingAction {
	case actionDeleteInstance:
		if err := m.store.DeleteInstance(m.selected.ID); err != nil {
			m.handleError(err)
			return
		}
		m.status = fmt.Sprintf("Deleted %q on %s", m.selected.Name, m.selected.Date)
	case actionDeleteGroup:
		n, err := m.store.DeleteGroup(m.selected.GroupID)
		if err != nil {
			m.handleError(err)
			return
		}
		m.status = fmt.Sprintf("Deleted %d repeats of %q", n, m.selected.Name)
	}
	m.errMsg = ""
	m.refresh()
}

func (m *Model) setCompleted(id string, completed bool) {
	if err := m.store.SetCompleted(id, completed); err != nil {
		m.handleError(err)
		return
	}
	m.status = ""
	m.errMsg = ""
	m.refresh()
}

// handleError surfaces persistence failures. A missing target means the view
// was stale, so it is dropped after a refresh.
func (m *Model) handleError(err error) {
	var nfErr *apperrors.NotFoundError
	if errors.As(err, &nfErr) {
		logger.Debug("Ignoring stale selection", "kind", nfErr.Kind, "id", nfErr.ID)
		m.refresh()
		return
	}
	logger.Error("Goal update failed", "error", err)
	m.status = ""
	m.errMsg = err.Error()
}

func (m *Model) closeForm() {
	m.form = nil
	m.menuForm = nil
	m.confirmForm = nil
	m.pendingAction = ""
	m.state = constants.StateCalendar
}
