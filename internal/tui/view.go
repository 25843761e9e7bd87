package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/retcal/internal/constants"
	"github.com/julianstephens/retcal/internal/goals"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case constants.StateAddGoal:
		content = m.viewAddGoal()
	case constants.StateInstanceMenu, constants.StateConfirmDelete:
		content = m.viewForm()
	default:
		content = m.viewCalendar()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		docStyle.Render(content),
		m.help.View(m),
	)
}

func (m Model) viewHeader() string {
	sel := m.calendar.Selected()
	summary := m.store.Summary(sel)

	var detail string
	switch summary.Total {
	case 0:
		detail = fmt.Sprintf("%s: nothing scheduled", sel)
	default:
		detail = fmt.Sprintf("%s: %d goals, %d done, %d pending", sel, summary.Total, summary.Completed, summary.Pending())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render("Retention Calendar"),
		summaryStyle.Render(detail),
	)
}

func (m Model) viewCalendar() string {
	calStyle, listStyle := focusedPaneStyle, blurredPaneStyle
	if m.focus == paneDayList {
		calStyle, listStyle = blurredPaneStyle, focusedPaneStyle
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		calStyle.Render(m.calendar.View()),
		listStyle.Render(m.dayList.View()),
	)

	switch {
	case m.errMsg != "":
		body = lipgloss.JoinVertical(lipgloss.Left, body, dangerStyle.Render(m.errMsg))
	case m.status != "":
		body = lipgloss.JoinVertical(lipgloss.Left, body, warningStyle.Render(m.status))
	}
	return body
}

func (m Model) viewAddGoal() string {
	var b strings.Builder

	sel := m.calendar.Selected()
	b.WriteString(titleStyle.Render("New goal starting " + sel.String()))
	b.WriteString("\n\n")
	b.WriteString(m.nameInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.intervals.View())
	b.WriteString("\n\n")

	values := m.intervals.Values()
	if values.Validate() == nil {
		dates := goals.ScheduleDates(sel, values)
		parts := make([]string, len(dates))
		for i, d := range dates {
			parts[i] = d.String()
		}
		b.WriteString(summaryStyle.Render("Scheduled: " + strings.Join(parts, ", ")))
	}

	if m.formError != "" {
		b.WriteString("\n")
		b.WriteString(dangerStyle.Render(m.formError))
	}
	return b.String()
}

func (m Model) viewForm() string {
	if m.form == nil {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return m.form.View()
	}
	return lipgloss.Place(m.width, max(m.height-4, 1),
		lipgloss.Center, lipgloss.Center,
		m.form.View(),
	)
}
