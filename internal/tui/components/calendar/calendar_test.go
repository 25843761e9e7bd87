package calendar

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/retcal/internal/models"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNavigation(t *testing.T) {
	start := models.NewDate(2024, time.January, 15)

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want models.Date
	}{
		{"next day", runeKey("l"), models.NewDate(2024, time.January, 16)},
		{"prev day arrow", tea.KeyMsg{Type: tea.KeyLeft}, models.NewDate(2024, time.January, 14)},
		{"next week", runeKey("j"), models.NewDate(2024, time.January, 22)},
		{"prev week", tea.KeyMsg{Type: tea.KeyUp}, models.NewDate(2024, time.January, 8)},
		{"next month", runeKey("]"), models.NewDate(2024, time.February, 15)},
		{"prev month", runeKey("["), models.NewDate(2023, time.December, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(start, time.Monday)
			m, _ = m.Update(tt.msg)
			if !m.Selected().Equal(tt.want) {
				t.Errorf("Selected() = %s, want %s", m.Selected(), tt.want)
			}
		})
	}
}

func TestMonthChangedMsg(t *testing.T) {
	m := New(models.NewDate(2024, time.January, 31), time.Monday)

	m, cmd := m.Update(runeKey("l"))
	if cmd == nil {
		t.Fatal("expected a command when crossing into February")
	}
	msg, ok := cmd().(MonthChangedMsg)
	if !ok {
		t.Fatalf("expected MonthChangedMsg, got %T", cmd())
	}
	if msg.Year != 2024 || msg.Month != time.February {
		t.Errorf("unexpected month change: %+v", msg)
	}

	_, cmd = m.Update(runeKey("l"))
	if cmd != nil {
		t.Error("moving within the month should not emit a command")
	}
}

func TestMonthJumpClampsDay(t *testing.T) {
	m := New(models.NewDate(2024, time.January, 31), time.Monday)
	m, _ = m.Update(runeKey("]"))
	if want := models.NewDate(2024, time.February, 29); !m.Selected().Equal(want) {
		t.Errorf("Selected() = %s, want %s", m.Selected(), want)
	}
}

func TestToday(t *testing.T) {
	m := New(models.NewDate(2020, time.May, 5), time.Sunday)
	today := models.NewDate(2024, time.March, 3)
	m.SetToday(today)

	m, _ = m.Update(runeKey("t"))
	if !m.Selected().Equal(today) {
		t.Errorf("Selected() = %s, want %s", m.Selected(), today)
	}
}

func TestLeadingBlanks(t *testing.T) {
	// 2024-01-01 is a Monday
	jan := models.NewDate(2024, time.January, 10)
	if got := New(jan, time.Monday).leadingBlanks(); got != 0 {
		t.Errorf("monday start: leadingBlanks() = %d, want 0", got)
	}
	if got := New(jan, time.Sunday).leadingBlanks(); got != 1 {
		t.Errorf("sunday start: leadingBlanks() = %d, want 1", got)
	}
}

func TestMarkedAndView(t *testing.T) {
	m := New(models.NewDate(2024, time.January, 1), time.Monday)
	m.SetMarked([]models.Date{models.NewDate(2024, time.January, 4)})

	if !m.Marked(models.NewDate(2024, time.January, 4)) {
		t.Error("expected Jan 4 to be marked")
	}
	if m.Marked(models.NewDate(2024, time.January, 5)) {
		t.Error("Jan 5 should not be marked")
	}

	view := m.View()
	if !strings.Contains(view, "January 2024") {
		t.Errorf("view missing month title:\n%s", view)
	}
	if !strings.Contains(view, "4•") {
		t.Errorf("view missing marker for Jan 4:\n%s", view)
	}
	if !strings.Contains(view, "31") {
		t.Errorf("view missing last day:\n%s", view)
	}
}
