package intervals

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/retcal/internal/models"
)

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
	return m
}

func focused(initial models.Intervals) Model {
	m := New(initial)
	m.Focus()
	return m
}

func TestNewFallsBackToDefault(t *testing.T) {
	for _, initial := range []models.Intervals{nil, {3, 1}} {
		m := New(initial)
		if !reflect.DeepEqual(m.Values(), models.DefaultIntervals()) {
			t.Errorf("New(%v).Values() = %v, want default", initial, m.Values())
		}
	}
}

func TestIgnoresKeysWhenBlurred(t *testing.T) {
	m := press(New(models.Intervals{1}), "a", "+")
	if !reflect.DeepEqual(m.Values(), models.Intervals{1}) {
		t.Errorf("blurred editor changed values: %v", m.Values())
	}
}

func TestEditing(t *testing.T) {
	tests := []struct {
		name    string
		initial models.Intervals
		keys    []string
		want    models.Intervals
		wantErr error
	}{
		{"append", models.Intervals{1}, []string{"a"}, models.Intervals{1, 2}, nil},
		{"increment last", models.Intervals{1, 3}, []string{"l", "+", "+"}, models.Intervals{1, 5}, nil},
		{"increment blocked by next", models.Intervals{1, 2}, []string{"+"}, models.Intervals{1, 2}, models.ErrIntervalBound},
		{"decrement blocked at one", models.Intervals{1}, []string{"-"}, models.Intervals{1}, models.ErrIntervalBound},
		{"decrement blocked by previous", models.Intervals{1, 2}, []string{"l", "-"}, models.Intervals{1, 2}, models.ErrIntervalBound},
		{"remove", models.Intervals{1, 3, 7}, []string{"l", "x"}, models.Intervals{1, 7}, nil},
		{"remove last remaining", models.Intervals{4}, []string{"x"}, models.Intervals{4}, models.ErrLastInterval},
		{"builds 1,3,7", models.Intervals{1}, []string{"a", "+", "a", "+", "+", "+"}, models.Intervals{1, 3, 7}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(focused(tt.initial), tt.keys...)
			if !reflect.DeepEqual(m.Values(), tt.want) {
				t.Errorf("Values() = %v, want %v", m.Values(), tt.want)
			}
			if tt.wantErr == nil && m.Err() != nil {
				t.Errorf("unexpected error: %v", m.Err())
			}
			if tt.wantErr != nil && !errors.Is(m.Err(), tt.wantErr) {
				t.Errorf("Err() = %v, want %v", m.Err(), tt.wantErr)
			}
		})
	}
}

func TestCursorStaysInRange(t *testing.T) {
	m := press(focused(models.Intervals{1, 2, 3}), "l", "l", "l", "l")
	if m.Cursor() != 2 {
		t.Errorf("Cursor() = %d, want 2", m.Cursor())
	}

	m = press(m, "x")
	if m.Cursor() != 1 {
		t.Errorf("Cursor() after removing last = %d, want 1", m.Cursor())
	}

	m = press(m, "h", "h", "h")
	if m.Cursor() != 0 {
		t.Errorf("Cursor() = %d, want 0", m.Cursor())
	}
}

func TestErrorClearsOnNextAdjustment(t *testing.T) {
	m := press(focused(models.Intervals{1}), "-")
	if m.Err() == nil {
		t.Fatal("expected rejected decrement")
	}
	if !strings.Contains(m.View(), "must stay above") {
		t.Errorf("view should show the rejection:\n%s", m.View())
	}

	m = press(m, "+")
	if m.Err() != nil {
		t.Errorf("expected error cleared, got %v", m.Err())
	}
}

func TestValuesReturnsCopy(t *testing.T) {
	m := New(models.Intervals{1, 3})
	v := m.Values()
	v[0] = 99
	if m.Values()[0] != 1 {
		t.Error("Values() exposed internal slice")
	}
}
