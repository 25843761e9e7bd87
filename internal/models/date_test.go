package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{"plain date", "2024-01-05", NewDate(2024, time.January, 5), false},
		{"padded", " 2024-02-29 ", NewDate(2024, time.February, 29), false},
		{"not a date", "tomorrow", Date{}, true},
		{"bad day", "2023-02-29", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDateTimestamp(t *testing.T) {
	ts := time.Date(2024, time.March, 10, 15, 30, 0, 0, time.Local)
	got, err := ParseDate(ts.Format(time.RFC3339Nano))
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if !got.Equal(NewDate(2024, time.March, 10)) {
		t.Errorf("ParseDate(timestamp) = %s, want 2024-03-10", got)
	}
}

func TestDateAddDays(t *testing.T) {
	d := NewDate(2024, time.January, 1)
	if got := d.AddDays(11).String(); got != "2024-01-12" {
		t.Errorf("AddDays(11) = %s", got)
	}
	if got := d.AddDays(-1).String(); got != "2023-12-31" {
		t.Errorf("AddDays(-1) = %s", got)
	}
}

func TestDateAddMonths(t *testing.T) {
	d := NewDate(2024, time.January, 31)
	if got := d.AddMonths(1).String(); got != "2024-02-29" {
		t.Errorf("AddMonths(1) = %s, want 2024-02-29", got)
	}
	if got := d.AddMonths(-1).String(); got != "2023-12-31" {
		t.Errorf("AddMonths(-1) = %s, want 2023-12-31", got)
	}
}

func TestDateJSON(t *testing.T) {
	in := GoalInstance{ID: "a", GroupID: "g", Name: "Review", Date: NewDate(2024, time.January, 2)}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"id":"a","groupId":"g","name":"Review","date":"2024-01-02","completed":false}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	var out GoalInstance
	if err := json.Unmarshal([]byte(`{"id":"a","name":"x","date":42}`), &out); err == nil {
		t.Error("expected error for numeric date")
	}
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2024, time.May, 1, 6, 0, 0, 0, time.UTC)
	evening := time.Date(2024, time.May, 1, 23, 59, 0, 0, time.UTC)
	next := time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC)

	if !SameDay(morning, evening) {
		t.Error("SameDay(morning, evening) = false")
	}
	if SameDay(evening, next) {
		t.Error("SameDay(evening, next) = true")
	}
}

func TestDaysIn(t *testing.T) {
	if DaysIn(2024, time.February) != 29 {
		t.Error("2024 is a leap year")
	}
	if DaysIn(2023, time.February) != 28 {
		t.Error("2023 is not a leap year")
	}
}
