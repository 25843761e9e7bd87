package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/julianstephens/retcal/internal/models"
	"github.com/julianstephens/retcal/internal/storage"
)

func sampleGoals() []models.GoalInstance {
	return []models.GoalInstance{
		{ID: "a", GroupID: "g1", Name: "Review", Date: models.NewDate(2024, time.January, 1), Completed: true},
		{ID: "b", GroupID: "g1", Name: "Review", Date: models.NewDate(2024, time.January, 2)},
		{ID: "c", GroupID: "g2", Name: "Read, carefully", Date: models.NewDate(2024, time.January, 5)},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"ics", FormatICS, false},
		{" JSON ", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteICS(t *testing.T) {
	var buf bytes.Buffer
	fixed := func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	if err := Write(&buf, FormatICS, sampleGoals(), Options{CalendarName: "Study", Now: fixed}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "X-WR-CALNAME:Study") {
		t.Error("calendar name missing")
	}

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}
	events := cal.Events()
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}

	first := events[0]
	if uid := first.GetProperty(ics.ComponentPropertyUniqueId); uid == nil || uid.Value != "a" {
		t.Errorf("UID = %v, want a", uid)
	}
	if start := first.GetProperty(ics.ComponentPropertyDtStart); start == nil || start.Value != "20240101" {
		t.Errorf("DTSTART = %v, want 20240101", start)
	}
	if status := first.GetProperty(ics.ComponentPropertyStatus); status == nil || status.Value != "COMPLETED" {
		t.Errorf("STATUS = %v, want COMPLETED", status)
	}
	if cat := first.GetProperty(ics.ComponentPropertyCategories); cat == nil || cat.Value != "g1" {
		t.Errorf("CATEGORIES = %v, want g1", cat)
	}
	if status := events[1].GetProperty(ics.ComponentPropertyStatus); status == nil || status.Value != "CONFIRMED" {
		t.Errorf("second STATUS = %v, want CONFIRMED", status)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleGoals()); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	doc, err := storage.DecodeDocument(buf.Bytes())
	if err != nil {
		t.Fatalf("export is not a loadable document: %v", err)
	}
	want := sampleGoals()
	if len(doc.Goals) != len(want) {
		t.Fatalf("got %d goals, want %d", len(doc.Goals), len(want))
	}
	for i := range want {
		if doc.Goals[i] != want[i] {
			t.Errorf("goal %d = %+v, want %+v", i, doc.Goals[i], want[i])
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleGoals()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want header + 3", len(records))
	}
	if strings.Join(records[0], ",") != "id,group_id,name,date,completed" {
		t.Errorf("header = %v", records[0])
	}
	if got := records[3]; got[2] != "Read, carefully" || got[3] != "2024-01-05" || got[4] != "false" {
		t.Errorf("row = %v", got)
	}
	if records[1][4] != "true" {
		t.Errorf("completed column = %q, want true", records[1][4])
	}
}

func TestWriteEmpty(t *testing.T) {
	for _, f := range Formats {
		var buf bytes.Buffer
		if err := Write(&buf, f, nil, Options{}); err != nil {
			t.Errorf("Write(%s, nil) error = %v", f, err)
		}
	}
	if err := Write(&bytes.Buffer{}, Format("xml"), nil, Options{}); err == nil {
		t.Error("Write() with unknown format expected error")
	}
}
