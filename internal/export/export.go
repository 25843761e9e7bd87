// Package export renders goal instances as ICS, JSON or CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/julianstephens/retcal/internal/constants"
	"github.com/julianstephens/retcal/internal/models"
	"github.com/julianstephens/retcal/internal/storage"
)

type Format string

const (
	FormatICS  Format = "ics"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatICS, FormatJSON, FormatCSV}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported export format %q (expected ics, json or csv)", s)
}

// Options tunes ICS output.
type Options struct {
	CalendarName string
	// Now stamps DTSTAMP; defaults to time.Now.
	Now func() time.Time
}

// Write renders goals to w in the given format.
func Write(w io.Writer, format Format, goals []models.GoalInstance, opts Options) error {
	switch format {
	case FormatICS:
		return WriteICS(w, goals, opts)
	case FormatJSON:
		return WriteJSON(w, goals)
	case FormatCSV:
		return WriteCSV(w, goals)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteICS emits one all-day VEVENT per instance. The instance id is the UID
// so re-importing an export updates events instead of duplicating them.
func WriteICS(w io.Writer, goals []models.GoalInstance, opts Options) error {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	name := opts.CalendarName
	if name == "" {
		name = "Retention Calendar"
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//" + constants.AppName + "//" + constants.Version + "//EN")
	cal.SetXWRCalName(name)

	stamp := now().UTC()
	for _, g := range goals {
		event := cal.AddEvent(g.ID)
		event.SetDtStampTime(stamp)
		event.SetSummary(g.Name)
		event.SetAllDayStartAt(g.Date.Time())
		event.SetAllDayEndAt(g.Date.AddDays(1).Time())
		event.AddProperty(ics.ComponentPropertyCategories, g.GroupID)
		if g.Completed {
			event.SetStatus(ics.ObjectStatusCompleted)
		} else {
			event.SetStatus(ics.ObjectStatusConfirmed)
		}
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	return nil
}

// WriteJSON writes the same versioned document the stores persist.
func WriteJSON(w io.Writer, goals []models.GoalInstance) error {
	data, err := storage.EncodeDocument(goals)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("failed to format goals: %w", err)
	}
	buf.WriteByte('\n')
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write goals: %w", err)
	}
	return nil
}

var csvHeader = []string{"id", "group_id", "name", "date", "completed"}

func WriteCSV(w io.Writer, goals []models.GoalInstance) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	for _, g := range goals {
		record := []string{g.ID, g.GroupID, g.Name, g.Date.String(), strconv.FormatBool(g.Completed)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
