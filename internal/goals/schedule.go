package goals

import (
	"sort"
	"time"

	"github.com/julianstephens/retcal/internal/models"
)

// ScheduleDates returns the selected date followed by one date per interval,
// each at the running total of days from the selected date.
func ScheduleDates(selected models.Date, intervals models.Intervals) []models.Date {
	dates := make([]models.Date, 0, len(intervals)+1)
	dates = append(dates, selected)
	for _, offset := range intervals.Offsets() {
		dates = append(dates, selected.AddDays(offset))
	}
	return dates
}

// FilterByDate returns the instances that fall on date, in storage order.
func FilterByDate(goals []models.GoalInstance, date models.Date) []models.GoalInstance {
	out := []models.GoalInstance{}
	for _, g := range goals {
		if models.SameDay(g.Date.Time(), date.Time()) {
			out = append(out, g)
		}
	}
	return out
}

// DatesWithGoals returns the distinct days of the given month that carry at
// least one instance, in ascending order.
func DatesWithGoals(goals []models.GoalInstance, year int, month time.Month) []models.Date {
	seen := make(map[models.Date]bool)
	var out []models.Date
	for _, g := range goals {
		if g.Date.Year() != year || g.Date.Month() != month || seen[g.Date] {
			continue
		}
		seen[g.Date] = true
		out = append(out, g.Date)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Before(out[j])
	})
	return out
}

// Summarize counts the instances on date.
func Summarize(goals []models.GoalInstance, date models.Date) models.DaySummary {
	summary := models.DaySummary{Date: date}
	for _, g := range FilterByDate(goals, date) {
		summary.Total++
		if g.Completed {
			summary.Completed++
		}
	}
	return summary
}
