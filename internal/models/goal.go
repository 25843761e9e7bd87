package models

// GoalInstance is one dated, completable occurrence of a goal.
type GoalInstance struct {
	ID        string `json:"id"`
	GroupID   string `json:"groupId"`
	Name      string `json:"name"`
	Date      Date   `json:"date"`
	Completed bool   `json:"completed"`
}

// GoalDocument is the persisted form of the whole collection.
type GoalDocument struct {
	Version int            `json:"version"`
	Goals   []GoalInstance `json:"goals"`
}

// DaySummary counts the instances scheduled on one day.
type DaySummary struct {
	Date      Date
	Total     int
	Completed int
}

// Pending returns the number of incomplete instances.
func (s DaySummary) Pending() int {
	return s.Total - s.Completed
}
