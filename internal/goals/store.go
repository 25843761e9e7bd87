// Package goals owns the goal instance collection: group generation,
// mutations and the date-scoped views the front ends render.
package goals

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/retcal/internal/errors"
	"github.com/julianstephens/retcal/internal/logger"
	"github.com/julianstephens/retcal/internal/models"
	"github.com/julianstephens/retcal/internal/storage"
)

const (
	KindGoal  = "goal"
	KindGroup = "goal group"
)

// Store holds the current snapshot of goal instances. Every mutation builds a
// new slice, persists it, and only then replaces the snapshot, so a failed
// write leaves the previous state in place.
type Store struct {
	provider storage.Provider

	mu    sync.RWMutex
	goals []models.GoalInstance
}

// Open loads the persisted collection from an already loaded provider.
func Open(provider storage.Provider) (*Store, error) {
	goals, err := storage.LoadGoals(provider)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded goals", "count", len(goals), "path", provider.GetConfigPath())
	return &Store{
		provider: provider,
		goals:    goals,
	}, nil
}

// Provider returns the backing slot store.
func (s *Store) Provider() storage.Provider {
	return s.provider
}

func (s *Store) snapshot() []models.GoalInstance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.goals
}

// commit applies fn to a copy of the collection and persists the result.
func (s *Store) commit(fn func([]models.GoalInstance) ([]models.GoalInstance, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := make([]models.GoalInstance, len(s.goals))
	copy(working, s.goals)

	next, err := fn(working)
	if err != nil {
		return err
	}
	if err := storage.SaveGoals(s.provider, next); err != nil {
		logger.Error("Failed to persist goals", "error", err)
		return err
	}
	s.goals = next
	return nil
}

// List returns a copy of every instance in storage order.
func (s *Store) List() []models.GoalInstance {
	goals := s.snapshot()
	out := make([]models.GoalInstance, len(goals))
	copy(out, goals)
	return out
}

// Get returns the instance with the given id.
func (s *Store) Get(id string) (models.GoalInstance, error) {
	for _, g := range s.snapshot() {
		if g.ID == id {
			return g, nil
		}
	}
	return models.GoalInstance{}, &apperrors.NotFoundError{Kind: KindGoal, ID: id}
}

// Group returns the instances of one group in storage order.
func (s *Store) Group(groupID string) ([]models.GoalInstance, error) {
	var out []models.GoalInstance
	for _, g := range s.snapshot() {
		if g.GroupID == groupID {
			out = append(out, g)
		}
	}
	if len(out) == 0 {
		return nil, &apperrors.NotFoundError{Kind: KindGroup, ID: groupID}
	}
	return out, nil
}

// AddGroup generates one instance for the selected date and one per interval,
// appends them in a single commit and returns them.
func (s *Store) AddGroup(name string, selected models.Date, intervals models.Intervals) ([]models.GoalInstance, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "goal name is required")
	}
	if selected.IsZero() {
		return nil, apperrors.NewValidationError("date", "a date must be selected")
	}
	if err := intervals.ValidateFrom(selected); err != nil {
		return nil, err
	}

	groupID := uuid.New().String()
	dates := ScheduleDates(selected, intervals)
	for i, d := range dates {
		if d.After(models.MaxDate) || (i > 0 && !d.After(dates[i-1])) {
			return nil, apperrors.NewValidationError("repeatInterval", "cannot schedule a repeat on %s", d)
		}
	}
	created := make([]models.GoalInstance, 0, len(dates))
	for _, d := range dates {
		created = append(created, models.GoalInstance{
			ID:      uuid.New().String(),
			GroupID: groupID,
			Name:    name,
			Date:    d,
		})
	}

	err := s.commit(func(goals []models.GoalInstance) ([]models.GoalInstance, error) {
		return append(goals, created...), nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Added goal group", "group", groupID, "name", name, "instances", len(created))
	out := make([]models.GoalInstance, len(created))
	copy(out, created)
	return out, nil
}

func (s *Store) removeWhere(kind, id string, match func(models.GoalInstance) bool) (int, error) {
	removed := 0
	err := s.commit(func(goals []models.GoalInstance) ([]models.GoalInstance, error) {
		kept := goals[:0]
		for _, g := range goals {
			if match(g) {
				removed++
				continue
			}
			kept = append(kept, g)
		}
		if removed == 0 {
			logger.Warn("Nothing to delete", "kind", kind, "id", id)
			return nil, &apperrors.NotFoundError{Kind: kind, ID: id}
		}
		return kept, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// DeleteGroup removes every instance sharing groupID and returns how many
// were removed.
func (s *Store) DeleteGroup(groupID string) (int, error) {
	n, err := s.removeWhere(KindGroup, groupID, func(g models.GoalInstance) bool {
		return g.GroupID == groupID
	})
	if err != nil {
		return 0, err
	}
	logger.Info("Deleted goal group", "group", groupID, "instances", n)
	return n, nil
}

// DeleteInstance removes a single instance, leaving the rest of its group.
func (s *Store) DeleteInstance(id string) error {
	if _, err := s.removeWhere(KindGoal, id, func(g models.GoalInstance) bool {
		return g.ID == id
	}); err != nil {
		return err
	}
	logger.Info("Deleted goal", "id", id)
	return nil
}

// SetCompleted sets the completed flag of one instance.
func (s *Store) SetCompleted(id string, completed bool) error {
	err := s.commit(func(goals []models.GoalInstance) ([]models.GoalInstance, error) {
		for i := range goals {
			if goals[i].ID == id {
				goals[i].Completed = completed
				return goals, nil
			}
		}
		logger.Warn("Cannot update completion", "kind", KindGoal, "id", id)
		return nil, &apperrors.NotFoundError{Kind: KindGoal, ID: id}
	})
	if err != nil {
		return err
	}
	logger.Debug("Updated goal", "id", id, "completed", completed)
	return nil
}

// Clear removes every instance.
func (s *Store) Clear() error {
	if err := s.commit(func([]models.GoalInstance) ([]models.GoalInstance, error) {
		return []models.GoalInstance{}, nil
	}); err != nil {
		return fmt.Errorf("failed to clear goals: %w", err)
	}
	logger.Info("Cleared all goals")
	return nil
}

// FilterByDate returns the instances on date in storage order.
func (s *Store) FilterByDate(date models.Date) []models.GoalInstance {
	return FilterByDate(s.snapshot(), date)
}

// DatesWithGoals returns the days of a month that carry at least one instance.
func (s *Store) DatesWithGoals(year int, month time.Month) []models.Date {
	return DatesWithGoals(s.snapshot(), year, month)
}

// Summary counts the instances on date.
func (s *Store) Summary(date models.Date) models.DaySummary {
	return Summarize(s.snapshot(), date)
}
