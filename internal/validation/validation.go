package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/retcal/internal/models"
)

// ConflictType represents the type of integrity problem found in a goal collection
type ConflictType string

const (
	ConflictDuplicateID       ConflictType = "duplicate_instance_id"
	ConflictEmptyName         ConflictType = "empty_name"
	ConflictMissingDate       ConflictType = "missing_date"
	ConflictInconsistentGroup ConflictType = "inconsistent_group_name"
	ConflictUnorderedGroup    ConflictType = "unordered_group_dates"
)

// Conflict represents one detected problem
type Conflict struct {
	Type        ConflictType
	Description string
	GroupID     string
	IDs         []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Count returns how many conflicts of the given type were found.
func (vr *ValidationResult) Count(t ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// Validator checks a goal collection against the group invariants: shared
// name per group, strictly increasing dates in storage order, unique ids.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) ValidateGoals(goals []models.GoalInstance) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	idCount := make(map[string]int)
	for _, g := range goals {
		idCount[g.ID]++
	}
	for _, id := range sortedKeys(idCount) {
		if n := idCount[id]; n > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateID,
				Description: fmt.Sprintf("Instance id %q is used %d times", id, n),
				IDs:         []string{id},
			})
		}
	}

	groups := make(map[string][]models.GoalInstance)
	var order []string
	for _, g := range goals {
		if strings.TrimSpace(g.Name) == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictEmptyName,
				Description: fmt.Sprintf("Instance %s has an empty name", g.ID),
				GroupID:     g.GroupID,
				IDs:         []string{g.ID},
			})
		}
		if g.Date.IsZero() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingDate,
				Description: fmt.Sprintf("Instance %s (%q) has no date", g.ID, g.Name),
				GroupID:     g.GroupID,
				IDs:         []string{g.ID},
			})
		}
		if _, seen := groups[g.GroupID]; !seen {
			order = append(order, g.GroupID)
		}
		groups[g.GroupID] = append(groups[g.GroupID], g)
	}

	for _, groupID := range order {
		result.Conflicts = append(result.Conflicts, validateGroup(groupID, groups[groupID])...)
	}

	return result
}

func validateGroup(groupID string, members []models.GoalInstance) []Conflict {
	var conflicts []Conflict

	names := make(map[string]bool)
	for _, g := range members {
		names[g.Name] = true
	}
	if len(names) > 1 {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictInconsistentGroup,
			Description: fmt.Sprintf("Group %s mixes names %s", groupID, strings.Join(sortedKeys(names), ", ")),
			GroupID:     groupID,
			IDs:         ids(members),
		})
	}

	for i := 1; i < len(members); i++ {
		prev, cur := members[i-1], members[i]
		if prev.Date.IsZero() || cur.Date.IsZero() {
			continue
		}
		if !cur.Date.After(prev.Date) {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictUnorderedGroup,
				Description: fmt.Sprintf("Group %s (%q): %s does not follow %s", groupID, cur.Name, cur.Date, prev.Date),
				GroupID:     groupID,
				IDs:         []string{prev.ID, cur.ID},
			})
		}
	}

	return conflicts
}

func ids(goals []models.GoalInstance) []string {
	out := make([]string, len(goals))
	for i, g := range goals {
		out[i] = g.ID
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
