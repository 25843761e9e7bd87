package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/retcal/internal/models"
)

func jan(day int) models.Date {
	return models.NewDate(2024, time.January, day)
}

func TestValidateGoals_Clean(t *testing.T) {
	goals := []models.GoalInstance{
		{ID: "1", GroupID: "g1", Name: "Spanish", Date: jan(1)},
		{ID: "2", GroupID: "g1", Name: "Spanish", Date: jan(2)},
		{ID: "3", GroupID: "g2", Name: "Chess", Date: jan(2)},
		{ID: "4", GroupID: "g1", Name: "Spanish", Date: jan(5)},
	}

	result := New().ValidateGoals(goals)
	if result.HasConflicts() {
		t.Errorf("expected no conflicts, got:\n%s", result.FormatReport())
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("unexpected report: %q", result.FormatReport())
	}
}

func TestValidateGoals_Empty(t *testing.T) {
	result := New().ValidateGoals(nil)
	if result.HasConflicts() {
		t.Error("empty collection should be valid")
	}
}

func TestValidateGoals_Conflicts(t *testing.T) {
	tests := []struct {
		name  string
		goals []models.GoalInstance
		want  ConflictType
	}{
		{
			name: "duplicate id",
			goals: []models.GoalInstance{
				{ID: "1", GroupID: "g1", Name: "A", Date: jan(1)},
				{ID: "1", GroupID: "g2", Name: "B", Date: jan(1)},
			},
			want: ConflictDuplicateID,
		},
		{
			name: "empty name",
			goals: []models.GoalInstance{
				{ID: "1", GroupID: "g1", Name: "  ", Date: jan(1)},
			},
			want: ConflictEmptyName,
		},
		{
			name: "missing date",
			goals: []models.GoalInstance{
				{ID: "1", GroupID: "g1", Name: "A"},
			},
			want: ConflictMissingDate,
		},
		{
			name: "mixed group names",
			goals: []models.GoalInstance{
				{ID: "1", GroupID: "g1", Name: "A", Date: jan(1)},
				{ID: "2", GroupID: "g1", Name: "B", Date: jan(2)},
			},
			want: ConflictInconsistentGroup,
		},
		{
			name: "dates out of order",
			goals: []models.GoalInstance{
				{ID: "1", GroupID: "g1", Name: "A", Date: jan(3)},
				{ID: "2", GroupID: "g1", Name: "A", Date: jan(2)},
			},
			want: ConflictUnorderedGroup,
		},
		{
			name: "repeated date",
			goals: []models.GoalInstance{
				{ID: "1", GroupID: "g1", Name: "A", Date: jan(3)},
				{ID: "2", GroupID: "g1", Name: "A", Date: jan(3)},
			},
			want: ConflictUnorderedGroup,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New().ValidateGoals(tt.goals)
			if result.Count(tt.want) != 1 {
				t.Errorf("expected one %s conflict, got:\n%s", tt.want, result.FormatReport())
			}
		})
	}
}

func TestFormatReport(t *testing.T) {
	result := New().ValidateGoals([]models.GoalInstance{
		{ID: "1", GroupID: "g1", Name: "A", Date: jan(1)},
		{ID: "2", GroupID: "g1", Name: "B", Date: jan(2)},
	})

	report := result.FormatReport()
	if !strings.HasPrefix(report, "Conflicts detected:") {
		t.Errorf("unexpected report: %q", report)
	}
	if !strings.Contains(report, "Group g1 mixes names A, B") {
		t.Errorf("report missing group conflict: %q", report)
	}
}
