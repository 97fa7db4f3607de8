package linkage

import (
	"testing"
	"time"

	"github.com/minetrics/pitvault/pkg/types"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 4, 8, hour, min, 0, 0, time.UTC)
}

func TestSameCalendarHour(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want bool
	}{
		{"exact match", at(14, 0), at(14, 0), true},
		{"same hour different minutes", at(14, 5), at(14, 59), true},
		{"adjacent hours", at(14, 59), at(15, 0), false},
		{"same hour different day", at(14, 0), at(14, 0).AddDate(0, 0, 1), false},
		{"same hour different month", at(14, 0), at(14, 0).AddDate(0, 1, 0), false},
		{"same hour different year", at(14, 0), at(14, 0).AddDate(1, 0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameCalendarHour(tt.a, tt.b); got != tt.want {
				t.Errorf("SameCalendarHour(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestIsOrphaned(t *testing.T) {
	issue := types.IssueRecord{ID: "issue-1", ExcavatorID: "EX0007", Timestamp: at(14, 0)}

	t.Run("not orphaned when a productivity sample shares excavator and hour", func(t *testing.T) {
		samples := []types.ProductivitySample{{ExcavatorID: "EX0007", Timestamp: at(14, 45)}}
		if IsOrphaned(issue, samples, nil) {
			t.Error("expected issue to be linked")
		}
	})

	t.Run("not orphaned when a match factor sample shares excavator and hour", func(t *testing.T) {
		samples := []types.MatchFactorSample{{ExcavatorID: "EX0007", Timestamp: at(14, 10)}}
		if IsOrphaned(issue, nil, samples) {
			t.Error("expected issue to be linked")
		}
	})

	t.Run("orphaned when nothing matches", func(t *testing.T) {
		prod := []types.ProductivitySample{
			{ExcavatorID: "EX0007", Timestamp: at(15, 0)},  // wrong hour
			{ExcavatorID: "EX0001", Timestamp: at(14, 30)}, // wrong excavator
		}
		mf := []types.MatchFactorSample{
			{ExcavatorID: "EX0007", Timestamp: at(13, 59)},
		}
		if !IsOrphaned(issue, prod, mf) {
			t.Error("expected issue to be orphaned")
		}
	})

	t.Run("orphaned with no samples at all", func(t *testing.T) {
		if !IsOrphaned(issue, nil, nil) {
			t.Error("expected issue to be orphaned")
		}
	})
}

func TestFindRelated(t *testing.T) {
	issues := []types.IssueRecord{
		{ID: "issue-1", ExcavatorID: "EX0001", Timestamp: at(14, 5)},
		{ID: "issue-2", ExcavatorID: "EX0002", Timestamp: at(14, 10)},
		{ID: "issue-3", ExcavatorID: "EX0001", Timestamp: at(14, 55)},
		{ID: "issue-4", ExcavatorID: "EX0001", Timestamp: at(15, 0)},
	}

	related := FindRelated("EX0001", at(14, 30), issues)
	if len(related) != 2 {
		t.Fatalf("expected 2 related issues, got %d", len(related))
	}
	// Insertion order is preserved; no sort is applied.
	if related[0].ID != "issue-1" || related[1].ID != "issue-3" {
		t.Errorf("unexpected order: %s, %s", related[0].ID, related[1].ID)
	}

	if got := FindRelated("EX0009", at(14, 30), issues); len(got) != 0 {
		t.Errorf("expected no related issues, got %d", len(got))
	}
}
