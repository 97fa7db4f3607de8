// Package linkage correlates issue records with productivity and
// match-factor samples by excavator id and calendar hour. All
// functions are pure; results are advisory UI signals and never block
// a save.
package linkage

import (
	"time"

	"github.com/minetrics/pitvault/pkg/types"
)

// SameCalendarHour reports whether two timestamps fall in the same
// calendar hour: year, month, day, and hour all equal. Field samples
// are taken at coarser granularity than issue photos, so no
// finer-than-hour precision is used anywhere in linkage, and an exact
// timestamp match counts.
func SameCalendarHour(a, b time.Time) bool {
	return a.Year() == b.Year() &&
		a.Month() == b.Month() &&
		a.Day() == b.Day() &&
		a.Hour() == b.Hour()
}

// IsOrphaned reports whether no sample of either kind shares the
// issue's excavator id and calendar hour.
func IsOrphaned(issue types.IssueRecord, productivity []types.ProductivitySample, matchFactor []types.MatchFactorSample) bool {
	for _, s := range productivity {
		if s.ExcavatorID == issue.ExcavatorID && SameCalendarHour(s.Timestamp, issue.Timestamp) {
			return false
		}
	}
	for _, s := range matchFactor {
		if s.ExcavatorID == issue.ExcavatorID && SameCalendarHour(s.Timestamp, issue.Timestamp) {
			return false
		}
	}
	return true
}

// FindRelated returns every issue whose excavator id matches and whose
// timestamp falls in the same calendar hour as sampleTimestamp, in the
// order the issues appear in the input. No sorting is applied.
func FindRelated(excavatorID string, sampleTimestamp time.Time, issues []types.IssueRecord) []types.IssueRecord {
	var related []types.IssueRecord
	for _, issue := range issues {
		if issue.ExcavatorID == excavatorID && SameCalendarHour(issue.Timestamp, sampleTimestamp) {
			related = append(related, issue)
		}
	}
	return related
}
