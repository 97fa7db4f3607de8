package backup

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/minetrics/pitvault/pkg/types"
)

// RestoreSummary reports what each restore step accomplished.
type RestoreSummary struct {
	Productivity   int
	MatchFactor    int
	Issues         int
	ImagesImported int
	ImagesFailed   int
	StepsCompleted []string
}

// Restore replaces the contents of both stores with the document's
// state. The procedure is an ordered sequence of named steps:
//
//	validate -> clearBlobs -> importBlobs -> overwriteRecords -> restoreSettings
//
// Validation fails fast with no mutation. Photo import failures are
// logged and counted but never abort the structured-data restore. A
// failure in a later step leaves the stores in a mixed state; there is
// no rollback across the two engines, so callers must warn the user
// not to interrupt a running restore.
func (c *Codec) Restore(ctx context.Context, doc *types.BackupDocument) (*RestoreSummary, error) {
	summary := &RestoreSummary{}

	steps := []struct {
		name string
		run  func() error
	}{
		{"validate", func() error { return validateDocument(doc) }},
		{"clearBlobs", func() error { return c.blobs.Clear(ctx) }},
		{"importBlobs", func() error {
			imported, failed, err := c.blobs.ImportAll(ctx, doc.ImagesData)
			summary.ImagesImported = imported
			summary.ImagesFailed = failed
			if err != nil {
				// Structured data outranks photos: log and move on.
				zap.S().Warnf("restore: photo import incomplete: %v", err)
			}
			if failed > 0 {
				zap.S().Warnf("restore: %d of %d photos failed to import", failed, len(doc.ImagesData))
			}
			return nil
		}},
		{"overwriteRecords", func() error { return c.overwriteRecords(doc, summary) }},
		{"restoreSettings", func() error { return c.saveSettings(doc.UserSettings) }},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			return summary, fmt.Errorf("restore step %s: %w", step.name, err)
		}
		summary.StepsCompleted = append(summary.StepsCompleted, step.name)
	}
	return summary, nil
}

// validateDocument checks a parsed document before any mutation.
func validateDocument(doc *types.BackupDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: document is empty", types.ErrInvalidBackup)
	}
	if doc.ProductivityData == nil && doc.MatchFactorData == nil && doc.IssuesData == nil {
		return fmt.Errorf("%w: no productivity, match factor, or issue data found", types.ErrInvalidBackup)
	}
	return nil
}

// overwriteRecords replaces all three collections. Restore is a full
// replace, never a merge: a collection missing from the document
// becomes an empty collection, not an untouched one.
func (c *Codec) overwriteRecords(doc *types.BackupDocument, summary *RestoreSummary) error {
	productivity := doc.ProductivityData
	if productivity == nil {
		productivity = []types.ProductivitySample{}
	}
	matchFactor := doc.MatchFactorData
	if matchFactor == nil {
		matchFactor = []types.MatchFactorSample{}
	}
	issues := doc.IssuesData
	if issues == nil {
		issues = []types.IssueRecord{}
	}

	if err := c.records.Save(types.KeyProductivity, productivity); err != nil {
		return fmt.Errorf("overwriting productivity samples: %w", err)
	}
	summary.Productivity = len(productivity)
	if err := c.records.Save(types.KeyMatchFactor, matchFactor); err != nil {
		return fmt.Errorf("overwriting match factor samples: %w", err)
	}
	summary.MatchFactor = len(matchFactor)
	if err := c.records.Save(types.KeyIssues, issues); err != nil {
		return fmt.Errorf("overwriting issue records: %w", err)
	}
	summary.Issues = len(issues)
	return nil
}
