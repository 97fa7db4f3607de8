// Package app holds the in-memory session state over the two stores.
// The App is the single writer of durable truth: its collections are a
// cache populated at load and kept in sync by every mutating call, and
// the record store is never re-read mid-session except at load and
// after a restore. Cross-store consistency (issue records referencing
// photo blobs) is maintained by the call ordering inside each mutating
// method; there is no transaction spanning the two engines.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/minetrics/pitvault/internal/backup"
	"github.com/minetrics/pitvault/internal/blobstore"
	"github.com/minetrics/pitvault/internal/linkage"
	"github.com/minetrics/pitvault/internal/migrate"
	"github.com/minetrics/pitvault/internal/recordstore"
	"github.com/minetrics/pitvault/pkg/types"
)

// ErrTransferInFlight is returned when a backup or restore is started
// while another one is still running. The two flows interleave
// clear/import calls on the blob store if allowed to overlap.
var ErrTransferInFlight = errors.New("a backup or restore is already in progress")

// PhotoUpload is one user-supplied photo to attach to an issue.
type PhotoUpload struct {
	Data     []byte
	MimeType string
}

// App is the session-scoped application state.
type App struct {
	records *recordstore.Store
	blobs   *blobstore.Store
	codec   *backup.Codec

	Productivity []types.ProductivitySample
	MatchFactor  []types.MatchFactorSample
	Issues       []types.IssueRecord

	transferInFlight bool
}

// New creates an App over opened stores. Call Load before use.
func New(records *recordstore.Store, blobs *blobstore.Store) *App {
	return &App{
		records: records,
		blobs:   blobs,
		codec:   backup.New(records, blobs),
	}
}

// Load runs the one-time schema migration over the issue collection
// and populates the in-memory cache.
func (a *App) Load(ctx context.Context) (migrate.Summary, error) {
	summary, err := migrate.New(a.records, a.blobs).Run(ctx)
	if err != nil {
		return summary, fmt.Errorf("migrating issue records: %w", err)
	}
	a.reload()
	return summary, nil
}

// reload refreshes the cache from the record store.
func (a *App) reload() {
	a.Productivity = []types.ProductivitySample{}
	a.MatchFactor = []types.MatchFactorSample{}
	a.Issues = []types.IssueRecord{}
	a.records.Load(types.KeyProductivity, &a.Productivity)
	a.records.Load(types.KeyMatchFactor, &a.MatchFactor)
	a.records.Load(types.KeyIssues, &a.Issues)
}

// AddProductivity derives and validates the sample, then persists the
// collection. A sample that fails validation is never stored.
func (a *App) AddProductivity(sample types.ProductivitySample) error {
	if err := sample.Derive(); err != nil {
		return err
	}
	updated := append(append([]types.ProductivitySample{}, a.Productivity...), sample)
	if err := a.records.Save(types.KeyProductivity, updated); err != nil {
		return err
	}
	a.Productivity = updated
	a.touchLastUpdate()
	return nil
}

// AddMatchFactor derives and validates the sample, then persists the
// collection.
func (a *App) AddMatchFactor(sample types.MatchFactorSample) error {
	if err := sample.Derive(); err != nil {
		return err
	}
	updated := append(append([]types.MatchFactorSample{}, a.MatchFactor...), sample)
	if err := a.records.Save(types.KeyMatchFactor, updated); err != nil {
		return err
	}
	a.MatchFactor = updated
	a.touchLastUpdate()
	return nil
}

// DeleteProductivity removes the sample at index i.
func (a *App) DeleteProductivity(i int) error {
	if i < 0 || i >= len(a.Productivity) {
		return fmt.Errorf("productivity sample %d: %w", i, types.ErrNotFound)
	}
	updated := append([]types.ProductivitySample{}, a.Productivity[:i]...)
	updated = append(updated, a.Productivity[i+1:]...)
	if err := a.records.Save(types.KeyProductivity, updated); err != nil {
		return err
	}
	a.Productivity = updated
	a.touchLastUpdate()
	return nil
}

// DeleteMatchFactor removes the sample at index i.
func (a *App) DeleteMatchFactor(i int) error {
	if i < 0 || i >= len(a.MatchFactor) {
		return fmt.Errorf("match factor sample %d: %w", i, types.ErrNotFound)
	}
	updated := append([]types.MatchFactorSample{}, a.MatchFactor[:i]...)
	updated = append(updated, a.MatchFactor[i+1:]...)
	if err := a.records.Save(types.KeyMatchFactor, updated); err != nil {
		return err
	}
	a.MatchFactor = updated
	a.touchLastUpdate()
	return nil
}

// OrphanedIssues returns the issues with no sample sharing their
// excavator id and calendar hour. Advisory only; an orphaned issue is
// still saved and displayed.
func (a *App) OrphanedIssues() []types.IssueRecord {
	var orphans []types.IssueRecord
	for _, issue := range a.Issues {
		if linkage.IsOrphaned(issue, a.Productivity, a.MatchFactor) {
			orphans = append(orphans, issue)
		}
	}
	return orphans
}

// RelatedIssues returns the issues linked to a sample's excavator and
// calendar hour, for report grouping.
func (a *App) RelatedIssues(excavatorID string, sampleTimestamp time.Time) []types.IssueRecord {
	return linkage.FindRelated(excavatorID, sampleTimestamp, a.Issues)
}

// touchLastUpdate records the time of the latest mutation. Failure to
// write the timestamp never fails the mutation that triggered it.
func (a *App) touchLastUpdate() {
	if err := a.records.Save(types.KeyLastUpdate, time.Now().UTC().Format(time.RFC3339)); err != nil {
		zap.S().Warnf("app: failed to record last update time: %v", err)
	}
}
