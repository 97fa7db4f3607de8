package app

import (
	"context"
	"fmt"

	"github.com/minetrics/pitvault/internal/backup"
	"github.com/minetrics/pitvault/pkg/types"
)

// ConfirmationSummary is the plain data handed to the caller before a
// destructive operation. It crosses the core/UI boundary as values
// only; the decision comes back as a boolean.
type ConfirmationSummary struct {
	Productivity int
	MatchFactor  int
	Issues       int
	Photos       types.BlobStats
	LastUpdate   string
}

// Summarize computes the current state counts for a confirmation
// prompt. Always computed live, never cached.
func (a *App) Summarize(ctx context.Context) (ConfirmationSummary, error) {
	stats, err := a.blobs.UsageStats(ctx)
	if err != nil {
		return ConfirmationSummary{}, err
	}
	summary := ConfirmationSummary{
		Productivity: len(a.Productivity),
		MatchFactor:  len(a.MatchFactor),
		Issues:       len(a.Issues),
		Photos:       stats,
	}
	a.records.Load(types.KeyLastUpdate, &summary.LastUpdate)
	return summary, nil
}

// ExportBackup assembles a backup document. Serialized against other
// transfers: a concurrent export/restore returns ErrTransferInFlight.
func (a *App) ExportBackup(ctx context.Context) (*types.BackupDocument, error) {
	if err := a.beginTransfer(); err != nil {
		return nil, err
	}
	defer a.endTransfer()
	return a.codec.Export(ctx)
}

// RestoreBackup replaces both stores with the document's state and
// refreshes the in-memory cache. Serialized against other transfers.
func (a *App) RestoreBackup(ctx context.Context, doc *types.BackupDocument) (*backup.RestoreSummary, error) {
	if err := a.beginTransfer(); err != nil {
		return nil, err
	}
	defer a.endTransfer()

	summary, err := a.codec.Restore(ctx, doc)
	if err != nil {
		// The stores may be in a mixed state; reflect whatever landed.
		a.reload()
		return summary, err
	}
	a.reload()
	return summary, nil
}

// ClearAll wipes both stores and the cache.
func (a *App) ClearAll(ctx context.Context) error {
	if err := a.beginTransfer(); err != nil {
		return err
	}
	defer a.endTransfer()

	if err := a.blobs.Clear(ctx); err != nil {
		return fmt.Errorf("clearing photo store: %w", err)
	}
	if err := a.records.ClearAll(); err != nil {
		return fmt.Errorf("clearing record store: %w", err)
	}
	a.reload()
	return nil
}

// OverSoftLimit surfaces the record store's size warning so callers
// can advise a backup and prune before the quota is hit.
func (a *App) OverSoftLimit() (bool, int64) {
	return a.records.OverSoftLimit()
}

func (a *App) beginTransfer() error {
	if a.transferInFlight {
		return ErrTransferInFlight
	}
	a.transferInFlight = true
	return nil
}

func (a *App) endTransfer() {
	a.transferInFlight = false
}
