// Package migrate upgrades legacy-shaped issue records in place:
// inline base64 photo payloads are relocated into the blob store and
// replaced by blob references, and singular delay/productivity fields
// are promoted to the array form. The pass is safe to run on every
// application start; detection of the legacy shape is the only gate,
// and records already in the current shape are no-ops.
package migrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/cristalhq/base64"
	"go.uber.org/zap"

	"github.com/minetrics/pitvault/internal/blobstore"
	"github.com/minetrics/pitvault/internal/recordstore"
	"github.com/minetrics/pitvault/pkg/types"
)

// fallbackMimeType is assumed when a legacy payload carries no data
// URL prefix naming its type.
const fallbackMimeType = "image/jpeg"

// Summary reports the outcome of one migration pass.
type Summary struct {
	Scanned  int
	Migrated int
	Failed   int
}

// Migrator rewrites the issue collection to the current record shape.
type Migrator struct {
	records *recordstore.Store
	blobs   *blobstore.Store
}

// New creates a Migrator over the two stores.
func New(records *recordstore.Store, blobs *blobstore.Store) *Migrator {
	return &Migrator{records: records, blobs: blobs}
}

// Run migrates every legacy-shaped issue record. A per-record failure
// is logged and counted, and the pass continues with the remaining
// records. The issue collection is saved once at the end, not per
// record. Running twice in a row leaves identical state.
func (m *Migrator) Run(ctx context.Context) (Summary, error) {
	var issues []types.IssueRecord
	if !m.records.Load(types.KeyIssues, &issues) {
		return Summary{}, nil
	}

	summary := Summary{Scanned: len(issues)}
	changed := false
	for i := range issues {
		migrated, err := m.migrateRecord(ctx, &issues[i])
		if err != nil {
			zap.S().Warnf("migrate: issue %s: %v", issues[i].ID, err)
			summary.Failed++
			continue
		}
		if migrated {
			summary.Migrated++
			changed = true
		}
	}

	if changed {
		if err := m.records.Save(types.KeyIssues, issues); err != nil {
			return summary, fmt.Errorf("saving migrated issues: %w", err)
		}
	}
	if summary.Migrated > 0 || summary.Failed > 0 {
		zap.S().Infof("migrate: %d issues scanned, %d migrated, %d failed",
			summary.Scanned, summary.Migrated, summary.Failed)
	}
	return summary, nil
}

// migrateRecord rewrites one record if it carries a legacy shape.
// Reports whether anything changed. On error the record is left
// untouched so a later pass can retry it.
func (m *Migrator) migrateRecord(ctx context.Context, issue *types.IssueRecord) (bool, error) {
	changed := false

	if issue.PhotoData != "" && len(issue.PhotoIDs) == 0 {
		mimeType, data, err := decodeInlinePhoto(issue.PhotoData)
		if err != nil {
			return false, fmt.Errorf("decoding inline photo: %w", err)
		}
		id, err := m.blobs.Put(ctx, data, mimeType, issue.ID+types.OwnerSuffixDocumentation)
		if err != nil {
			return false, fmt.Errorf("relocating inline photo: %w", err)
		}
		issue.PhotoIDs = []string{id}
		issue.PhotoData = ""
		changed = true
	}

	// Promote singular legacy fields to the array form; readers accept
	// both, writers persist arrays only.
	if len(issue.DelayEntries) == 0 && issue.Delay != nil {
		issue.DelayEntries = []types.DelayEntry{*issue.Delay}
		issue.Delay = nil
		changed = true
	}
	if len(issue.ProductivityEntries) == 0 && issue.Productivity != nil {
		issue.ProductivityEntries = []types.ProductivityIssueEntry{*issue.Productivity}
		issue.Productivity = nil
		changed = true
	}

	return changed, nil
}

// decodeInlinePhoto decodes a legacy inline payload, which is either a
// data URL ("data:image/png;base64,...") or a bare base64 string.
func decodeInlinePhoto(payload string) (mimeType string, data []byte, err error) {
	mimeType = fallbackMimeType
	encoded := payload
	if strings.HasPrefix(payload, "data:") {
		header, rest, ok := strings.Cut(payload[len("data:"):], ",")
		if !ok {
			return "", nil, fmt.Errorf("malformed data URL")
		}
		encoded = rest
		if mt, ok := strings.CutSuffix(header, ";base64"); ok && mt != "" {
			mimeType = mt
		}
	}
	data, err = base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, err
	}
	return mimeType, data, nil
}
