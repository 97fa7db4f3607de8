// Package backup serializes the full application state into a single
// portable JSON document and restores it. Export is lossless; restore
// is a full replace of both stores, best-effort atomic: photo import
// failures are logged and do not abort the structured-data restore,
// and there is no rollback across the two stores. Callers must not run
// two backup/restore operations concurrently; the session layer
// serializes them with an in-flight flag.
package backup

import (
	"bytes"
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/minetrics/pitvault/internal/blobstore"
	"github.com/minetrics/pitvault/internal/recordstore"
	"github.com/minetrics/pitvault/pkg/types"
)

// Codec reads and writes whole-application backups over the two stores.
type Codec struct {
	records *recordstore.Store
	blobs   *blobstore.Store
}

// New creates a Codec over the two stores.
func New(records *recordstore.Store, blobs *blobstore.Store) *Codec {
	return &Codec{records: records, blobs: blobs}
}

// Export assembles a backup document from the live stores. Metadata
// counts are computed from the collections at call time, never cached.
func (c *Codec) Export(ctx context.Context) (*types.BackupDocument, error) {
	productivity := []types.ProductivitySample{}
	matchFactor := []types.MatchFactorSample{}
	issues := []types.IssueRecord{}
	c.records.Load(types.KeyProductivity, &productivity)
	c.records.Load(types.KeyMatchFactor, &matchFactor)
	c.records.Load(types.KeyIssues, &issues)

	images, err := c.blobs.ExportAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting photos: %w", err)
	}

	doc := &types.BackupDocument{
		Version:          types.BackupVersion,
		ExportDate:       time.Now().UTC(),
		ProductivityData: productivity,
		MatchFactorData:  matchFactor,
		IssuesData:       issues,
		ImagesData:       images,
		UserSettings:     c.loadSettings(),
		Metadata: types.BackupMetadata{
			TotalProductivity: len(productivity),
			TotalMatchFactor:  len(matchFactor),
			TotalIssues:       len(issues),
			TotalImages:       len(images),
			TotalRecords:      len(productivity) + len(matchFactor) + len(issues),
		},
	}
	return doc, nil
}

// Encode renders a backup document as indented UTF-8 JSON, the unit
// handed to the file collaborator.
func Encode(doc *types.BackupDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding backup: %w", err)
	}
	return data, nil
}

// Decode validates raw backup bytes and parses them into a document.
func Decode(data []byte) (*types.BackupDocument, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var doc types.BackupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidBackup, err)
	}
	return &doc, nil
}

// collectionFields lists the structured-data arrays a backup may carry.
// A document missing all of them is rejected; a document missing
// imagesData is a legal legacy backup.
var collectionFields = []string{"productivityData", "matchFactorData", "issuesData"}

// Validate runs the structural checks on raw backup bytes: the
// document must be a JSON object, carry at least one of the three
// structured collections, and every present collection must be an
// array. The returned error names the failed check in plain words and
// wraps ErrInvalidBackup.
func Validate(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: file is not a JSON object", types.ErrInvalidBackup)
	}

	present := 0
	for _, name := range collectionFields {
		raw, ok := fields[name]
		if !ok || isJSONNull(raw) {
			continue
		}
		if !isJSONArray(raw) {
			return fmt.Errorf("%w: %s is not an array", types.ErrInvalidBackup, name)
		}
		present++
	}
	if present == 0 {
		return fmt.Errorf("%w: no productivity, match factor, or issue data found", types.ErrInvalidBackup)
	}

	if raw, ok := fields["imagesData"]; ok && !isJSONNull(raw) && !isJSONArray(raw) {
		return fmt.Errorf("%w: imagesData is not an array", types.ErrInvalidBackup)
	}
	return nil
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// loadSettings snapshots the user preference keys. Missing keys stay
// at their zero values; an all-zero snapshot is omitted from exports.
func (c *Codec) loadSettings() *types.UserSettings {
	var settings types.UserSettings
	found := false
	found = c.records.Load(types.KeyUserName, &settings.UserName) || found
	found = c.records.Load(types.KeyUserBadge, &settings.BadgeNumber) || found
	found = c.records.Load(types.KeyLastUpdate, &settings.LastUpdate) || found
	found = c.records.Load(types.KeySidebarCollapsed, &settings.SidebarCollapsed) || found
	found = c.records.Load(types.KeyExpandedState, &settings.ExpandedState) || found
	if !found {
		return nil
	}
	return &settings
}

// saveSettings writes the user preference keys present in a backup.
func (c *Codec) saveSettings(settings *types.UserSettings) error {
	if settings == nil {
		return nil
	}
	writes := []struct {
		key   string
		value any
	}{
		{types.KeyUserName, settings.UserName},
		{types.KeyUserBadge, settings.BadgeNumber},
		{types.KeyLastUpdate, settings.LastUpdate},
		{types.KeySidebarCollapsed, settings.SidebarCollapsed},
		{types.KeyExpandedState, settings.ExpandedState},
	}
	for _, w := range writes {
		if err := c.records.Save(w.key, w.value); err != nil {
			return fmt.Errorf("restoring setting %s: %w", w.key, err)
		}
	}
	return nil
}
