package blobstore

import (
	"context"
	"fmt"
	"time"

	"github.com/cristalhq/base64"
	"go.uber.org/zap"

	"github.com/minetrics/pitvault/pkg/types"
)

// ExportAll scans the whole store and returns every photo re-encoded
// as base64 for portability into a backup document, oldest first.
func (s *Store) ExportAll(ctx context.Context) ([]types.PhotoExport, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT photo_id, owner_id, mime_type, size, uploaded_at, data FROM photos ORDER BY uploaded_at, photo_id",
	)
	if err != nil {
		return nil, fmt.Errorf("exporting photos: %w", err)
	}
	defer rows.Close()

	exports := []types.PhotoExport{}
	for rows.Next() {
		blob, err := hydratePhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("exporting photos: %w", err)
		}
		exports = append(exports, types.PhotoExport{
			ID:         blob.ID,
			Base64:     base64.StdEncoding.EncodeToString(blob.Data),
			MimeType:   blob.MimeType,
			Size:       blob.Size,
			OwnerID:    blob.OwnerID,
			UploadedAt: blob.UploadedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("exporting photos: %w", err)
	}
	return exports, nil
}

// ImportAll decodes and upserts the given exported photos. A failure
// on one entry is logged and counted, never fatal to the batch; the
// returned counts report how many entries landed and how many were
// skipped.
func (s *Store) ImportAll(ctx context.Context, entries []types.PhotoExport) (imported, failed int, err error) {
	db, err := s.handle()
	if err != nil {
		return 0, 0, err
	}

	for _, entry := range entries {
		data, decErr := base64.StdEncoding.DecodeString(entry.Base64)
		if decErr != nil {
			zap.S().Warnf("blob store: skipping photo %s: bad base64: %v", entry.ID, decErr)
			failed++
			continue
		}

		uploadedAt := entry.UploadedAt
		if uploadedAt.IsZero() {
			uploadedAt = time.Now().UTC()
		}
		_, execErr := db.ExecContext(ctx,
			"INSERT OR REPLACE INTO photos (photo_id, owner_id, mime_type, size, uploaded_at, data) VALUES (?, ?, ?, ?, ?, ?)",
			entry.ID, entry.OwnerID, entry.MimeType, int64(len(data)), uploadedAt.Format(time.RFC3339Nano), data,
		)
		if execErr != nil {
			zap.S().Warnf("blob store: skipping photo %s: %v", entry.ID, execErr)
			failed++
			continue
		}
		imported++
	}
	return imported, failed, nil
}
