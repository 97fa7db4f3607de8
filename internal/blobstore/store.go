// Package blobstore implements the transactional object store for
// binary photo payloads, keyed by photo identifier with a secondary
// index on the owning issue record. Photos live here so the
// size-constrained record store never carries binary data.
//
// Every operation takes a context and suspends the caller until the
// underlying SQLite transaction settles. Batch operations follow a
// partial-result policy: one item's failure is logged and skipped, it
// never aborts the rest of the batch.
package blobstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/minetrics/pitvault/pkg/types"
)

const dbFileName = "photos.db"

// Store is the photo blob store. The zero value is not usable; create
// with NewStore and call Open before use.
type Store struct {
	mu   sync.RWMutex
	db   *sql.DB
	open bool
}

// NewStore creates an unopened blob store.
func NewStore() *Store {
	return &Store{}
}

// Open establishes the photo object store under config.DataDir,
// creating the database file and schema on first use. Open is
// idempotent: opening an already-open store is a no-op. Failures wrap
// ErrStorageUnavailable, which is fatal to the application.
func (s *Store) Open(ctx context.Context, config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return nil
	}
	if err := config.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return fmt.Errorf("%w: create data directory: %v", types.ErrStorageUnavailable, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(config.DataDir, dbFileName))
	if err != nil {
		return fmt.Errorf("%w: open photo store: %v", types.ErrStorageUnavailable, err)
	}

	for _, ddl := range schemaDDL {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			db.Close()
			return fmt.Errorf("%w: initialize photo schema: %v", types.ErrStorageUnavailable, err)
		}
	}

	s.db = db
	s.open = true
	return nil
}

// Close releases the database handle. Idempotent; operations after
// Close return ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil
	}
	s.open = false
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing photo store: %w", err)
	}
	s.db = nil
	return nil
}

// handle returns the database handle or ErrStoreClosed.
func (s *Store) handle() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.open {
		return nil, types.ErrStoreClosed
	}
	return s.db, nil
}

// Put stores a payload under a freshly generated identifier and
// returns it. Put never overwrites an existing photo; every call
// allocates a new time-ordered id.
func (s *Store) Put(ctx context.Context, data []byte, mimeType, ownerID string) (string, error) {
	db, err := s.handle()
	if err != nil {
		return "", err
	}

	id := generatePhotoID()
	uploadedAt := time.Now().UTC()
	_, err = db.ExecContext(ctx,
		"INSERT INTO photos (photo_id, owner_id, mime_type, size, uploaded_at, data) VALUES (?, ?, ?, ?, ?, ?)",
		id, ownerID, mimeType, int64(len(data)), uploadedAt.Format(time.RFC3339Nano), data,
	)
	if err != nil {
		return "", fmt.Errorf("storing photo for %s: %w", ownerID, err)
	}
	return id, nil
}

// Get retrieves one photo by id. Returns ErrNotFound if absent.
func (s *Store) Get(ctx context.Context, id string) (*types.PhotoBlob, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx,
		"SELECT photo_id, owner_id, mime_type, size, uploaded_at, data FROM photos WHERE photo_id = ?",
		id,
	)
	blob, err := hydratePhoto(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("photo %s: %w", id, types.ErrNotFound)
		}
		return nil, fmt.Errorf("getting photo %s: %w", id, err)
	}
	return blob, nil
}

// GetMany retrieves photos for the given ids, best-effort: an id that
// fails to load is logged and omitted from the result rather than
// failing the whole batch.
func (s *Store) GetMany(ctx context.Context, ids []string) ([]*types.PhotoBlob, error) {
	if _, err := s.handle(); err != nil {
		return nil, err
	}

	blobs := make([]*types.PhotoBlob, 0, len(ids))
	for _, id := range ids {
		blob, err := s.Get(ctx, id)
		if err != nil {
			zap.S().Warnf("blob store: skipping photo %s: %v", id, err)
			continue
		}
		blobs = append(blobs, blob)
	}
	return blobs, nil
}

// GetByOwner scans the owner index and returns all photos owned by
// ownerID, oldest first. Returns an empty slice when there are none.
func (s *Store) GetByOwner(ctx context.Context, ownerID string) ([]*types.PhotoBlob, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT photo_id, owner_id, mime_type, size, uploaded_at, data FROM photos WHERE owner_id = ? ORDER BY uploaded_at, photo_id",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning photos for %s: %w", ownerID, err)
	}
	defer rows.Close()

	blobs := []*types.PhotoBlob{}
	for rows.Next() {
		blob, err := hydratePhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning photos for %s: %w", ownerID, err)
		}
		blobs = append(blobs, blob)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scanning photos for %s: %w", ownerID, err)
	}
	return blobs, nil
}

// Delete removes one photo. Deleting an absent id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM photos WHERE photo_id = ?", id); err != nil {
		return fmt.Errorf("deleting photo %s: %w", id, err)
	}
	return nil
}

// DeleteMany removes the given photos best-effort. A failure on one id
// is logged and swallowed so the remaining photos are still removed;
// the batch itself never fails once the store is open.
func (s *Store) DeleteMany(ctx context.Context, ids []string) error {
	if _, err := s.handle(); err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			zap.S().Warnf("blob store: failed to delete photo %s: %v", id, err)
		}
	}
	return nil
}

// Clear removes all photos. Used before a restore.
func (s *Store) Clear(ctx context.Context) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM photos"); err != nil {
		return fmt.Errorf("clearing photo store: %w", err)
	}
	return nil
}

// UsageStats scans the store and returns photo count and total payload
// bytes. Computed live on every call, never cached.
func (s *Store) UsageStats(ctx context.Context) (types.BlobStats, error) {
	db, err := s.handle()
	if err != nil {
		return types.BlobStats{}, err
	}

	var stats types.BlobStats
	row := db.QueryRowContext(ctx, "SELECT COUNT(*), COALESCE(SUM(size), 0) FROM photos")
	if err := row.Scan(&stats.Count, &stats.TotalBytes); err != nil {
		return types.BlobStats{}, fmt.Errorf("sizing photo store: %w", err)
	}
	return stats, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for hydration.
type rowScanner interface {
	Scan(dest ...any) error
}

// hydratePhoto scans one photos row into a PhotoBlob.
func hydratePhoto(row rowScanner) (*types.PhotoBlob, error) {
	var blob types.PhotoBlob
	var uploadedAt string
	if err := row.Scan(&blob.ID, &blob.OwnerID, &blob.MimeType, &blob.Size, &uploadedAt, &blob.Data); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, uploadedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing uploaded_at %q: %w", uploadedAt, err)
	}
	blob.UploadedAt = t
	return &blob, nil
}

// generatePhotoID returns a new time-ordered UUID v7 identifier,
// falling back to UUID v4 if v7 generation fails.
func generatePhotoID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
