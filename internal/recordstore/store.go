// Package recordstore implements the synchronous, quota-bounded store
// for structured record collections and user preferences. Each key maps
// to one JSON file under the data directory; writes are atomic via the
// temp-file, sync, rename pattern, and a write that would push the
// store past its quota is rejected before the previous value is
// touched.
package recordstore

import (
	"fmt"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/minetrics/pitvault/pkg/types"
)

const (
	recordsDirName = "records"
	fileExt        = ".json"
	probeKey       = ".probe"
)

// Store is a synchronous key-value store over a filesystem. Operations
// never suspend; callers on the same key are serialized by the
// application's single-writer session layer, not by the store.
type Store struct {
	fs        afero.Fs
	dir       string
	quota     int64
	softLimit int64
}

// Open prepares the records directory and probes it with a throwaway
// write so a broken storage location fails fast at startup instead of
// silently losing data later. Failures wrap ErrStorageUnavailable.
func Open(fs afero.Fs, config types.Config) (*Store, error) {
	config = config.WithDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	dir := filepath.Join(config.DataDir, recordsDirName)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create records directory: %v", types.ErrStorageUnavailable, err)
	}

	s := &Store{
		fs:        fs,
		dir:       dir,
		quota:     config.QuotaBytes,
		softLimit: config.SoftLimitBytes,
	}
	if !s.Available() {
		return nil, fmt.Errorf("%w: write probe failed in %s", types.ErrStorageUnavailable, dir)
	}
	return s, nil
}

// Save JSON-encodes v and writes it under key. Returns
// ErrQuotaExceeded when the encoded payload would push total store
// usage past the quota; the previously stored value for the key
// remains committed and readable in that case.
func (s *Store) Save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	if s.quota > 0 {
		used, err := s.usageExcluding(key)
		if err != nil {
			return fmt.Errorf("sizing store for %s: %w", key, err)
		}
		if used+int64(len(data)) > s.quota {
			return fmt.Errorf("writing %s (%d bytes, %d already used): %w",
				key, len(data), used, types.ErrQuotaExceeded)
		}
	}

	return s.writeAtomic(s.path(key), data)
}

// Load JSON-decodes the value stored under key into v. Returns false
// and leaves v untouched when the key is missing or the stored data
// does not decode; corrupt data must not crash the caller, it reads as
// the caller's default.
func (s *Store) Load(key string, v any) bool {
	data, err := afero.ReadFile(s.fs, s.path(key))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		zap.S().Warnf("record store: corrupt data under %q, using default: %v", key, err)
		return false
	}
	return true
}

// Remove deletes the value stored under key. Removing a missing key is
// not an error.
func (s *Store) Remove(key string) error {
	err := s.fs.Remove(s.path(key))
	if err == nil {
		return nil
	}
	if exists, _ := afero.Exists(s.fs, s.path(key)); !exists {
		return nil
	}
	return fmt.Errorf("removing %s: %w", key, err)
}

// ClearAll removes every stored key. Used by the clear-all-data flow.
func (s *Store) ClearAll() error {
	infos, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return fmt.Errorf("listing records directory: %w", err)
	}
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), fileExt) {
			continue
		}
		if err := s.fs.Remove(filepath.Join(s.dir, info.Name())); err != nil {
			return fmt.Errorf("removing %s: %w", info.Name(), err)
		}
	}
	return nil
}

// Available probes the store with a throwaway write and delete.
func (s *Store) Available() bool {
	path := s.path(probeKey)
	if err := afero.WriteFile(s.fs, path, []byte("probe"), 0o644); err != nil {
		return false
	}
	return s.fs.Remove(path) == nil
}

// EstimateSize returns the combined serialized byte size of the given
// keys. Missing keys contribute zero.
func (s *Store) EstimateSize(keys ...string) int64 {
	var total int64
	for _, key := range keys {
		info, err := s.fs.Stat(s.path(key))
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total
}

// OverSoftLimit reports whether the three structured collections
// together exceed the soft threshold, along with their combined size.
// Callers surface this as a back-up-and-prune warning, not an error.
func (s *Store) OverSoftLimit() (bool, int64) {
	size := s.EstimateSize(types.CollectionKeys...)
	return s.softLimit > 0 && size > s.softLimit, size
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

// usageExcluding sums the sizes of all stored files except the one
// backing key, so overwriting a key is charged only for its new size.
func (s *Store) usageExcluding(key string) (int64, error) {
	infos, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return 0, err
	}
	skip := key + fileExt
	var total int64
	for _, info := range infos {
		if info.IsDir() || info.Name() == skip || !strings.HasSuffix(info.Name(), fileExt) {
			continue
		}
		total += info.Size()
	}
	return total, nil
}

// writeAtomic writes data to path via a temp file in the same
// directory followed by a rename, so readers never observe a torn
// write and a failed write leaves the previous value in place.
func (s *Store) writeAtomic(path string, data []byte) error {
	tmp, err := afero.TempFile(s.fs, s.dir, ".record-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("writing record: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := s.fs.Rename(tmpName, path); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
