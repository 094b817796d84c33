// Package file stores the catalog snapshot as a single local file. The file's
// modification time doubles as the fetch timestamp, matching how the upstream
// cache behaves across restarts.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quipudata/seriedex/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store persists the snapshot at a fixed path.
type Store struct {
	path string
}

// NewStore creates a file-backed snapshot store. The parent directory is
// created on demand at write time, not here, so a read-only deployment can
// still serve an existing snapshot.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot path is required")
	}
	return &Store{path: path}, nil
}

// DefaultPath resolves the snapshot location: explicit override first, then
// the user cache directory, then the working directory as a last resort.
func DefaultPath(override string) string {
	const filename = "bcrp_metadata.json"
	if override != "" {
		return filepath.Join(override, filename)
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "seriedex", filename)
	}
	return filepath.Join(".", filename)
}

// ReadSnapshot loads the snapshot bytes and their mtime.
func (s *Store) ReadSnapshot(_ context.Context) (db.Snapshot, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return db.Snapshot{}, db.ErrSnapshotMissing
		}
		return db.Snapshot{}, &db.Error{Op: db.OpRead, Err: err}
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return db.Snapshot{}, &db.Error{Op: db.OpRead, Err: err}
	}
	return db.Snapshot{Data: data, FetchedAt: info.ModTime()}, nil
}

// WriteSnapshot persists the snapshot atomically via a temp file rename, so a
// crashed write never leaves a truncated snapshot behind.
func (s *Store) WriteSnapshot(_ context.Context, snap db.Snapshot) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &db.Error{Op: db.OpWrite, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return &db.Error{Op: db.OpWrite, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(snap.Data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &db.Error{Op: db.OpWrite, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &db.Error{Op: db.OpWrite, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return &db.Error{Op: db.OpWrite, Err: err}
	}
	if !snap.FetchedAt.IsZero() {
		// Best effort: mtime is only advisory staleness input.
		_ = os.Chtimes(s.path, snap.FetchedAt, snap.FetchedAt)
	}
	return nil
}

// Ping verifies the snapshot directory is reachable.
func (s *Store) Ping(_ context.Context) error {
	if _, err := os.Stat(filepath.Dir(s.path)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close is a no-op for the file store.
func (s *Store) Close() {}
