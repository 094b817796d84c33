// Package db abstracts where the serialized catalog snapshot lives between
// runs. The resolver core only needs bytes in and bytes out; drivers decide
// whether that is a local cache file or a shared Redis instance.
package db

import (
	"context"
	"time"
)

// Snapshot is the raw serialized catalog plus the time it was fetched from
// the upstream source. FetchedAt drives staleness detection.
type Snapshot struct {
	Data      []byte
	FetchedAt time.Time
}

// Store persists catalog snapshots between runs. Reading a missing snapshot
// returns ErrSnapshotMissing so callers can fall back to a remote download.
type Store interface {
	ReadSnapshot(ctx context.Context) (Snapshot, error)
	WriteSnapshot(ctx context.Context, snap Snapshot) error
	Ping(ctx context.Context) error
	Close()
}
