// Package redis stores the catalog snapshot in Redis via rueidis, letting
// several instances share one downloaded catalog instead of each hitting the
// upstream metadata endpoint.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/rueidis"

	"github.com/quipudata/seriedex/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const (
	snapshotKey  = "seriedex:catalog:snapshot"
	fetchedAtKey = "seriedex:catalog:fetched_at"
)

// Config holds connection parameters for a Redis store.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
}

// Store implements db.Store on top of rueidis.
type Store struct {
	client rueidis.Client
}

// NewStore creates a Redis snapshot store.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &Store{client: client}, nil
}

// NewStoreForTest wraps an existing client, for tests with rueidis mocks.
func NewStoreForTest(client rueidis.Client) *Store {
	return &Store{client: client}
}

// ReadSnapshot loads the snapshot bytes and the recorded fetch time.
func (s *Store) ReadSnapshot(ctx context.Context) (db.Snapshot, error) {
	data, err := s.client.Do(ctx, s.client.B().Get().Key(snapshotKey).Build()).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return db.Snapshot{}, db.ErrSnapshotMissing
		}
		return db.Snapshot{}, &db.Error{Op: db.OpRead, Err: err}
	}

	snap := db.Snapshot{Data: data}
	ts, err := s.client.Do(ctx, s.client.B().Get().Key(fetchedAtKey).Build()).AsInt64()
	if err == nil {
		snap.FetchedAt = time.Unix(ts, 0)
	} else if !rueidis.IsRedisNil(err) {
		return db.Snapshot{}, &db.Error{Op: db.OpRead, Err: err}
	}
	return snap, nil
}

// WriteSnapshot stores the snapshot bytes and fetch time.
func (s *Store) WriteSnapshot(ctx context.Context, snap db.Snapshot) error {
	cmds := []rueidis.Completed{
		s.client.B().Set().Key(snapshotKey).Value(rueidis.BinaryString(snap.Data)).Build(),
		s.client.B().Set().Key(fetchedAtKey).
			Value(strconv.FormatInt(snap.FetchedAt.Unix(), 10)).Build(),
	}
	for _, resp := range s.client.DoMulti(ctx, cmds...) {
		if err := resp.Error(); err != nil {
			return &db.Error{Op: db.OpWrite, Err: err}
		}
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady polls Ping until the store responds or the timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for store: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}
