// Package catalog owns the catalog lifecycle: load once at startup, report
// staleness, and replace the whole snapshot atomically on refresh. Searches
// read whichever snapshot is active when they start; they never observe a
// half-updated catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/quipudata/seriedex/internal/db"
	domcat "github.com/quipudata/seriedex/internal/domain/catalog"
	"github.com/quipudata/seriedex/internal/metrics"
)

// Status is the orchestration view of the catalog, for callers deciding
// whether to trigger a refresh.
type Status struct {
	Loaded      bool
	RecordCount int
	IsStale     bool
	LoadedAt    time.Time
}

// Manager holds the active catalog snapshot behind an atomic pointer.
type Manager struct {
	repo    Repository
	fetcher Fetcher
	maxAge  time.Duration
	logger  *zap.Logger

	active atomic.Pointer[domcat.Catalog]

	// refreshMu single-flights refreshes; concurrent searches are unaffected
	// since they only read the pointer.
	refreshMu sync.Mutex

	now func() time.Time
}

// NewManager creates a catalog manager. fetcher may be nil when no upstream
// is configured; Load then requires an existing snapshot.
func NewManager(repo Repository, fetcher Fetcher, maxAge time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		repo:    repo,
		fetcher: fetcher,
		maxAge:  maxAge,
		logger:  logger,
		now:     time.Now,
	}
}

// Snapshot returns the active catalog, or catalog.ErrNotReady before the
// first successful load.
func (m *Manager) Snapshot() (*domcat.Catalog, error) {
	cat := m.active.Load()
	if cat == nil {
		return nil, domcat.ErrNotReady
	}
	return cat, nil
}

// Load makes a catalog active: from the stored snapshot when one exists,
// otherwise via a full upstream fetch. It is the only startup path; search
// fails with ErrNotReady until it succeeds.
func (m *Manager) Load(ctx context.Context) error {
	start := m.now()

	cat, err := m.repo.Load(ctx)
	switch {
	case err == nil:
		m.swap(cat, start)
		m.logger.Info("catalog loaded from snapshot",
			zap.Int("records", cat.Len()),
			zap.Time("fetched_at", cat.LoadedAt()),
		)
		return nil
	case errors.Is(err, db.ErrSnapshotMissing):
		m.logger.Info("no catalog snapshot, fetching from upstream")
		return m.Refresh(ctx)
	default:
		return fmt.Errorf("load catalog: %w", err)
	}
}

// Refresh downloads the full record set, persists it and swaps the active
// snapshot. A failed or cancelled refresh leaves the previous snapshot (if
// any) fully usable.
func (m *Manager) Refresh(ctx context.Context) error {
	if m.fetcher == nil {
		return fmt.Errorf("refresh catalog: no upstream fetcher configured")
	}

	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	start := m.now()
	records, err := m.fetcher.FetchMetadata(ctx)
	if err != nil {
		return fmt.Errorf("fetch metadata: %w", err)
	}

	cat, err := m.repo.Save(ctx, records, m.now())
	if err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}

	m.swap(cat, start)
	m.logger.Info("catalog refreshed", zap.Int("records", cat.Len()))
	return nil
}

// Loaded reports whether a snapshot is active.
func (m *Manager) Loaded() bool {
	return m.active.Load() != nil
}

// Status reports load state, record count and staleness.
func (m *Manager) Status() Status {
	cat := m.active.Load()
	if cat == nil {
		return Status{}
	}
	return Status{
		Loaded:      true,
		RecordCount: cat.Len(),
		IsStale:     cat.StaleAfter(m.maxAge, m.now()),
		LoadedAt:    cat.LoadedAt(),
	}
}

func (m *Manager) swap(cat *domcat.Catalog, start time.Time) {
	m.active.Store(cat)
	metrics.CatalogRecords.Set(float64(cat.Len()))
	metrics.CatalogLoadDuration.Observe(m.now().Sub(start).Seconds())
}
