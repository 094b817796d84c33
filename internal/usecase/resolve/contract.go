package resolve

import "github.com/quipudata/seriedex/internal/domain/catalog"

// Snapshots hands out the active catalog snapshot. Implementations must
// return catalog.ErrNotReady until a snapshot has been loaded, and must swap
// snapshots atomically so an in-flight search observes exactly one of them.
type Snapshots interface {
	Snapshot() (*catalog.Catalog, error)
}
