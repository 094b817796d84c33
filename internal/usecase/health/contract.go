package health

import "context"

// StorePinger checks snapshot store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// CatalogChecker reports whether a catalog snapshot is active.
type CatalogChecker interface {
	Loaded() bool
}
