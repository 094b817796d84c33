package catalog

import (
	"context"
	"time"

	domcat "github.com/quipudata/seriedex/internal/domain/catalog"
)

// Repository loads catalogs from the snapshot store and persists refreshed
// ones.
type Repository interface {
	Load(ctx context.Context) (*domcat.Catalog, error)
	Save(ctx context.Context, records []domcat.Record, fetchedAt time.Time) (*domcat.Catalog, error)
}

// Fetcher downloads the full record set from the upstream source.
type Fetcher interface {
	FetchMetadata(ctx context.Context) ([]domcat.Record, error)
}
