package series

import (
	"context"

	"github.com/quipudata/seriedex/internal/domain/catalog"
	domser "github.com/quipudata/seriedex/internal/domain/series"
)

// DataClient fetches observations from the upstream data API.
type DataClient interface {
	GetSeries(ctx context.Context, codes []string, startDate, endDate string) (domser.Table, error)
}

// Snapshots hands out the active catalog snapshot for name resolution.
type Snapshots interface {
	Snapshot() (*catalog.Catalog, error)
}
