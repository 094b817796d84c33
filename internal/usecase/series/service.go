// Package series retrieves numeric observations for resolved series codes
// and backfills display names from the catalog.
package series

import (
	"context"
	"fmt"
	"strings"

	domser "github.com/quipudata/seriedex/internal/domain/series"
)

// Service fetches series data through the upstream client.
type Service struct {
	client   DataClient
	catalogs Snapshots
}

// New creates a series data service.
func New(client DataClient, catalogs Snapshots) *Service {
	return &Service{client: client, catalogs: catalogs}
}

// Get fetches observations for the given codes over a period expression and
// resolves display names from the active catalog. Name resolution is best
// effort: unknown codes keep an empty name, and data retrieval works even
// before the catalog is loaded.
func (s *Service) Get(ctx context.Context, codes []string, period string) (domser.Table, error) {
	if len(codes) == 0 {
		return domser.Table{}, fmt.Errorf("at least one series code is required")
	}

	start, end, err := ParsePeriod(period)
	if err != nil {
		return domser.Table{}, err
	}

	table, err := s.client.GetSeries(ctx, codes, start, end)
	if err != nil {
		return domser.Table{}, fmt.Errorf("get series: %w", err)
	}

	table.Names = make([]string, len(table.Codes))
	if cat, err := s.catalogs.Snapshot(); err == nil {
		for i, code := range table.Codes {
			if rec, ok := cat.Get(code); ok {
				table.Names[i] = rec.Name
			}
		}
	}
	return table, nil
}

// ParsePeriod expands a period expression into a start and end date.
// Accepted forms: "" (full history), "YYYY" (January through December),
// "YYYY-MM" (single period) and "start/end" ranges of either form.
func ParsePeriod(period string) (start, end string, err error) {
	period = strings.TrimSpace(period)
	if period == "" {
		return "", "", nil
	}

	parts := strings.Split(period, "/")
	switch len(parts) {
	case 1:
		if isYear(parts[0]) {
			return parts[0] + "-01", parts[0] + "-12", nil
		}
		return parts[0], parts[0], nil
	case 2:
		start, end = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if isYear(start) {
			start += "-01"
		}
		if isYear(end) {
			end += "-12"
		}
		return start, end, nil
	}
	return "", "", fmt.Errorf("invalid period %q: want \"YYYY\", \"YYYY-MM\" or \"start/end\"", period)
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
