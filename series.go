package seriedex

import (
	"context"
	"fmt"

	domser "github.com/quipudata/seriedex/internal/domain/series"
)

// Table holds the observations for one data request. Each row carries one
// value per requested code, in request order; nil marks observations the
// upstream reported as unavailable.
type Table struct {
	Codes []string
	Names []string
	Rows  []Row
}

// Row is one observation period.
type Row struct {
	Period string
	Values []*float64
}

// Series fetches observations for the given series codes. period is empty
// for the full history, a year ("2024"), a single month ("2024-03"), or a
// range ("2023/2024", "2023-01/2024-06").
func (c *Client) Series(ctx context.Context, codes []string, period string) (Table, error) {
	table, err := c.series.Get(ctx, codes, period)
	if err != nil {
		return Table{}, fmt.Errorf("series: %w", err)
	}
	return fromTable(table), nil
}

func fromTable(t domser.Table) Table {
	out := Table{Codes: t.Codes, Names: t.Names}
	if len(t.Rows) > 0 {
		out.Rows = make([]Row, len(t.Rows))
		for i, r := range t.Rows {
			out.Rows[i] = Row{Period: r.Period, Values: r.Values}
		}
	}
	return out
}

// LookupResult pairs a resolution outcome with the matched series data.
type LookupResult struct {
	Outcome Outcome
	// Data is populated only when Outcome.Kind is Match.
	Data Table
}

// Lookup resolves a query and, on a unique match, fetches the observations
// for the given period in one call. Ambiguity and no-match come back in the
// outcome without touching the data API.
func (c *Client) Lookup(ctx context.Context, query, period string) (LookupResult, error) {
	outcome, err := c.Resolve(ctx, query)
	if err != nil {
		return LookupResult{}, err
	}

	res := LookupResult{Outcome: outcome}
	if outcome.Kind != Match {
		return res, nil
	}

	res.Data, err = c.Series(ctx, []string{outcome.Code}, period)
	if err != nil {
		return LookupResult{}, fmt.Errorf("lookup %s: %w", outcome.Code, err)
	}
	return res, nil
}
