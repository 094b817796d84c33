package seriedex

import (
	"context"
	"fmt"

	domcat "github.com/quipudata/seriedex/internal/domain/catalog"
	domres "github.com/quipudata/seriedex/internal/domain/resolve"
)

// Record is one catalog entry: a single statistical series.
type Record struct {
	Code     string
	Name     string
	Aliases  []string
	Category string
	// Frequency is one of "daily", "monthly", "quarterly", "annual". When
	// empty it is derived from the code suffix.
	Frequency string
	Unit      string
	Keywords  []string
}

func (r Record) toDomain() domcat.Record {
	return domcat.Record{
		Code:      r.Code,
		Name:      r.Name,
		Aliases:   r.Aliases,
		Category:  r.Category,
		Frequency: domcat.Frequency(r.Frequency),
		Unit:      r.Unit,
		Keywords:  r.Keywords,
	}
}

// Kind tags the resolution outcome variant.
type Kind string

const (
	// Match is a single deterministic winner.
	Match Kind = "match"
	// Ambiguous means several near-tied leaders; refine the query.
	Ambiguous Kind = "ambiguous"
	// NoMatch means nothing scored close enough.
	NoMatch Kind = "no_match"
)

// Candidate is one near-tied leader in an ambiguous outcome.
type Candidate struct {
	Code  string
	Name  string
	Score float64
}

// Outcome is the result of resolving one query. Exactly one variant's fields
// are populated, tagged by Kind.
type Outcome struct {
	Kind Kind

	// Match fields.
	Code       string
	Name       string
	Confidence float64

	// Ambiguous fields.
	Candidates []Candidate
	Gap        float64

	// NoMatch detail.
	Reason string
}

// Resolve maps a Spanish free-text query to a unique series, or reports
// ambiguity or no match. Identical queries against the same catalog snapshot
// always return the same outcome.
func (c *Client) Resolve(ctx context.Context, query string) (Outcome, error) {
	out, err := c.resolver.Search(ctx, query)
	if err != nil {
		return Outcome{}, fmt.Errorf("resolve: %w", err)
	}
	return fromOutcome(out), nil
}

func fromOutcome(o domres.Outcome) Outcome {
	out := Outcome{
		Kind:       Kind(o.Kind),
		Code:       o.Code,
		Name:       o.Name,
		Confidence: o.Confidence,
		Gap:        o.Gap,
		Reason:     o.Reason,
	}
	if len(o.Candidates) > 0 {
		out.Candidates = make([]Candidate, len(o.Candidates))
		for i, cand := range o.Candidates {
			out.Candidates[i] = Candidate{
				Code:  cand.Record.Code,
				Name:  cand.Record.Name,
				Score: cand.Score,
			}
		}
	}
	return out
}
