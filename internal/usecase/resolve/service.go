// Package resolve implements the deterministic five-stage search pipeline:
// canonicalize, extract attributes, hard-filter, score, resolve. The same
// query against the same catalog snapshot always produces a byte-identical
// outcome; there is no probabilistic fallback.
package resolve

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/quipudata/seriedex/internal/domain/catalog"
	domres "github.com/quipudata/seriedex/internal/domain/resolve"
	"github.com/quipudata/seriedex/internal/textnorm"
)

// Pipeline constants. All thresholds are frozen: they are never learned,
// configured or query-dependent, which keeps outcomes reproducible across
// process restarts.
const (
	// minScore is the minimum final score a candidate needs to be considered
	// at all. Below it the outcome is no-match.
	minScore = 80.0

	// separationBand is the minimum gap between the top score and the
	// runner-up for the top candidate to win outright. Leaders closer than
	// this are reported together as an ambiguity.
	separationBand = 5.0

	// missingTokenPenalty is subtracted per query token absent from the
	// record's token set, so extra query terms the record cannot account for
	// push it down.
	missingTokenPenalty = 5.0

	// attributeBonus is added per explicitly satisfied attribute constraint.
	// attributeBonusCap keeps attribute agreement from overturning a large
	// textual-similarity gap.
	attributeBonus    = 3.0
	attributeBonusCap = 6.0
)

// No-match reasons surfaced on the outcome.
const (
	reasonEmptyQuery   = "empty_query"
	reasonEmptyCatalog = "empty_catalog"
	reasonFiltered     = "filters_eliminated_all"
	reasonLowScore     = "low_score"
)

// Service resolves free-text queries against the active catalog snapshot.
type Service struct {
	catalogs Snapshots
}

// New creates a resolution service.
func New(catalogs Snapshots) *Service {
	return &Service{catalogs: catalogs}
}

// Search resolves a raw query into a tagged outcome. It is total for any
// query string: malformed or empty input canonicalizes to zero tokens and
// yields a deterministic no-match. The only error condition is the catalog
// not being loaded yet.
func (s *Service) Search(_ context.Context, query string) (domres.Outcome, error) {
	cat, err := s.catalogs.Snapshot()
	if err != nil {
		return domres.Outcome{}, fmt.Errorf("catalog snapshot: %w", err)
	}

	if cat.Len() == 0 {
		return domres.NewNoMatch(reasonEmptyCatalog), nil
	}

	tokens := textnorm.Canonicalize(query)
	if len(tokens) == 0 {
		return domres.NewNoMatch(reasonEmptyQuery), nil
	}
	attrs := domres.Extract(tokens)

	survivors := hardFilter(cat.Records(), attrs)
	if len(survivors) == 0 {
		return domres.NewNoMatch(reasonFiltered), nil
	}

	candidates := score(survivors, tokens, attrs)
	return resolveOutcome(candidates), nil
}

// Attributes returns the attribute constraints the pipeline would extract
// from query. Exposed for diagnostics.
func (s *Service) Attributes(query string) domres.AttributeSet {
	return domres.Extract(textnorm.Canonicalize(query))
}

// hardFilter eliminates records whose explicit tags conflict with a
// constraining query attribute. Untagged kinds never eliminate: absence of
// metadata is not a mismatch. This stage is pure elimination, never scoring.
func hardFilter(records []*catalog.Record, attrs domres.AttributeSet) []*catalog.Record {
	out := make([]*catalog.Record, 0, len(records))
	for _, r := range records {
		if conflicts(r, attrs) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func conflicts(r *catalog.Record, attrs domres.AttributeSet) bool {
	if c := attrs.Currency; c.Constraining() && r.Attrs.Currency != "" && r.Attrs.Currency != c.Value {
		return true
	}
	if c := attrs.Horizon; c.Constraining() && r.Attrs.Horizon != "" && r.Attrs.Horizon != c.Value {
		return true
	}
	if c := attrs.Component; c.Constraining() && r.Attrs.Component != "" && r.Attrs.Component != c.Value {
		return true
	}
	if c := attrs.Scale; c.Constraining() && r.Attrs.Scale != "" && r.Attrs.Scale != c.Value {
		return true
	}
	if c := attrs.Frequency; c.Constraining() && r.Frequency != catalog.FrequencyUnknown &&
		string(r.Frequency) != c.Value {
		return true
	}
	return false
}

// score ranks the filter survivors. The textual similarity is the maximum
// token_sort_ratio over the record's canonical name and aliases; extra query
// tokens the record lacks are penalized, satisfied attribute constraints earn
// a capped bonus, and the final score is clamped to [0,100]. Candidates below
// minScore are dropped. Ties are broken by series code so the ordering is
// fully deterministic.
func score(records []*catalog.Record, queryTokens []string, attrs domres.AttributeSet) []domres.Candidate {
	candidates := make([]domres.Candidate, 0, len(records))
	for _, r := range records {
		sim := tokenSortRatio(queryTokens, strings.Fields(r.NameCanonical))
		for _, alias := range r.AliasesCanonical {
			if s := tokenSortRatio(queryTokens, strings.Fields(alias)); s > sim {
				sim = s
			}
		}

		missing := 0
		for _, tok := range queryTokens {
			if !r.HasToken(tok) {
				missing++
			}
		}

		final := sim - missingTokenPenalty*float64(missing) + attributeBonusFor(r, attrs)
		if final > 100 {
			final = 100
		}
		if final < minScore {
			continue
		}
		candidates = append(candidates, domres.Candidate{Record: r, Score: final, Compatible: true})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Record.Code < candidates[j].Record.Code
	})
	return candidates
}

func attributeBonusFor(r *catalog.Record, attrs domres.AttributeSet) float64 {
	bonus := 0.0
	if c := attrs.Currency; c.Constraining() && r.Attrs.Currency == c.Value {
		bonus += attributeBonus
	}
	if c := attrs.Horizon; c.Constraining() && r.Attrs.Horizon == c.Value {
		bonus += attributeBonus
	}
	if c := attrs.Component; c.Constraining() && r.Attrs.Component == c.Value {
		bonus += attributeBonus
	}
	if c := attrs.Scale; c.Constraining() && r.Attrs.Scale == c.Value {
		bonus += attributeBonus
	}
	if c := attrs.Frequency; c.Constraining() && string(r.Frequency) == c.Value {
		bonus += attributeBonus
	}
	if bonus > attributeBonusCap {
		bonus = attributeBonusCap
	}
	return bonus
}

// resolveOutcome applies the acceptance policy to the ranked candidates.
func resolveOutcome(candidates []domres.Candidate) domres.Outcome {
	if len(candidates) == 0 {
		return domres.NewNoMatch(reasonLowScore)
	}

	top := candidates[0]
	if len(candidates) == 1 {
		return domres.NewMatch(top)
	}

	gap := top.Score - candidates[1].Score
	if gap < separationBand {
		band := make([]domres.Candidate, 0, len(candidates))
		for _, c := range candidates {
			if top.Score-c.Score < separationBand {
				band = append(band, c)
			}
		}
		return domres.NewAmbiguous(band, gap)
	}
	return domres.NewMatch(top)
}
