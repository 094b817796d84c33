// Package resolve holds the value objects of the deterministic series
// resolution pipeline: extracted attribute constraints, scored candidates and
// the tagged search outcome. Ambiguity and no-match are first-class outcome
// variants, not errors, so every caller has to branch on all three.
package resolve

import "github.com/quipudata/seriedex/internal/domain/catalog"

// Kind tags the outcome variant.
type Kind string

const (
	// KindMatch is a single deterministic winner.
	KindMatch Kind = "match"
	// KindAmbiguous means several near-tied leaders; the caller must refine.
	KindAmbiguous Kind = "ambiguous"
	// KindNoMatch means nothing scored close enough.
	KindNoMatch Kind = "no_match"
)

// Candidate pairs a catalog record with its similarity score for one search
// call. Candidates are ephemeral and discarded after resolution.
type Candidate struct {
	Record     *catalog.Record
	Score      float64
	Compatible bool // survived all attribute hard filters
}

// Outcome is the tagged result of a search: exactly one of the three variants.
type Outcome struct {
	Kind Kind

	// Match fields.
	Code       string
	Name       string
	Confidence float64 // normalized top score, 0..1

	// Ambiguous fields: every candidate inside the separation band, in final
	// ranking order, and the score gap that triggered ambiguity.
	Candidates []Candidate
	Gap        float64

	// NoMatch detail, e.g. "empty_query", "filters_eliminated_all", "low_score".
	Reason string
}

// NewMatch builds a match outcome from the winning candidate.
func NewMatch(top Candidate) Outcome {
	return Outcome{
		Kind:       KindMatch,
		Code:       top.Record.Code,
		Name:       top.Record.Name,
		Confidence: top.Score / 100,
	}
}

// NewAmbiguous builds an ambiguity outcome from the near-tied leaders.
func NewAmbiguous(band []Candidate, gap float64) Outcome {
	return Outcome{Kind: KindAmbiguous, Candidates: band, Gap: gap}
}

// NewNoMatch builds a no-match outcome with a machine-readable reason.
func NewNoMatch(reason string) Outcome {
	return Outcome{Kind: KindNoMatch, Reason: reason}
}
