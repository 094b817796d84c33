package resolve

import (
	"strconv"
)

// Attribute kinds and values used by both query extraction and record tagging.
const (
	CurrencyUSD = "usd"
	CurrencyPEN = "pen"

	HorizonShort = "corto"
	HorizonLong  = "largo"
)

// Constraint is one extracted attribute bound. Value "" means the kind was
// not mentioned. Ambiguous means conflicting markers of the same kind were
// present; an ambiguous constraint never hard-filters, it is a best-effort
// signal only.
type Constraint struct {
	Value     string
	Ambiguous bool
}

// Constraining reports whether the constraint should participate in hard
// filtering.
func (c Constraint) Constraining() bool {
	return c.Value != "" && !c.Ambiguous
}

// AttributeSet is the structured constraints extracted from one canonical
// query. Zero, one or several kinds may be present; a kind is present or
// absent, never partial.
type AttributeSet struct {
	Currency  Constraint
	Horizon   Constraint
	Component Constraint
	Scale     Constraint
	Frequency Constraint // catalog.Frequency values
}

// Static marker lexicons. These are versioned tables compiled once; updating
// them is equivalent to a catalog reload.
var (
	currencyMarkers = map[string]string{
		"usd": CurrencyUSD, "us": CurrencyUSD, "dolar": CurrencyUSD, "dolares": CurrencyUSD,
		"pen": CurrencyPEN, "s": CurrencyPEN, "sol": CurrencyPEN, "soles": CurrencyPEN,
	}
	horizonMarkers = map[string]string{
		"corto": HorizonShort,
		"largo": HorizonLong,
	}
	componentMarkers = map[string]string{
		"activos":       "activos",
		"pasivos":       "pasivos",
		"exportaciones": "exportaciones",
		"importaciones": "importaciones",
		"tasa":          "tasa",
		"tasas":         "tasa",
		"indice":        "indice",
		"indices":       "indice",
	}
	scaleMarkers = map[string]string{
		"millones": "millones",
		"miles":    "miles",
	}
	frequencyMarkers = map[string]string{
		"diario":     "daily",
		"diaria":     "daily",
		"mensual":    "monthly",
		"trimestral": "quarterly",
		"anual":      "annual",
	}
)

// Extract derives an AttributeSet from canonical tokens. Extraction is purely
// additive: it never fails, and conflicting markers of one kind degrade that
// kind to an ambiguous (non-constraining) signal instead of failing the query.
func Extract(tokens []string) AttributeSet {
	var attrs AttributeSet
	attrs.Currency = scanMarkers(tokens, currencyMarkers)
	attrs.Horizon = scanMarkers(tokens, horizonMarkers)
	attrs.Component = scanMarkers(tokens, componentMarkers)
	attrs.Scale = scanMarkers(tokens, scaleMarkers)
	attrs.Frequency = scanMarkers(tokens, frequencyMarkers)

	// Explicit month counts ("12 meses") fold into the horizon kind: up to a
	// year reads as short term, beyond as long term.
	if h, ok := monthCountHorizon(tokens); ok {
		attrs.Horizon = mergeConstraint(attrs.Horizon, h)
	}
	return attrs
}

// scanMarkers collects marker hits for one attribute kind. A single distinct
// value yields a constraining bound; several distinct values yield an
// ambiguous one.
func scanMarkers(tokens []string, markers map[string]string) Constraint {
	var c Constraint
	for _, tok := range tokens {
		v, ok := markers[tok]
		if !ok {
			continue
		}
		switch {
		case c.Value == "":
			c.Value = v
		case c.Value != v:
			c.Ambiguous = true
		}
	}
	return c
}

// monthCountHorizon detects "<n> meses" phrases.
func monthCountHorizon(tokens []string) (string, bool) {
	for i, tok := range tokens {
		if tok != "meses" || i == 0 {
			continue
		}
		n, err := strconv.Atoi(tokens[i-1])
		if err != nil || n <= 0 {
			continue
		}
		if n <= 12 {
			return HorizonShort, true
		}
		return HorizonLong, true
	}
	return "", false
}

func mergeConstraint(existing Constraint, value string) Constraint {
	switch {
	case existing.Value == "":
		return Constraint{Value: value}
	case existing.Value != value:
		return Constraint{Value: existing.Value, Ambiguous: true}
	}
	return existing
}
