package catalog

import "strings"

// Frequency is the observation frequency of a series.
type Frequency string

const (
	// FrequencyDaily marks daily series.
	FrequencyDaily Frequency = "daily"
	// FrequencyMonthly marks monthly series.
	FrequencyMonthly Frequency = "monthly"
	// FrequencyQuarterly marks quarterly series.
	FrequencyQuarterly Frequency = "quarterly"
	// FrequencyAnnual marks annual series.
	FrequencyAnnual Frequency = "annual"
	// FrequencyUnknown marks series whose frequency could not be determined.
	FrequencyUnknown Frequency = "unknown"
)

// FrequencyFromCode detects the frequency from a BCRP series code suffix.
// Convention: PD04638PD is daily, PN01271PM is monthly, Q quarterly, A annual.
func FrequencyFromCode(code string) Frequency {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) < 2 {
		return FrequencyUnknown
	}
	switch code[len(code)-1] {
	case 'D':
		return FrequencyDaily
	case 'M':
		return FrequencyMonthly
	case 'Q', 'T':
		return FrequencyQuarterly
	case 'A':
		return FrequencyAnnual
	}
	return FrequencyUnknown
}

// Attributes are the structured tags a record carries. An empty string means
// the record is not tagged for that kind; absence is never a mismatch.
type Attributes struct {
	Currency  string // "usd", "pen" or ""
	Horizon   string // "corto", "largo" or ""
	Component string // "activos", "pasivos", "exportaciones", "importaciones" or ""
	Scale     string // "millones", "miles" or ""
}

// Record is one catalog entry. Records are created at load time and never
// mutated afterwards; a catalog reload produces a fresh set.
type Record struct {
	Code      string
	Name      string
	Aliases   []string
	Category  string
	Frequency Frequency
	Unit      string
	Keywords  []string

	// Precomputed at load time so search never normalizes record text per call.
	NameCanonical    string
	AliasesCanonical []string
	Tokens           map[string]struct{}
	Attrs            Attributes
}

// HasToken reports whether the record's canonical token set contains tok.
func (r *Record) HasToken(tok string) bool {
	_, ok := r.Tokens[tok]
	return ok
}
