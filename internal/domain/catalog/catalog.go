package catalog

import (
	"sort"
	"time"
)

// Catalog is the full, read-only in-memory set of indicator records. It is
// built once and never mutated; a refresh builds a replacement Catalog and the
// holder swaps the reference atomically. Any number of searches may read one
// snapshot concurrently.
type Catalog struct {
	byCode     map[string]*Record
	byCategory map[string][]*Record
	ordered    []*Record // sorted by code for deterministic iteration
	loadedAt   time.Time
}

// New builds a Catalog from records. It fails on empty or duplicate series
// codes so callers never observe a partially valid catalog.
func New(records []Record, loadedAt time.Time) (*Catalog, error) {
	c := &Catalog{
		byCode:     make(map[string]*Record, len(records)),
		byCategory: make(map[string][]*Record),
		ordered:    make([]*Record, 0, len(records)),
		loadedAt:   loadedAt,
	}
	for i := range records {
		r := &records[i]
		if r.Code == "" {
			return nil, &LoadError{Op: "validate", Detail: "record with empty series code"}
		}
		if _, dup := c.byCode[r.Code]; dup {
			return nil, &LoadError{Op: "validate", Detail: "duplicate series code " + r.Code, Err: ErrDuplicateCode}
		}
		c.byCode[r.Code] = r
		if r.Category != "" {
			c.byCategory[r.Category] = append(c.byCategory[r.Category], r)
		}
		c.ordered = append(c.ordered, r)
	}
	sort.Slice(c.ordered, func(i, j int) bool { return c.ordered[i].Code < c.ordered[j].Code })
	return c, nil
}

// Get returns the record for a series code.
func (c *Catalog) Get(code string) (*Record, bool) {
	r, ok := c.byCode[code]
	return r, ok
}

// Records returns all records in ascending code order. Callers must not
// mutate the returned slice or the records it points to.
func (c *Catalog) Records() []*Record {
	return c.ordered
}

// ByCategory returns the records tagged with the given category.
func (c *Catalog) ByCategory(category string) []*Record {
	return c.byCategory[category]
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.ordered)
}

// LoadedAt returns the time the snapshot was loaded.
func (c *Catalog) LoadedAt() time.Time {
	return c.loadedAt
}

// StaleAfter reports whether the snapshot is older than maxAge. Staleness is
// advisory: it signals that a background refresh should be attempted, it never
// blocks search.
func (c *Catalog) StaleAfter(maxAge time.Duration, now time.Time) bool {
	if maxAge <= 0 {
		return false
	}
	return now.Sub(c.loadedAt) > maxAge
}
