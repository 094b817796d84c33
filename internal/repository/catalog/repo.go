// Package catalog loads and persists catalog snapshots, turning raw record
// metadata into the immutable in-memory Catalog the search pipeline reads.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/quipudata/seriedex/internal/db"
	"github.com/quipudata/seriedex/internal/domain/catalog"
	"github.com/quipudata/seriedex/internal/domain/resolve"
	"github.com/quipudata/seriedex/internal/textnorm"
)

// store is the consumer interface for snapshot persistence.
type store interface {
	ReadSnapshot(ctx context.Context) (db.Snapshot, error)
	WriteSnapshot(ctx context.Context, snap db.Snapshot) error
}

// Repo loads catalogs from a snapshot store and persists refreshed ones.
type Repo struct {
	store store
}

// New creates a catalog repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Load reads the stored snapshot and builds a Catalog from it. A missing
// snapshot surfaces as db.ErrSnapshotMissing so the caller can trigger a
// remote fetch; anything else wraps into a catalog.LoadError.
func (r *Repo) Load(ctx context.Context) (*catalog.Catalog, error) {
	snap, err := r.store.ReadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	records, err := decodeRecords(snap.Data)
	if err != nil {
		return nil, &catalog.LoadError{Op: "decode", Detail: "malformed snapshot", Err: err}
	}
	return Build(records, snap.FetchedAt)
}

// Save persists freshly fetched records and builds the replacement Catalog.
// The catalog is validated before the write so a malformed fetch never
// clobbers a good snapshot.
func (r *Repo) Save(ctx context.Context, records []catalog.Record, fetchedAt time.Time) (*catalog.Catalog, error) {
	cat, err := Build(records, fetchedAt)
	if err != nil {
		return nil, err
	}

	data, err := encodeRecords(records)
	if err != nil {
		return nil, &catalog.LoadError{Op: "encode", Detail: "serialize snapshot", Err: err}
	}
	if err := r.store.WriteSnapshot(ctx, db.Snapshot{Data: data, FetchedAt: fetchedAt}); err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}
	return cat, nil
}

// Build precomputes canonical text and attribute tags for every record and
// assembles the immutable Catalog. Records tagged per the same lexicon the
// query extractor uses, so filter comparisons are symmetric.
func Build(records []catalog.Record, loadedAt time.Time) (*catalog.Catalog, error) {
	prepared := make([]catalog.Record, len(records))
	for i := range records {
		prepared[i] = prepare(records[i])
	}
	cat, err := catalog.New(prepared, loadedAt)
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func prepare(r catalog.Record) catalog.Record {
	nameTokens := textnorm.Canonicalize(r.Name)
	r.NameCanonical = joined(nameTokens)

	r.AliasesCanonical = make([]string, 0, len(r.Aliases))
	tokens := make(map[string]struct{}, len(nameTokens))
	for _, t := range nameTokens {
		tokens[t] = struct{}{}
	}
	for _, alias := range r.Aliases {
		aliasTokens := textnorm.Canonicalize(alias)
		r.AliasesCanonical = append(r.AliasesCanonical, joined(aliasTokens))
		for _, t := range aliasTokens {
			tokens[t] = struct{}{}
		}
	}
	for _, kw := range r.Keywords {
		for _, t := range textnorm.Canonicalize(kw) {
			tokens[t] = struct{}{}
		}
	}
	r.Tokens = tokens

	// Attribute tags come from the record's own name; only unambiguous
	// markers become tags a hard filter may act on.
	attrs := resolve.Extract(nameTokens)
	r.Attrs = catalog.Attributes{
		Currency:  tagValue(attrs.Currency),
		Horizon:   tagValue(attrs.Horizon),
		Component: tagValue(attrs.Component),
		Scale:     tagValue(attrs.Scale),
	}
	if r.Frequency == "" {
		r.Frequency = catalog.FrequencyFromCode(r.Code)
	}
	return r
}

func tagValue(c resolve.Constraint) string {
	if !c.Constraining() {
		return ""
	}
	return c.Value
}

func joined(tokens []string) string {
	return strings.Join(tokens, " ")
}
