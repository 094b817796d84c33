package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quipudata/seriedex/internal/db"
	domcat "github.com/quipudata/seriedex/internal/domain/catalog"
)

// mockStore is an in-memory snapshot store.
type mockStore struct {
	snap     db.Snapshot
	readErr  error
	writeErr error
	writes   int
}

func (m *mockStore) ReadSnapshot(context.Context) (db.Snapshot, error) {
	if m.readErr != nil {
		return db.Snapshot{}, m.readErr
	}
	return m.snap, nil
}

func (m *mockStore) WriteSnapshot(_ context.Context, snap db.Snapshot) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.snap = snap
	m.writes++
	return nil
}

func TestSaveThenLoad(t *testing.T) {
	store := &mockStore{}
	repo := New(store)
	ctx := context.Background()

	records := []domcat.Record{
		{Code: "PD04722MM", Name: "Tasa de interés de referencia", Category: "Tasas"},
		{Code: "PD04637PD", Name: "Tipo de cambio - Compra"},
	}
	fetchedAt := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	saved, err := repo.Save(ctx, records, fetchedAt)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Len() != 2 {
		t.Errorf("saved len = %d, want 2", saved.Len())
	}
	if store.writes != 1 {
		t.Errorf("writes = %d, want 1", store.writes)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Len() != 2 {
		t.Errorf("loaded len = %d, want 2", loaded.Len())
	}
	if !loaded.LoadedAt().Equal(fetchedAt) {
		t.Errorf("loadedAt = %v, want %v", loaded.LoadedAt(), fetchedAt)
	}

	r, ok := loaded.Get("PD04722MM")
	if !ok {
		t.Fatal("expected to find PD04722MM")
	}
	if r.NameCanonical != "tasa interes referencia" {
		t.Errorf("canonical name = %q", r.NameCanonical)
	}
	if r.Frequency != domcat.FrequencyMonthly {
		t.Errorf("frequency = %q, want monthly (from code suffix)", r.Frequency)
	}
}

func TestLoad_MissingSnapshot(t *testing.T) {
	repo := New(&mockStore{readErr: db.ErrSnapshotMissing})

	_, err := repo.Load(context.Background())
	if !errors.Is(err, db.ErrSnapshotMissing) {
		t.Fatalf("expected ErrSnapshotMissing, got %v", err)
	}
}

func TestLoad_MalformedSnapshot(t *testing.T) {
	repo := New(&mockStore{snap: db.Snapshot{Data: []byte("{not json")}})

	_, err := repo.Load(context.Background())
	if err == nil {
		t.Fatal("expected error for malformed snapshot")
	}
	var le *domcat.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LoadError, got %T", err)
	}
	if le.Op != "decode" {
		t.Errorf("op = %q, want decode", le.Op)
	}
}

func TestSave_InvalidRecordsDoNotClobber(t *testing.T) {
	store := &mockStore{}
	repo := New(store)
	ctx := context.Background()

	if _, err := repo.Save(ctx, []domcat.Record{{Code: "A", Name: "a"}}, time.Now()); err != nil {
		t.Fatalf("initial save: %v", err)
	}

	_, err := repo.Save(ctx, []domcat.Record{{Code: "B"}, {Code: "B"}}, time.Now())
	if err == nil {
		t.Fatal("expected error for duplicate codes")
	}
	if store.writes != 1 {
		t.Errorf("writes = %d, want 1 (bad fetch must not overwrite)", store.writes)
	}
}

func TestPrepare_TagsAndTokens(t *testing.T) {
	r := prepare(domcat.Record{
		Code:     "PN00015MM",
		Name:     "Depósitos en soles de las empresas bancarias",
		Aliases:  []string{"depósitos MN"},
		Keywords: []string{"liquidez"},
	})

	if r.Attrs.Currency != "pen" {
		t.Errorf("currency tag = %q, want pen", r.Attrs.Currency)
	}
	if !r.HasToken("depositos") || !r.HasToken("mn") || !r.HasToken("liquidez") {
		t.Errorf("token set incomplete: %v", r.Tokens)
	}
	if len(r.AliasesCanonical) != 1 || r.AliasesCanonical[0] != "depositos mn" {
		t.Errorf("aliases canonical = %v", r.AliasesCanonical)
	}
}

func TestPrepare_ConflictingMarkersLeaveUntagged(t *testing.T) {
	r := prepare(domcat.Record{
		Code: "PD04637PD",
		Name: "Tipo de cambio (S/ por US$) - Compra",
	})
	if r.Attrs.Currency != "" {
		t.Errorf("currency tag = %q, want empty for conflicting markers", r.Attrs.Currency)
	}
}

func TestFromDTO_FrequencyFallback(t *testing.T) {
	r := fromDTO(recordDTO{Code: "PD04638PD", Name: "x", Frequency: "weekly"})
	if r.Frequency != domcat.FrequencyDaily {
		t.Errorf("frequency = %q, want daily fallback from code", r.Frequency)
	}

	r = fromDTO(recordDTO{Code: "PD04638PD", Name: "x", Frequency: "monthly"})
	if r.Frequency != domcat.FrequencyMonthly {
		t.Errorf("frequency = %q, want monthly", r.Frequency)
	}
}
