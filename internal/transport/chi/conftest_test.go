package chi

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	domcat "github.com/quipudata/seriedex/internal/domain/catalog"
	domser "github.com/quipudata/seriedex/internal/domain/series"
	repocat "github.com/quipudata/seriedex/internal/repository/catalog"
	cataloguc "github.com/quipudata/seriedex/internal/usecase/catalog"
	healthuc "github.com/quipudata/seriedex/internal/usecase/health"
	resolveuc "github.com/quipudata/seriedex/internal/usecase/resolve"
	seriesuc "github.com/quipudata/seriedex/internal/usecase/series"
)

// mockRepo serves one pre-built catalog.
type mockRepo struct {
	cat *domcat.Catalog
	err error
}

func (m *mockRepo) Load(context.Context) (*domcat.Catalog, error) {
	return m.cat, m.err
}

func (m *mockRepo) Save(_ context.Context, records []domcat.Record, fetchedAt time.Time) (*domcat.Catalog, error) {
	return repocat.Build(records, fetchedAt)
}

// mockDataClient returns a canned observation table.
type mockDataClient struct {
	table domser.Table
	err   error

	gotCodes []string
	gotStart string
	gotEnd   string
}

func (m *mockDataClient) GetSeries(_ context.Context, codes []string, startDate, endDate string) (domser.Table, error) {
	m.gotCodes = codes
	m.gotStart = startDate
	m.gotEnd = endDate
	return m.table, m.err
}

func testRecords() []domcat.Record {
	return []domcat.Record{
		{
			Code:     "PD04722MM",
			Name:     "Tasa de interés de referencia de la política monetaria",
			Category: "Tasas de interés",
			Unit:     "Porcentaje",
		},
		{
			Code:     "PD04637PD",
			Name:     "Tipo de cambio interbancario (S/ por US$) - Compra",
			Category: "Tipo de cambio",
			Unit:     "Soles por dólar",
		},
		{
			Code:     "PD04638PD",
			Name:     "Tipo de cambio interbancario (S/ por US$) - Venta",
			Category: "Tipo de cambio",
			Unit:     "Soles por dólar",
		},
	}
}

// newTestServer wires a Server over a loaded in-memory catalog and the given
// data client.
func newTestServer(t *testing.T, client *mockDataClient) *Server {
	t.Helper()

	cat, err := repocat.Build(testRecords(), time.Now())
	if err != nil {
		t.Fatalf("build test catalog: %v", err)
	}

	manager := cataloguc.NewManager(&mockRepo{cat: cat}, nil, 24*time.Hour, zap.NewNop())
	if err := manager.Load(context.Background()); err != nil {
		t.Fatalf("load test catalog: %v", err)
	}

	if client == nil {
		client = &mockDataClient{}
	}

	return NewServer(
		resolveuc.New(manager),
		seriesuc.New(client, manager),
		manager,
		healthuc.New(nil, manager),
		zap.NewNop(),
	)
}

// newEmptyServer wires a Server whose catalog never loads.
func newEmptyServer(t *testing.T) *Server {
	t.Helper()

	manager := cataloguc.NewManager(&mockRepo{err: domcat.ErrNotReady}, nil, 24*time.Hour, zap.NewNop())

	client := &mockDataClient{}
	return NewServer(
		resolveuc.New(manager),
		seriesuc.New(client, manager),
		manager,
		healthuc.New(nil, manager),
		zap.NewNop(),
	)
}
