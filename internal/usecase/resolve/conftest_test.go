package resolve

import (
	"testing"
	"time"

	"github.com/quipudata/seriedex/internal/domain/catalog"
	repocat "github.com/quipudata/seriedex/internal/repository/catalog"
)

// mockSnapshots serves a fixed catalog, or an error.
type mockSnapshots struct {
	cat *catalog.Catalog
	err error
}

func (m *mockSnapshots) Snapshot() (*catalog.Catalog, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.cat, nil
}

func fixtureRecords() []catalog.Record {
	return []catalog.Record{
		{
			Code:     "PD04722MM",
			Name:     "Tasa de interés de referencia de la política monetaria",
			Category: "Tasas de interés",
		},
		{
			Code:     "PD04637PD",
			Name:     "Tipo de cambio interbancario (S/ por US$) - Compra",
			Category: "Tipo de cambio",
		},
		{
			Code:     "PD04638PD",
			Name:     "Tipo de cambio interbancario (S/ por US$) - Venta",
			Category: "Tipo de cambio",
		},
		{
			Code:     "PN00015MM",
			Name:     "Depósitos en soles de las empresas bancarias",
			Category: "Depósitos",
		},
		{
			Code:     "PN00016MM",
			Name:     "Depósitos en dólares de las empresas bancarias",
			Category: "Depósitos",
		},
	}
}

func newService(t *testing.T, records []catalog.Record) *Service {
	t.Helper()
	cat, err := repocat.Build(records, time.Now())
	if err != nil {
		t.Fatalf("build fixture catalog: %v", err)
	}
	return New(&mockSnapshots{cat: cat})
}
