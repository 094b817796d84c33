package seriedex

import (
	"context"
	"testing"
	"time"
)

func testCatalogRecords() []Record {
	return []Record{
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
		},
		{
			Code:     "PD04638PD",
			Name:     "Tipo de cambio interbancario (S/ por US$) - Venta",
			Category: "Tipo de cambio",
		},
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{driver: "unknown"}
	_, err := createStore(cfg)
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNew_WithRecords_Resolve(t *testing.T) {
	c, err := New(WithRecords(testCatalogRecords()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	out, err := c.Resolve(context.Background(), "tasa de referencia de la politica monetaria")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if out.Kind != Match {
		t.Fatalf("kind = %q, want %q (outcome %+v)", out.Kind, Match, out)
	}
	if out.Code != "PD04722MM" {
		t.Errorf("code = %q, want PD04722MM", out.Code)
	}
}

func TestNew_WithRecords_Ambiguous(t *testing.T) {
	c, err := New(WithRecords(testCatalogRecords()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	out, err := c.Resolve(context.Background(), "tipo de cambio interbancario")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if out.Kind != Ambiguous {
		t.Fatalf("kind = %q, want %q", out.Kind, Ambiguous)
	}
	if len(out.Candidates) < 2 {
		t.Errorf("candidates = %d, want >= 2", len(out.Candidates))
	}
}

func TestNew_WithRecords_DuplicateCode(t *testing.T) {
	records := []Record{
		{Code: "PD04722MM", Name: "a"},
		{Code: "PD04722MM", Name: "b"},
	}
	_, err := New(WithRecords(records))
	if err == nil {
		t.Fatal("expected error for duplicate codes")
	}
}

func TestClient_Status(t *testing.T) {
	c, err := New(WithRecords(testCatalogRecords()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	st := c.Status()
	if !st.Loaded {
		t.Error("expected catalog to be loaded")
	}
	if st.RecordCount != 3 {
		t.Errorf("record count = %d, want 3", st.RecordCount)
	}
}

func TestClient_Refresh_NoFetcher(t *testing.T) {
	c, err := New(WithRecords(testCatalogRecords()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected error refreshing a fixed record set")
	}
}

func TestClient_Close_NilStore(t *testing.T) {
	c := &Client{store: nil}
	c.Close()
}

func TestClient_Ping_NilStore(t *testing.T) {
	c := &Client{store: nil}
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithRedis("localhost:6379", "secret")(cfg)
	if cfg.driver != "redis" {
		t.Errorf("driver = %q, want redis", cfg.driver)
	}
	if cfg.addrs[0] != "localhost:6379" {
		t.Errorf("addr = %q, want localhost:6379", cfg.addrs[0])
	}
	if cfg.password != "secret" {
		t.Errorf("password = %q, want secret", cfg.password)
	}

	cfg2 := &clientConfig{}
	WithCacheDir("/tmp/cache")(cfg2)
	if cfg2.driver != "file" || cfg2.cacheDir != "/tmp/cache" {
		t.Errorf("cache dir config = (%q, %q)", cfg2.driver, cfg2.cacheDir)
	}

	cfg3 := &clientConfig{}
	WithMaxAge(24 * time.Hour)(cfg3)
	if cfg3.maxAge != 24*time.Hour {
		t.Errorf("maxAge = %v, want 24h", cfg3.maxAge)
	}

	WithRequestGap(time.Second)(cfg3)
	if cfg3.requestGap != time.Second {
		t.Errorf("requestGap = %v, want 1s", cfg3.requestGap)
	}

	WithOffline()(cfg3)
	if !cfg3.offline {
		t.Error("expected offline to be set")
	}
}
