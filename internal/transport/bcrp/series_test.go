package bcrp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quipudata/seriedex/internal/domain/catalog"
)

func TestGetSeries(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"periods":[
			{"name":"Ene.2024","values":["3.25","n.d."]},
			{"name":"Feb.2024","values":[3.5,"3.75"]}
		]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	table, err := c.GetSeries(context.Background(), []string{"PD04722MM", "PD04723MM"}, "2024-01", "2024-12")
	if err != nil {
		t.Fatalf("get series: %v", err)
	}

	if gotPath != "/api/PD04722MM-PD04723MM/json/2024-1/2024-12" {
		t.Errorf("path = %q", gotPath)
	}
	if len(table.Codes) != 2 || table.Codes[0] != "PD04722MM" {
		t.Errorf("codes = %v", table.Codes)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}

	first := table.Rows[0]
	if first.Period != "Ene.2024" {
		t.Errorf("period = %q", first.Period)
	}
	if first.Values[0] == nil || *first.Values[0] != 3.25 {
		t.Errorf("values[0] = %v, want 3.25", first.Values[0])
	}
	if first.Values[1] != nil {
		t.Errorf("values[1] = %v, want nil for n.d.", *first.Values[1])
	}

	second := table.Rows[1]
	if second.Values[0] == nil || *second.Values[0] != 3.5 {
		t.Errorf("numeric value = %v, want 3.5", second.Values[0])
	}
	if second.Values[1] == nil || *second.Values[1] != 3.75 {
		t.Errorf("string value = %v, want 3.75", second.Values[1])
	}
}

func TestGetSeries_StartOnly(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"periods":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.GetSeries(context.Background(), []string{"PD04722MM"}, "2024-03", ""); err != nil {
		t.Fatalf("get series: %v", err)
	}
	if gotPath != "/api/PD04722MM/json/2024-3/2024-3" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestGetSeries_DailyDateExpansion(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"periods":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.GetSeries(context.Background(), []string{"PD04637PD"}, "2024-02", "2024-02"); err != nil {
		t.Fatalf("get series: %v", err)
	}
	// Month-granular dates on a daily series expand to full days; the end
	// date lands on the last day of the month (leap year here).
	if gotPath != "/api/PD04637PD/json/2024-2-1/2024-2-29" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestGetSeries_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.GetSeries(context.Background(), []string{"XX00000XX"}, "", "")
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("err = %v, want catalog.ErrNotFound", err)
	}
}

func TestGetSeries_NoCodes(t *testing.T) {
	c := newTestClient("http://unused.invalid")
	if _, err := c.GetSeries(context.Background(), nil, "", ""); err == nil {
		t.Fatal("expected error for empty code list")
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		freq  catalog.Frequency
		isEnd bool
		want  string
	}{
		{"empty", "", catalog.FrequencyMonthly, false, ""},
		{"year only passes through", "2024", catalog.FrequencyMonthly, false, "2024"},
		{"monthly strips padding", "2024-03", catalog.FrequencyMonthly, false, "2024-3"},
		{"quarterly uses month form", "2024-10", catalog.FrequencyQuarterly, true, "2024-10"},
		{"daily start of month", "2024-02", catalog.FrequencyDaily, false, "2024-2-1"},
		{"daily end of month", "2024-02", catalog.FrequencyDaily, true, "2024-2-29"},
		{"daily end of december", "2023-12", catalog.FrequencyDaily, true, "2023-12-31"},
		{"daily explicit day", "2024-02-05", catalog.FrequencyDaily, true, "2024-2-5"},
		{"bad month passes through", "2024-xx", catalog.FrequencyDaily, false, "2024-xx"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatDate(tc.date, tc.freq, tc.isEnd); got != tc.want {
				t.Errorf("formatDate(%q, %q, %v) = %q, want %q", tc.date, tc.freq, tc.isEnd, got, tc.want)
			}
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw    any
		want   float64
		wantOK bool
	}{
		{3.25, 3.25, true},
		{"3.25", 3.25, true},
		{" 4.5 ", 4.5, true},
		{"n.d.", 0, false},
		{"N.D.", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, tc := range tests {
		got, ok := parseValue(tc.raw)
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("parseValue(%v) = (%v, %v), want (%v, %v)", tc.raw, got, ok, tc.want, tc.wantOK)
		}
	}
}
