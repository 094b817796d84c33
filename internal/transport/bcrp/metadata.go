package bcrp

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"github.com/quipudata/seriedex/internal/domain/catalog"
	"github.com/quipudata/seriedex/internal/metrics"
	"github.com/quipudata/seriedex/internal/textnorm"
)

// Canonical header names of the columns we read from the metadata CSV. The
// raw file is Latin-1 with accented Spanish headers; matching on canonical
// form survives both the encoding and accent variations between exports.
const (
	headerCode      = "codigo serie"
	headerName      = "nombre serie"
	headerCategory  = "categoria serie"
	headerFrequency = "frecuencia"
	headerUnit      = "unidad medida"
)

// FetchMetadata downloads the full series catalog (~17MB CSV, `;`-separated,
// Latin-1 encoded) and parses it into raw records. Rows without a series code
// are skipped; everything else is a hard failure so a truncated download
// never becomes a catalog.
func (c *Client) FetchMetadata(ctx context.Context) ([]catalog.Record, error) {
	url := c.baseURL + "/metadata"
	c.logger.Info("downloading BCRP metadata", zap.String("url", url))

	start := time.Now()
	resp, err := c.get(ctx, c.metaHTTP, url)
	if err != nil {
		metrics.BCRPRequestsTotal.WithLabelValues("metadata", "error").Inc()
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.BCRPRequestsTotal.WithLabelValues("metadata", "error").Inc()
		return nil, fmt.Errorf("metadata download: unexpected status %d", resp.StatusCode)
	}

	records, err := parseMetadataCSV(resp.Body)
	if err != nil {
		metrics.BCRPRequestsTotal.WithLabelValues("metadata", "error").Inc()
		return nil, err
	}

	metrics.BCRPRequestsTotal.WithLabelValues("metadata", "success").Inc()
	metrics.BCRPRequestDuration.WithLabelValues("metadata").Observe(time.Since(start).Seconds())
	c.logger.Info("BCRP metadata downloaded",
		zap.Int("records", len(records)),
		zap.Duration("took", time.Since(start)),
	)
	return records, nil
}

func parseMetadataCSV(body io.Reader) ([]catalog.Record, error) {
	reader := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(body))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("metadata header: %w", err)
	}
	cols := indexColumns(header)
	if _, ok := cols[headerCode]; !ok {
		return nil, fmt.Errorf("metadata header: series code column not found")
	}
	if _, ok := cols[headerName]; !ok {
		return nil, fmt.Errorf("metadata header: series name column not found")
	}

	var records []catalog.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("metadata row %d: %w", len(records)+2, err)
		}

		code := field(row, cols, headerCode)
		if code == "" {
			continue
		}
		rec := catalog.Record{
			Code:      code,
			Name:      field(row, cols, headerName),
			Category:  field(row, cols, headerCategory),
			Unit:      field(row, cols, headerUnit),
			Frequency: parseFrequency(field(row, cols, headerFrequency), code),
		}
		records = append(records, rec)
	}
	return records, nil
}

// indexColumns maps canonical header names to column positions.
func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[textnorm.CanonicalString(h)] = i
	}
	return cols
}

func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseFrequency(raw, code string) catalog.Frequency {
	switch textnorm.CanonicalString(raw) {
	case "diaria", "diario":
		return catalog.FrequencyDaily
	case "mensual":
		return catalog.FrequencyMonthly
	case "trimestral":
		return catalog.FrequencyQuarterly
	case "anual":
		return catalog.FrequencyAnnual
	}
	return catalog.FrequencyFromCode(code)
}
