package bcrp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quipudata/seriedex/internal/domain/catalog"
	"github.com/quipudata/seriedex/internal/domain/series"
	"github.com/quipudata/seriedex/internal/metrics"
)

// apiResponse mirrors the BCRP data API JSON payload. Values arrive as
// strings ("3.25", "n.d.") but occasionally as raw numbers, hence any.
type apiResponse struct {
	Periods []struct {
		Name   string `json:"name"`
		Values []any  `json:"values"`
	} `json:"periods"`
}

// GetSeries fetches observations for one or more series codes. Dates are
// formatted per the detected frequency: daily series take YYYY-M-D, the rest
// YYYY-M, and a month-granular end date on a daily series expands to the last
// day of that month. A 404 from the upstream means the codes are unknown and
// surfaces as catalog.ErrNotFound.
func (c *Client) GetSeries(ctx context.Context, codes []string, startDate, endDate string) (series.Table, error) {
	if len(codes) == 0 {
		return series.Table{}, fmt.Errorf("at least one series code is required")
	}

	freq := catalog.FrequencyFromCode(codes[0])
	url := c.baseURL + "/api/" + strings.Join(codes, "-") + "/json"

	start := formatDate(startDate, freq, false)
	end := formatDate(endDate, freq, true)
	switch {
	case start != "" && end != "":
		url += "/" + start + "/" + end
	case start != "":
		url += "/" + start + "/" + start
	}

	c.logger.Debug("fetching BCRP series",
		zap.Strings("codes", codes),
		zap.String("frequency", string(freq)),
		zap.String("url", url),
	)

	began := time.Now()
	resp, err := c.get(ctx, c.http, url)
	if err != nil {
		metrics.BCRPRequestsTotal.WithLabelValues("series", "error").Inc()
		return series.Table{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		metrics.BCRPRequestsTotal.WithLabelValues("series", "not_found").Inc()
		return series.Table{}, fmt.Errorf("series %v: %w", codes, catalog.ErrNotFound)
	default:
		metrics.BCRPRequestsTotal.WithLabelValues("series", "error").Inc()
		return series.Table{}, fmt.Errorf("series data: unexpected status %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.BCRPRequestsTotal.WithLabelValues("series", "error").Inc()
		return series.Table{}, fmt.Errorf("decode series response: %w", err)
	}

	metrics.BCRPRequestsTotal.WithLabelValues("series", "success").Inc()
	metrics.BCRPRequestDuration.WithLabelValues("series").Observe(time.Since(began).Seconds())

	table := series.Table{Codes: codes, Rows: make([]series.Row, 0, len(payload.Periods))}
	for _, p := range payload.Periods {
		row := series.Row{Period: p.Name, Values: make([]*float64, len(p.Values))}
		for i, raw := range p.Values {
			if v, ok := parseValue(raw); ok {
				row.Values[i] = &v
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// parseValue converts one reported value. BCRP mixes numbers with markers
// like "n.d." for unavailable observations; those become absent values.
func parseValue(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case string:
		s := strings.TrimSpace(v)
		if s == "" || strings.EqualFold(s, "n.d.") || strings.Contains(strings.ToLower(s), "nir") {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// formatDate renders a YYYY-MM or YYYY-MM-DD input in the form the API
// expects for the given frequency, without zero padding. isEnd controls how a
// month-granular date expands on daily series.
func formatDate(date string, freq catalog.Frequency, isEnd bool) string {
	if date == "" {
		return ""
	}
	parts := strings.Split(date, "-")
	if len(parts) < 2 {
		return date
	}

	year := parts[0]
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return date
	}

	if freq != catalog.FrequencyDaily {
		return fmt.Sprintf("%s-%d", year, month)
	}

	if len(parts) >= 3 {
		day, err := strconv.Atoi(parts[2])
		if err != nil {
			return date
		}
		return fmt.Sprintf("%s-%d-%d", year, month, day)
	}

	day := 1
	if isEnd {
		if y, err := strconv.Atoi(year); err == nil {
			// Day 0 of the next month is the last day of this one.
			day = time.Date(y, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
		}
	}
	return fmt.Sprintf("%s-%d-%d", year, month, day)
}
