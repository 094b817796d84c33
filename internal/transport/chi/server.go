package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	chiv5 "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	domcat "github.com/quipudata/seriedex/internal/domain/catalog"
	domres "github.com/quipudata/seriedex/internal/domain/resolve"
	domser "github.com/quipudata/seriedex/internal/domain/series"
	"github.com/quipudata/seriedex/internal/metrics"
	cataloguc "github.com/quipudata/seriedex/internal/usecase/catalog"
	healthuc "github.com/quipudata/seriedex/internal/usecase/health"
	resolveuc "github.com/quipudata/seriedex/internal/usecase/resolve"
	seriesuc "github.com/quipudata/seriedex/internal/usecase/series"
)

const maxSeriesPerRequest = 10

// ErrorCode identifies a machine-readable error class in API responses.
type ErrorCode string

const (
	CodeBadRequest      ErrorCode = "bad_request"
	CodeCatalogNotReady ErrorCode = "catalog_not_ready"
	CodeSeriesNotFound  ErrorCode = "series_not_found"
	CodeUpstreamError   ErrorCode = "upstream_error"
	CodeInternalError   ErrorCode = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the resolver, the data gateway and catalog administration
// over HTTP.
type Server struct {
	resolver      *resolveuc.Service
	series        *seriesuc.Service
	catalog       *cataloguc.Manager
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	resolver *resolveuc.Service,
	series *seriesuc.Service,
	catalog *cataloguc.Manager,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		resolver: resolver,
		series:   series,
		catalog:  catalog,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domcat.ErrNotReady, http.StatusServiceUnavailable, CodeCatalogNotReady),
		sentinelHandler(domcat.ErrNotFound, http.StatusNotFound, CodeSeriesNotFound),
	}
	return s
}

// Routes registers all API routes on the given router.
func (s *Server) Routes(r chiv5.Router) {
	r.Post("/v1/search", s.SearchSeries)
	r.Get("/v1/series/{codes}", s.GetSeriesData)
	r.Get("/v1/catalog/status", s.CatalogStatus)
	r.Post("/v1/catalog/refresh", s.RefreshCatalog)
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// SearchRequest is the body of POST /v1/search.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchCandidate is one near-tied leader in an ambiguous outcome.
type SearchCandidate struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// SearchResponse is the tagged outcome of POST /v1/search. Exactly one of the
// variant field groups is populated, keyed by Status.
type SearchResponse struct {
	Status string `json:"status"` // match, ambiguous, no_match

	Code       string  `json:"code,omitempty"`
	Name       string  `json:"name,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`

	Candidates []SearchCandidate `json:"candidates,omitempty"`
	Gap        *float64          `json:"gap,omitempty"`

	Reason string `json:"reason,omitempty"`
}

// SearchSeries handles POST /v1/search.
func (s *Server) SearchSeries(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	outcome, err := s.resolver.Search(r.Context(), req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	metrics.SearchOutcomesTotal.WithLabelValues(string(outcome.Kind)).Inc()
	writeJSON(w, http.StatusOK, outcomeToResponse(outcome))
}

func outcomeToResponse(o domres.Outcome) SearchResponse {
	resp := SearchResponse{Status: string(o.Kind)}
	switch o.Kind {
	case domres.KindMatch:
		resp.Code = o.Code
		resp.Name = o.Name
		resp.Confidence = o.Confidence
	case domres.KindAmbiguous:
		resp.Candidates = make([]SearchCandidate, len(o.Candidates))
		for i, c := range o.Candidates {
			resp.Candidates[i] = SearchCandidate{
				Code:  c.Record.Code,
				Name:  c.Record.Name,
				Score: c.Score,
			}
		}
		gap := o.Gap
		resp.Gap = &gap
	case domres.KindNoMatch:
		resp.Reason = o.Reason
	}
	return resp
}

// SeriesResponse is the body of GET /v1/series/{codes}.
type SeriesResponse struct {
	Codes        []string           `json:"codes"`
	Names        []string           `json:"names"`
	Observations []ObservationPoint `json:"observations"`
}

// ObservationPoint is one period across all requested series. A null value
// marks an observation the upstream reported as unavailable.
type ObservationPoint struct {
	Period string     `json:"period"`
	Values []*float64 `json:"values"`
}

// GetSeriesData handles GET /v1/series/{codes}. Codes are comma separated;
// the optional "period" query parameter is a year, a single YYYY-MM month, or
// a start/end range.
func (s *Server) GetSeriesData(w http.ResponseWriter, r *http.Request) {
	raw := chiv5.URLParam(r, "codes")
	codes := splitCodes(raw)
	if len(codes) == 0 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "at least one series code is required")
		return
	}
	if len(codes) > maxSeriesPerRequest {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "too many series codes in one request")
		return
	}

	table, err := s.series.Get(r.Context(), codes, r.URL.Query().Get("period"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tableToResponse(table))
}

func splitCodes(raw string) []string {
	var codes []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}

func tableToResponse(t domser.Table) SeriesResponse {
	resp := SeriesResponse{
		Codes:        t.Codes,
		Names:        t.Names,
		Observations: make([]ObservationPoint, len(t.Rows)),
	}
	for i, row := range t.Rows {
		resp.Observations[i] = ObservationPoint{Period: row.Period, Values: row.Values}
	}
	return resp
}

// CatalogStatusResponse is the body of GET /v1/catalog/status.
type CatalogStatusResponse struct {
	Loaded      bool       `json:"loaded"`
	RecordCount int        `json:"record_count"`
	IsStale     bool       `json:"is_stale"`
	LoadedAt    *time.Time `json:"loaded_at,omitempty"`
}

// CatalogStatus handles GET /v1/catalog/status.
func (s *Server) CatalogStatus(w http.ResponseWriter, r *http.Request) {
	st := s.catalog.Status()

	resp := CatalogStatusResponse{
		Loaded:      st.Loaded,
		RecordCount: st.RecordCount,
		IsStale:     st.IsStale,
	}
	if st.Loaded {
		at := st.LoadedAt.UTC()
		resp.LoadedAt = &at
	}

	writeJSON(w, http.StatusOK, resp)
}

// RefreshCatalog handles POST /v1/catalog/refresh. The refresh is
// synchronous; a failed refresh leaves the previous snapshot serving.
func (s *Server) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Refresh(r.Context()); err != nil {
		s.logger.Error("catalog refresh failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, CodeUpstreamError, "catalog refresh failed")
		return
	}

	st := s.catalog.Status()
	writeJSON(w, http.StatusOK, CatalogStatusResponse{
		Loaded:      st.Loaded,
		RecordCount: st.RecordCount,
		IsStale:     st.IsStale,
	})
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domcat.ErrNotReady,
		domcat.ErrNotFound,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
