package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store   StorePinger
	catalog CatalogChecker
}

// New creates a Service. store can be nil.
func New(store StorePinger, catalog CatalogChecker) *Service {
	return &Service{store: store, catalog: catalog}
}

// Check runs health checks against all components. A missing catalog makes
// the service degraded, not down: data retrieval still works.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.store != nil {
		if err := s.store.Ping(ctx); err != nil {
			checks["snapshot_store"] = CheckError
		} else {
			checks["snapshot_store"] = CheckOK
		}
	}

	if s.catalog.Loaded() {
		checks["catalog"] = CheckOK
	} else {
		checks["catalog"] = CheckError
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
