package health

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

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

// Component is a named dependency to ping.
type Component struct {
	Name   string
	Pinger Pinger
}

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// DefaultTimeout bounds a single component ping.
const DefaultTimeout = 2 * time.Second

// Service coordinates health checks.
type Service struct {
	components []Component
	timeout    time.Duration
}

// New creates a Service probing the given components, e.g. the document
// store, redis and postgres.
func New(components ...Component) *Service {
	return &Service{components: components, timeout: DefaultTimeout}
}

// WithTimeout overrides the per-component ping timeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check pings every component concurrently. A component that does not
// answer within the timeout counts as failed.
func (s *Service) Check(ctx context.Context) Report {
	results := make([]CheckResult, len(s.components))

	var g errgroup.Group
	for i, c := range s.components {
		g.Go(func() error {
			pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			if err := c.Pinger.Ping(pingCtx); err != nil {
				results[i] = CheckError
				return nil
			}
			results[i] = CheckOK
			return nil
		})
	}
	_ = g.Wait()

	checks := make(map[string]CheckResult, len(s.components))
	status := Healthy
	for i, c := range s.components {
		checks[c.Name] = results[i]
		if results[i] != CheckOK {
			status = Degraded
		}
	}
	return Report{Status: status, Checks: checks}
}
