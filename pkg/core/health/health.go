// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     health
// Description: Health check registry and HTTP report handler for taxond
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Status represents the health status of a service
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
	StatusUnknown   Status = "unknown"
)

// CheckResult represents the result of a health check
type CheckResult struct {
	Name      string                 `json:"name"`
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Duration  time.Duration          `json:"duration"`
	Timestamp time.Time              `json:"timestamp"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Checker is an interface for health checks
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// NamedCheckFunc wraps a check function with a name
type NamedCheckFunc struct {
	name string
	fn   func(ctx context.Context) CheckResult
}

// NewChecker creates a named checker from a function
func NewChecker(name string, fn func(ctx context.Context) CheckResult) Checker {
	return &NamedCheckFunc{name: name, fn: fn}
}

// Name returns the checker name
func (c *NamedCheckFunc) Name() string {
	return c.name
}

// Check runs the health check
func (c *NamedCheckFunc) Check(ctx context.Context) CheckResult {
	return c.fn(ctx)
}

// Registry manages multiple health checkers
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	service  string
	version  string
	startAt  time.Time
}

// NewRegistry creates a new health check registry
func NewRegistry(service, version string) *Registry {
	return &Registry{
		checkers: make(map[string]Checker),
		service:  service,
		version:  version,
		startAt:  time.Now(),
	}
}

// Register adds a checker to the registry, replacing one with the same name
func (r *Registry) Register(checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[checker.Name()] = checker
}

// RegisterFunc adds a check function to the registry
func (r *Registry) RegisterFunc(name string, fn func(ctx context.Context) CheckResult) {
	r.Register(NewChecker(name, fn))
}

// Check runs all health checks in parallel and aggregates the status.
// Checks are reported sorted by name.
func (r *Registry) Check(ctx context.Context) *Report {
	r.mu.RLock()
	checkers := make([]Checker, 0, len(r.checkers))
	for _, c := range r.checkers {
		checkers = append(checkers, c)
	}
	r.mu.RUnlock()

	report := &Report{
		Service:   r.service,
		Version:   r.version,
		Uptime:    time.Since(r.startAt),
		Timestamp: time.Now(),
		Checks:    make([]CheckResult, len(checkers)),
	}

	var wg sync.WaitGroup
	for i, checker := range checkers {
		wg.Add(1)
		go func(i int, c Checker) {
			defer wg.Done()
			start := time.Now()
			result := c.Check(ctx)
			result.Duration = time.Since(start)
			result.Timestamp = time.Now()
			if result.Name == "" {
				result.Name = c.Name()
			}
			report.Checks[i] = result
		}(i, checker)
	}
	wg.Wait()

	sort.Slice(report.Checks, func(i, j int) bool {
		return report.Checks[i].Name < report.Checks[j].Name
	})

	overallStatus := StatusHealthy
	for _, result := range report.Checks {
		switch result.Status {
		case StatusUnhealthy:
			overallStatus = StatusUnhealthy
		case StatusDegraded:
			if overallStatus != StatusUnhealthy {
				overallStatus = StatusDegraded
			}
		}
	}

	report.Status = overallStatus
	return report
}

// Handler serves the report as JSON; unhealthy services answer 503
func (r *Registry) Handler(timeout time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), timeout)
		defer cancel()

		report := r.Check(ctx)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(report.HTTPStatus())
		_ = json.NewEncoder(w).Encode(report)
	})
}

// Report represents the overall health report
type Report struct {
	Service   string        `json:"service"`
	Version   string        `json:"version"`
	Status    Status        `json:"status"`
	Uptime    time.Duration `json:"uptime"`
	Timestamp time.Time     `json:"timestamp"`
	Checks    []CheckResult `json:"checks"`
}

// HTTPStatus maps the overall status to an HTTP status code
func (r *Report) HTTPStatus() int {
	if r.Status == StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

// String returns a string representation of the report
func (r *Report) String() string {
	return fmt.Sprintf("Service: %s, Status: %s, Uptime: %v, Checks: %d",
		r.Service, r.Status, r.Uptime, len(r.Checks))
}

// TCPCheck reports whether address accepts TCP connections
func TCPCheck(name, address string, timeout time.Duration) Checker {
	return NewChecker(name, func(ctx context.Context) CheckResult {
		result := CheckResult{
			Name:    name,
			Status:  StatusHealthy,
			Details: map[string]interface{}{"address": address},
		}

		dialer := net.Dialer{Timeout: timeout}
		conn, err := dialer.DialContext(ctx, "tcp", address)
		if err != nil {
			result.Status = StatusUnhealthy
			result.Message = err.Error()
			return result
		}
		_ = conn.Close()
		result.Message = "TCP check passed"
		return result
	})
}

// AlwaysHealthy returns a checker that always reports healthy
func AlwaysHealthy(name string) Checker {
	return NewChecker(name, func(ctx context.Context) CheckResult {
		return CheckResult{
			Name:    name,
			Status:  StatusHealthy,
			Message: "Always healthy",
		}
	})
}
