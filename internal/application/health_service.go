package application

import (
	"context"
)

// HealthService reports the worker's operational state: whether the
// cache database answers and whether the lifecycle reached active.
type HealthService struct {
	pingDB    func(ctx context.Context) error
	lifecycle *LifecycleService
}

// NewHealthService creates a health check service. pingDB probes the
// cache database.
func NewHealthService(pingDB func(ctx context.Context) error, lifecycle *LifecycleService) *HealthService {
	return &HealthService{
		pingDB:    pingDB,
		lifecycle: lifecycle,
	}
}

// ComponentHealth represents the health status of a single component.
type ComponentHealth struct {
	Status string // "ok" or "error"
	Error  string // empty if status is "ok", otherwise contains error message
}

// HealthStatus represents the overall health status of the worker.
type HealthStatus struct {
	Status    string          // "ok" if all components are healthy, "degraded" otherwise
	DB        ComponentHealth // cache database health
	Lifecycle ComponentHealth // lifecycle state, ok once active
	State     string          // current lifecycle state name
}

// Check probes all components and returns the overall status.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status: "ok",
		State:  s.lifecycle.State().String(),
	}

	if err := s.pingDB(ctx); err != nil {
		status.DB = ComponentHealth{Status: "error", Error: err.Error()}
		status.Status = "degraded"
	} else {
		status.DB = ComponentHealth{Status: "ok"}
	}

	if s.lifecycle.State() != StateActive {
		status.Lifecycle = ComponentHealth{Status: "error", Error: "worker is not active"}
		status.Status = "degraded"
	} else {
		status.Lifecycle = ComponentHealth{Status: "ok"}
	}

	return status
}
