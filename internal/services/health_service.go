package services

import (
	"context"
	"time"
)

// Version information, set at build time via -ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// HealthStatus is the liveness/readiness payload.
type HealthStatus struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	BuildTime string            `json:"build_time"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// CacheStatser reports cache counters; satisfied by DashboardService.
type CacheStatser interface {
	CacheStats() (hits, misses int64, size int)
}

// HealthService reports process health and basic runtime stats.
type HealthService struct {
	startedAt time.Time
	dashboard CacheStatser
}

// NewHealthService creates the health service.
func NewHealthService(dashboard CacheStatser) *HealthService {
	return &HealthService{
		startedAt: time.Now(),
		dashboard: dashboard,
	}
}

// Liveness reports that the process is running.
func (h *HealthService) Liveness(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Version:   Version,
		BuildTime: BuildTime,
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
	}
}

// Readiness reports whether the service can answer dashboard requests. The
// sheet source is exercised lazily per request, so readiness only reflects
// that the pipeline components are wired.
func (h *HealthService) Readiness(ctx context.Context) HealthStatus {
	status := h.Liveness(ctx)
	status.Checks = map[string]string{"pipeline": "ok"}
	if h.dashboard != nil {
		status.Checks["cache"] = "ok"
	}
	return status
}
