package health

import (
	"context"
	"sync/atomic"
	"time"
)

// ProbeManager adds liveness and readiness state to a Manager.
type ProbeManager struct {
	*Manager

	startTime  time.Time
	inShutdown atomic.Bool
	version    string
}

// NewProbeManager creates a new health check manager with probe support.
func NewProbeManager(version string) *ProbeManager {
	return &ProbeManager{
		Manager:   NewManager(),
		startTime: time.Now(),
		version:   version,
	}
}

// MarkShutdown makes readiness fail from now on.
func (pm *ProbeManager) MarkShutdown() {
	pm.inShutdown.Store(true)
}

// IsShuttingDown returns whether the application is shutting down.
func (pm *ProbeManager) IsShuttingDown() bool {
	return pm.inShutdown.Load()
}

// Uptime returns how long the application has been running.
func (pm *ProbeManager) Uptime() time.Duration {
	return time.Since(pm.startTime)
}

// Version returns the application version.
func (pm *ProbeManager) Version() string {
	return pm.version
}

// ProbeResult is the JSON body of a probe endpoint.
type ProbeResult struct {
	Status    Status             `json:"status"`
	Version   string             `json:"version,omitempty"`
	Uptime    string             `json:"uptime,omitempty"`
	Checks    map[string]*Result `json:"checks,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

func (pm *ProbeManager) probe(status Status, checks map[string]*Result) *ProbeResult {
	if checks == nil {
		checks = make(map[string]*Result)
	}
	return &ProbeResult{
		Status:    status,
		Version:   pm.version,
		Uptime:    pm.Uptime().Round(time.Second).String(),
		Checks:    checks,
		Timestamp: time.Now(),
	}
}

// CheckLiveness reports the process as alive; degraded while shutting down.
// Dependency checks are not run.
func (pm *ProbeManager) CheckLiveness(ctx context.Context) *ProbeResult {
	status := StatusHealthy
	if pm.IsShuttingDown() {
		status = StatusDegraded
	}
	return pm.probe(status, nil)
}

// CheckReadiness is unhealthy during shutdown, otherwise the aggregate of all checks.
func (pm *ProbeManager) CheckReadiness(ctx context.Context) *ProbeResult {
	if pm.IsShuttingDown() {
		return pm.probe(StatusUnhealthy, nil)
	}

	checks := pm.Manager.Check(ctx)
	return pm.probe(pm.Manager.OverallStatus(checks), checks)
}
