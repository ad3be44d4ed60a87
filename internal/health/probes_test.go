package health

import (
	"context"
	"testing"
	"time"
)

func TestNewProbeManager(t *testing.T) {
	pm := NewProbeManager("1.0.0")

	if pm.Version() != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %s", pm.Version())
	}
	if pm.IsShuttingDown() {
		t.Error("probe manager should not be shutting down by default")
	}
	if pm.Uptime() < 0 {
		t.Error("uptime should not be negative")
	}
}

func TestCheckLiveness(t *testing.T) {
	pm := NewProbeManager("1.0.0")
	pm.AddChecker(&mockChecker{name: "failing", result: Unhealthy("down")})

	if got := pm.CheckLiveness(context.Background()); got.Status != StatusHealthy || len(got.Checks) != 0 {
		t.Errorf("liveness should ignore dependency checks, got %+v", got)
	}

	pm.MarkShutdown()
	if got := pm.CheckLiveness(context.Background()).Status; got != StatusDegraded {
		t.Errorf("liveness during shutdown = %s, want degraded", got)
	}
}

func TestCheckReadiness(t *testing.T) {
	pm := NewProbeManager("1.0.0")
	pm.AddChecker(&mockChecker{name: "store", result: Healthy("ok")})

	got := pm.CheckReadiness(context.Background())
	if got.Status != StatusHealthy {
		t.Errorf("readiness = %s, want healthy", got.Status)
	}
	if _, ok := got.Checks["store"]; !ok {
		t.Error("readiness should include dependency results")
	}
	if got.Timestamp.IsZero() || time.Since(got.Timestamp) > time.Minute {
		t.Error("timestamp should be set")
	}

	pm.MarkShutdown()
	if got := pm.CheckReadiness(context.Background()).Status; got != StatusUnhealthy {
		t.Errorf("readiness during shutdown = %s, want unhealthy", got)
	}
}
