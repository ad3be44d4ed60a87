package health

import (
	"testing"
	"time"
)

func TestResultConstructors(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   Status
	}{
		{"healthy", Healthy("ok"), StatusHealthy},
		{"degraded", Degraded("meh"), StatusDegraded},
		{"unhealthy", Unhealthy("down"), StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.result.Status != tt.want {
				t.Errorf("Status = %s, want %s", tt.result.Status, tt.want)
			}
			if tt.result.Details == nil {
				t.Error("Details should be initialized")
			}
			if tt.want.String() != string(tt.want) {
				t.Errorf("String() = %s", tt.want.String())
			}
		})
	}
}

func TestFluentAPI(t *testing.T) {
	r := Healthy("backend is reachable").
		WithDetail("base_url", "http://localhost:8080").
		WithDetail("status_code", 200).
		WithLatency(25 * time.Millisecond)

	if r.Message != "backend is reachable" {
		t.Errorf("Message = %q", r.Message)
	}
	if r.Details["base_url"] != "http://localhost:8080" {
		t.Errorf("base_url detail = %v", r.Details["base_url"])
	}
	if r.Details["status_code"] != 200 {
		t.Errorf("status_code detail = %v", r.Details["status_code"])
	}
	if r.Latency != 25*time.Millisecond {
		t.Errorf("Latency = %v", r.Latency)
	}
}
