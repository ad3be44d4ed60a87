package health

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Manager runs checks in parallel, each under its own timeout.
type Manager struct {
	checkers []Checker
	timeout  time.Duration
	mu       sync.RWMutex
}

// NewManager creates a manager with a 5 second per-check timeout.
func NewManager() *Manager {
	return &Manager{
		checkers: make([]Checker, 0),
		timeout:  5 * time.Second,
	}
}

// WithTimeout sets a custom timeout for health checks.
func (m *Manager) WithTimeout(timeout time.Duration) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = timeout
	return m
}

// AddChecker registers a new health checker.
func (m *Manager) AddChecker(checker Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers = append(m.checkers, checker)
}

// Check runs every checker and returns the results by name.
func (m *Manager) Check(ctx context.Context) map[string]*Result {
	m.mu.RLock()
	checkers := make([]Checker, len(m.checkers))
	copy(checkers, m.checkers)
	timeout := m.timeout
	m.mu.RUnlock()

	results := make(map[string]*Result)
	resultsMu := sync.Mutex{}
	wg := sync.WaitGroup{}

	for _, checker := range checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			start := time.Now()
			result := c.Check(checkCtx)
			if result.Latency == 0 {
				result.Latency = time.Since(start)
			}

			resultsMu.Lock()
			results[c.Name()] = result
			resultsMu.Unlock()
		}(checker)
	}

	wg.Wait()
	return results
}

// OverallStatus is the worst status among results; healthy when empty.
func (m *Manager) OverallStatus(results map[string]*Result) Status {
	hasDegraded := false
	for _, result := range results {
		if result.Status == StatusUnhealthy {
			return StatusUnhealthy
		}
		if result.Status == StatusDegraded {
			hasDegraded = true
		}
	}

	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

// CheckNames returns the names of all registered checkers.
func (m *Manager) CheckNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.checkers))
	for i, checker := range m.checkers {
		names[i] = checker.Name()
	}
	return names
}

// NamedResult pairs a result with its checker name.
type NamedResult struct {
	Name    string                 `json:"name" yaml:"name"`
	Status  Status                 `json:"status" yaml:"status"`
	Message string                 `json:"message" yaml:"message"`
	Details map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
	Latency time.Duration          `json:"latency" yaml:"latency"`
}

// Report is the doctor output: overall status plus checks sorted by name.
type Report struct {
	Status Status        `json:"status" yaml:"status"`
	Checks []NamedResult `json:"checks" yaml:"checks"`
}

// Report runs all checks and returns them in a stable order.
func (m *Manager) Report(ctx context.Context) *Report {
	results := m.Check(ctx)

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	r := &Report{Status: m.OverallStatus(results), Checks: make([]NamedResult, 0, len(names))}
	for _, name := range names {
		res := results[name]
		r.Checks = append(r.Checks, NamedResult{
			Name:    name,
			Status:  res.Status,
			Message: res.Message,
			Details: res.Details,
			Latency: res.Latency,
		})
	}
	return r
}

var statusStyles = map[Status]lipgloss.Style{
	StatusHealthy:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	StatusDegraded:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	StatusUnhealthy: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
}

var statusIcons = map[Status]string{
	StatusHealthy:   "✓",
	StatusDegraded:  "!",
	StatusUnhealthy: "✗",
}

// RenderText implements ux.TextRenderer
func (r *Report) RenderText(w io.Writer, noColor bool) error {
	paint := func(s Status, text string) string {
		if noColor {
			return text
		}
		return statusStyles[s].Render(text)
	}

	var b strings.Builder
	for _, c := range r.Checks {
		fmt.Fprintf(&b, "%s %-14s %s\n", paint(c.Status, statusIcons[c.Status]), c.Name, c.Message)
		if s, ok := c.Details["suggestion"].(string); ok && c.Status != StatusHealthy {
			fmt.Fprintf(&b, "  → %s\n", s)
		}
	}
	fmt.Fprintf(&b, "\nOverall: %s\n", paint(r.Status, r.Status.String()))

	_, err := io.WriteString(w, b.String())
	return err
}
