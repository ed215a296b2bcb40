// Package health serves liveness and readiness probes for the racer's
// bridge server.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// Status values reported by the probes.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

const defaultCheckTimeout = 5 * time.Second

// HealthCheck defines the interface for individual health checks.
type HealthCheck interface {
	// Name returns the unique name of this health check
	Name() string
	// Check performs the health check and returns an error if unhealthy
	Check(ctx context.Context) error
}

// HealthStatus represents the overall health status of the application.
type HealthStatus struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth represents the health status of an individual component.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker manages and executes health checks for the application.
type HealthChecker struct {
	checks  map[string]HealthCheck
	timeout time.Duration
	mu      sync.RWMutex
}

// NewHealthChecker creates a new health checker instance.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks:  make(map[string]HealthCheck),
		timeout: defaultCheckTimeout,
	}
}

// SetTimeout bounds how long the readiness probe waits for its checks.
func (hc *HealthChecker) SetTimeout(d time.Duration) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.timeout = d
}

// AddCheck registers a new health check, replacing one of the same name.
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// RemoveCheck removes a health check by name.
func (hc *HealthChecker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// CheckHealth runs every registered check. The overall status is healthy
// only if all of them pass.
func (hc *HealthChecker) CheckHealth(ctx context.Context) HealthStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := HealthStatus{
		Status: StatusHealthy,
		Checks: make(map[string]ComponentHealth, len(hc.checks)),
	}

	for name, check := range hc.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = StatusUnhealthy
			status.Checks[name] = ComponentHealth{Status: StatusUnhealthy, Message: err.Error()}
			continue
		}
		status.Checks[name] = ComponentHealth{Status: StatusHealthy}
	}

	return status
}

// Register mounts the probes on mux under /health/live and /health/ready.
func (hc *HealthChecker) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health/live", hc.LivenessHandler)
	mux.HandleFunc("/health/ready", hc.ReadinessHandler)
}

// LivenessHandler answers 200 while the process can serve requests.
func (hc *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
}

// ReadinessHandler runs the checks and answers 200 when all pass, 503
// otherwise.
func (hc *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	hc.mu.RLock()
	timeout := hc.timeout
	hc.mu.RUnlock()

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	health := hc.CheckHealth(ctx)

	w.Header().Set("Content-Type", "application/json")
	if health.Status == StatusHealthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(health)
}

// LoopHealthCheck fails when the frame loop should be ticking but has gone
// quiet for longer than maxGap.
type LoopHealthCheck struct {
	running  func() bool
	lastTick func() time.Time
	maxGap   time.Duration
	now      func() time.Time
}

// NewLoopHealthCheck creates a health check for the frame loop.
func NewLoopHealthCheck(running func() bool, lastTick func() time.Time, maxGap time.Duration) *LoopHealthCheck {
	return &LoopHealthCheck{
		running:  running,
		lastTick: lastTick,
		maxGap:   maxGap,
		now:      time.Now,
	}
}

// Name returns the name of this health check.
func (l *LoopHealthCheck) Name() string {
	return "frame_loop"
}

// Check verifies that a running loop has ticked recently.
func (l *LoopHealthCheck) Check(ctx context.Context) error {
	if !l.running() {
		return nil
	}
	last := l.lastTick()
	if last.IsZero() {
		return nil
	}
	if gap := l.now().Sub(last); gap > l.maxGap {
		return fmt.Errorf("frame loop stalled for %v", gap.Round(time.Millisecond))
	}
	return nil
}

// BreakerHealthCheck fails while a circuit breaker is open.
type BreakerHealthCheck struct {
	name  string
	state func() gobreaker.State
}

// NewBreakerHealthCheck creates a health check over a breaker's state.
func NewBreakerHealthCheck(name string, state func() gobreaker.State) *BreakerHealthCheck {
	return &BreakerHealthCheck{name: name, state: state}
}

// Name returns the name of this health check.
func (b *BreakerHealthCheck) Name() string {
	return b.name
}

// Check reports an error while the breaker is open.
func (b *BreakerHealthCheck) Check(ctx context.Context) error {
	if s := b.state(); s == gobreaker.StateOpen {
		return fmt.Errorf("circuit breaker is %s", s)
	}
	return nil
}

// MemoryHealthCheck implements HealthCheck for memory usage monitoring.
type MemoryHealthCheck struct {
	maxMemoryMB    int64
	getMemoryUsage func() int64
}

// NewMemoryHealthCheck creates a health check for memory usage. A nil
// getMemoryUsage reads the Go heap.
func NewMemoryHealthCheck(maxMemoryMB int64, getMemoryUsage func() int64) *MemoryHealthCheck {
	if getMemoryUsage == nil {
		getMemoryUsage = heapMB
	}
	return &MemoryHealthCheck{
		maxMemoryMB:    maxMemoryMB,
		getMemoryUsage: getMemoryUsage,
	}
}

// Name returns the name of this health check.
func (m *MemoryHealthCheck) Name() string {
	return "memory"
}

// Check verifies that memory usage is within acceptable limits.
func (m *MemoryHealthCheck) Check(ctx context.Context) error {
	currentMB := m.getMemoryUsage()
	if currentMB > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, m.maxMemoryMB)
	}
	return nil
}

func heapMB() int64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return int64(ms.HeapAlloc / 1024 / 1024)
}
