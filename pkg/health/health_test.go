package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

// probe is a check with a fixed outcome, optionally after a delay.
type probe struct {
	name  string
	err   error
	delay time.Duration
}

func (p *probe) Name() string { return p.name }

func (p *probe) Check(ctx context.Context) error {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return p.err
}

func breakerIn(state gobreaker.State) *BreakerHealthCheck {
	return NewBreakerHealthCheck("frame_breaker", func() gobreaker.State { return state })
}

func loopStalled(stalled bool) *LoopHealthCheck {
	now := time.Unix(1000, 0)
	last := now.Add(-10 * time.Millisecond)
	if stalled {
		last = now.Add(-3 * time.Second)
	}
	check := NewLoopHealthCheck(func() bool { return true }, func() time.Time { return last }, time.Second)
	check.now = func() time.Time { return now }
	return check
}

func TestHealthChecker_AddRemoveCheck(t *testing.T) {
	hc := NewHealthChecker()
	hc.AddCheck(breakerIn(gobreaker.StateClosed))
	hc.AddCheck(breakerIn(gobreaker.StateOpen))

	if len(hc.checks) != 1 {
		t.Fatalf("a check with the same name should replace the old one, have %d", len(hc.checks))
	}
	if err := hc.checks["frame_breaker"].Check(context.Background()); err == nil {
		t.Error("expected the replacing check to be stored")
	}

	hc.RemoveCheck("frame_breaker")
	if len(hc.checks) != 0 {
		t.Errorf("expected no checks after removal, got %d", len(hc.checks))
	}
}

func TestHealthChecker_CheckHealth(t *testing.T) {
	tests := []struct {
		name      string
		checks    []HealthCheck
		expected  string
		unhealthy []string
	}{
		{"no checks", nil, StatusHealthy, nil},
		{
			"racing normally",
			[]HealthCheck{breakerIn(gobreaker.StateClosed), loopStalled(false), NewMemoryHealthCheck(512, func() int64 { return 40 })},
			StatusHealthy, nil,
		},
		{
			"clients falling behind",
			[]HealthCheck{breakerIn(gobreaker.StateOpen), loopStalled(false)},
			StatusUnhealthy, []string{"frame_breaker"},
		},
		{
			"stalled loop and heap over limit",
			[]HealthCheck{loopStalled(true), NewMemoryHealthCheck(512, func() int64 { return 900 })},
			StatusUnhealthy, []string{"frame_loop", "memory"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker()
			for _, check := range tt.checks {
				hc.AddCheck(check)
			}

			status := hc.CheckHealth(context.Background())
			if status.Status != tt.expected {
				t.Errorf("status %s, expected %s", status.Status, tt.expected)
			}
			if len(status.Checks) != len(tt.checks) {
				t.Errorf("got %d results, expected %d", len(status.Checks), len(tt.checks))
			}

			failed := 0
			for name, result := range status.Checks {
				if result.Status == StatusUnhealthy {
					failed++
					if result.Message == "" {
						t.Errorf("%s failed without a message", name)
					}
				}
			}
			if failed != len(tt.unhealthy) {
				t.Errorf("%d checks failed, expected %v", failed, tt.unhealthy)
			}
			for _, name := range tt.unhealthy {
				if status.Checks[name].Status != StatusUnhealthy {
					t.Errorf("%s should be unhealthy", name)
				}
			}
		})
	}
}

func TestHealthChecker_CheckHealthHonoursContext(t *testing.T) {
	hc := NewHealthChecker()
	hc.AddCheck(&probe{name: "slow", delay: 200 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	status := hc.CheckHealth(ctx)
	if status.Status != StatusUnhealthy {
		t.Errorf("expected unhealthy after the deadline, got %s", status.Status)
	}
	if msg := status.Checks["slow"].Message; !strings.Contains(msg, "deadline") {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestHealthChecker_LivenessHandler(t *testing.T) {
	hc := NewHealthChecker()
	hc.AddCheck(&probe{name: "down", err: errors.New("down")})

	w := httptest.NewRecorder()
	hc.LivenessHandler(w, httptest.NewRequest("GET", "/health/live", nil))

	if w.Code != http.StatusOK {
		t.Errorf("liveness should ignore failing checks, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type %q", ct)
	}
	var response map[string]string
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if response["status"] != "alive" {
		t.Errorf("status %q, expected alive", response["status"])
	}
}

func TestHealthChecker_ReadinessHandler(t *testing.T) {
	tests := []struct {
		name     string
		state    gobreaker.State
		code     int
		expected string
	}{
		{"breaker closed", gobreaker.StateClosed, http.StatusOK, StatusHealthy},
		{"breaker half open", gobreaker.StateHalfOpen, http.StatusOK, StatusHealthy},
		{"breaker open", gobreaker.StateOpen, http.StatusServiceUnavailable, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker()
			hc.AddCheck(breakerIn(tt.state))

			w := httptest.NewRecorder()
			hc.ReadinessHandler(w, httptest.NewRequest("GET", "/health/ready", nil))

			if w.Code != tt.code {
				t.Errorf("code %d, expected %d", w.Code, tt.code)
			}
			var response HealthStatus
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if response.Status != tt.expected {
				t.Errorf("status %s, expected %s", response.Status, tt.expected)
			}
			if _, ok := response.Checks["frame_breaker"]; !ok {
				t.Error("frame_breaker missing from the response")
			}
		})
	}
}

func TestHealthChecker_Register(t *testing.T) {
	hc := NewHealthChecker()
	hc.AddCheck(&probe{name: "down", err: errors.New("down")})
	mux := http.NewServeMux()
	hc.Register(mux)

	tests := []struct {
		path string
		code int
	}{
		{"/health/live", http.StatusOK},
		{"/health/ready", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))
		if w.Code != tt.code {
			t.Errorf("%s: expected %d, got %d", tt.path, tt.code, w.Code)
		}
	}
}

func TestHealthChecker_ReadinessTimeout(t *testing.T) {
	hc := NewHealthChecker()
	hc.SetTimeout(20 * time.Millisecond)
	hc.AddCheck(&probe{name: "slow", delay: time.Second})

	w := httptest.NewRecorder()
	start := time.Now()
	hc.ReadinessHandler(w, httptest.NewRequest("GET", "/health/ready", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 on timeout, got %d", w.Code)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("readiness waited %v despite the timeout", elapsed)
	}
}

func TestLoopHealthCheck(t *testing.T) {
	now := time.Unix(1000, 0)

	tests := []struct {
		name        string
		running     bool
		lastTick    time.Time
		expectError bool
	}{
		{"idle loop", false, now.Add(-time.Hour), false},
		{"running and ticking", true, now.Add(-10 * time.Millisecond), false},
		{"running but not yet ticked", true, time.Time{}, false},
		{"running and stalled", true, now.Add(-2 * time.Second), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := NewLoopHealthCheck(
				func() bool { return tt.running },
				func() time.Time { return tt.lastTick },
				time.Second,
			)
			check.now = func() time.Time { return now }

			if check.Name() != "frame_loop" {
				t.Errorf("unexpected name %q", check.Name())
			}
			err := check.Check(context.Background())
			if (err != nil) != tt.expectError {
				t.Errorf("Check() error = %v, expectError %v", err, tt.expectError)
			}
		})
	}
}

func TestBreakerHealthCheck(t *testing.T) {
	tests := []struct {
		state       gobreaker.State
		expectError bool
	}{
		{gobreaker.StateClosed, false},
		{gobreaker.StateHalfOpen, false},
		{gobreaker.StateOpen, true},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			check := NewBreakerHealthCheck("broadcast", func() gobreaker.State { return tt.state })
			if check.Name() != "broadcast" {
				t.Errorf("unexpected name %q", check.Name())
			}
			err := check.Check(context.Background())
			if (err != nil) != tt.expectError {
				t.Errorf("Check() error = %v, expectError %v", err, tt.expectError)
			}
		})
	}
}

func TestMemoryHealthCheck(t *testing.T) {
	tests := []struct {
		name        string
		maxMB       int64
		currentMB   int64
		expectError bool
	}{
		{"under limit", 100, 50, false},
		{"at limit", 100, 100, false},
		{"over limit", 100, 150, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := NewMemoryHealthCheck(tt.maxMB, func() int64 { return tt.currentMB })
			err := check.Check(context.Background())
			if (err != nil) != tt.expectError {
				t.Errorf("Check() error = %v, expectError %v", err, tt.expectError)
			}
		})
	}
}

func TestMemoryHealthCheck_ReadsHeap(t *testing.T) {
	check := NewMemoryHealthCheck(1<<20, nil)
	if err := check.Check(context.Background()); err != nil {
		t.Errorf("a terabyte limit should pass, got %v", err)
	}
}
