package validation

import (
	"sync"
	"time"
)

// RateLimiter is a token bucket per client. Each bucket holds up to burst
// tokens and refills continuously at rate tokens per second.
type RateLimiter struct {
	rate    float64
	burst   float64
	idle    time.Duration
	now     func() time.Time
	clients map[string]*clientLimiter
	mu      sync.Mutex

	cleanupTick *time.Ticker
	done        chan struct{}
	closeOnce   sync.Once
}

// clientLimiter tracks rate limiting state for a single client
type clientLimiter struct {
	tokens   float64
	lastSeen time.Time
}

// NewRateLimiter creates a limiter. Clients idle for longer than idle are
// forgotten; a zero idle keeps every client until Forget is called.
func NewRateLimiter(rate float64, burst int, idle time.Duration) *RateLimiter {
	rl := &RateLimiter{
		rate:    rate,
		burst:   float64(burst),
		idle:    idle,
		now:     time.Now,
		clients: make(map[string]*clientLimiter),
		done:    make(chan struct{}),
	}
	if idle > 0 {
		rl.cleanupTick = time.NewTicker(idle)
		go rl.cleanup()
	}
	return rl
}

// Allow takes a token from the client's bucket if one is available.
func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cl, ok := rl.clients[clientID]
	if !ok {
		cl = &clientLimiter{tokens: rl.burst, lastSeen: now}
		rl.clients[clientID] = cl
	}

	if elapsed := now.Sub(cl.lastSeen).Seconds(); elapsed > 0 {
		cl.tokens += elapsed * rl.rate
		if cl.tokens > rl.burst {
			cl.tokens = rl.burst
		}
	}
	cl.lastSeen = now

	if cl.tokens >= 1 {
		cl.tokens--
		return true
	}
	return false
}

// Forget drops a client's bucket.
func (rl *RateLimiter) Forget(clientID string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.clients, clientID)
}

// Clients returns the number of tracked clients.
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

func (rl *RateLimiter) cleanup() {
	for {
		select {
		case <-rl.cleanupTick.C:
			rl.removeIdleClients()
		case <-rl.done:
			return
		}
	}
}

func (rl *RateLimiter) removeIdleClients() {
	cutoff := rl.now().Add(-rl.idle)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for clientID, cl := range rl.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(rl.clients, clientID)
		}
	}
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() {
		close(rl.done)
		if rl.cleanupTick != nil {
			rl.cleanupTick.Stop()
		}
	})
}
