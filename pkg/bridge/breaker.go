package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-circuit-racer/pkg/config"
	"github.com/opd-ai/go-circuit-racer/pkg/logging"
)

// Publisher runs broadcasts through a circuit breaker. When every client
// keeps falling behind the breaker opens and frames are dropped outright
// until the timeout lets a trial broadcast through.
type Publisher struct {
	breaker *gobreaker.CircuitBreaker
	logger  *logging.Logger
}

// Operation is one broadcast attempt.
type Operation func() error

// NewPublisher creates a publisher with breaker settings from cfg.
func NewPublisher(name string, cfg config.BreakerConfig, logger *logging.Logger) *Publisher {
	if logger == nil {
		logger = logging.NewLogger()
	}
	maxFails := cfg.MaxConsecutiveFails
	if maxFails == 0 {
		maxFails = 1
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.IntervalMs) * time.Millisecond,
		Timeout:     time.Duration(cfg.TimeoutMs) * time.Millisecond,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFails
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info(context.Background(), "circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &Publisher{
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// Execute runs op unless the breaker is open.
func (p *Publisher) Execute(ctx context.Context, op Operation) error {
	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, op()
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		p.logger.Debug(ctx, "broadcast skipped", "state", p.breaker.State().String())
	} else {
		p.logger.Warn(ctx, "broadcast failed", "error", err, "state", p.breaker.State().String())
	}
	return fmt.Errorf("circuit breaker: %w", err)
}

// State returns the current state of the circuit breaker.
func (p *Publisher) State() gobreaker.State {
	return p.breaker.State()
}

// Counts returns the breaker's success and failure counts.
func (p *Publisher) Counts() gobreaker.Counts {
	return p.breaker.Counts()
}
