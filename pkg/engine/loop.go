// pkg/engine/loop.go
package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-circuit-racer/pkg/event"
	"github.com/opd-ai/go-circuit-racer/pkg/logging"
)

// FrameSink receives a snapshot after every update.
type FrameSink interface {
	RenderFrame(frame Frame)
}

// Loop is the host frame callback. It stays idle until the game starts,
// then ticks at the configured rate until the game leaves the running
// phase or the context is cancelled.
type Loop struct {
	game     *Game
	sink     FrameSink
	interval time.Duration
	logger   *logging.Logger

	origin   time.Time
	wake     chan struct{}
	subs     []*event.Subscription
	lastTick atomic.Int64
}

// NewLoop creates a loop delivering frames from game to sink at frameRate
// frames per second.
func NewLoop(game *Game, sink FrameSink, frameRate int, logger *logging.Logger) *Loop {
	if frameRate < 1 {
		frameRate = 60
	}
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &Loop{
		game:     game,
		sink:     sink,
		interval: time.Second / time.Duration(frameRate),
		logger:   logger.With("component", "loop"),
		wake:     make(chan struct{}, 1),
	}
}

// Run blocks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	l.origin = time.Now()
	bus := l.game.Bus()
	l.subs = append(l.subs,
		bus.Subscribe(event.GameStarted, l.started),
		bus.Subscribe(event.GameReset, l.signal),
		bus.Subscribe(event.UIRevealed, l.signal),
	)
	defer l.unsubscribe()

	l.sink.RenderFrame(l.game.Snapshot())
	if l.game.Phase() == PhaseRunning {
		l.signal(nil)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-l.wake:
		}

		l.sink.RenderFrame(l.game.Snapshot())
		if l.game.Phase() != PhaseRunning {
			continue
		}
		if l.race(ctx) {
			return nil
		}
	}
}

// race ticks until the game stops running. It reports whether ctx was
// cancelled meanwhile.
func (l *Loop) race(ctx context.Context) bool {
	l.lastTick.Store(time.Now().UnixNano())
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Debug(ctx, "frame loop attached", "interval", l.interval)
	for {
		select {
		case <-ctx.Done():
			return true
		case now := <-ticker.C:
			if !l.tick(now) {
				l.logger.Debug(ctx, "frame loop detached", "phase", l.game.Phase().String())
				return false
			}
		}
	}
}

// tick delivers one frame at now and reports whether the game is still
// running.
func (l *Loop) tick(now time.Time) bool {
	l.lastTick.Store(now.UnixNano())
	ms := float64(now.Sub(l.origin)) / float64(time.Millisecond)
	running := l.game.Frame(ms)
	l.sink.RenderFrame(l.game.Snapshot())
	return running
}

// LastTick returns when the loop last delivered a running frame or saw a
// race start, or the zero time if neither has happened. A restarted race
// never reports the previous run's final tick.
func (l *Loop) LastTick() time.Time {
	ns := l.lastTick.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

func (l *Loop) started(e event.Event) {
	l.lastTick.Store(time.Now().UnixNano())
	l.signal(e)
}

func (l *Loop) signal(event.Event) {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) unsubscribe() {
	for _, sub := range l.subs {
		sub.Cancel()
	}
	l.subs = nil
}
