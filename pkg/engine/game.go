// pkg/engine/game.go
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/opd-ai/go-circuit-racer/pkg/config"
	"github.com/opd-ai/go-circuit-racer/pkg/event"
	"github.com/opd-ai/go-circuit-racer/pkg/input"
	"github.com/opd-ai/go-circuit-racer/pkg/logging"
	"github.com/opd-ai/go-circuit-racer/pkg/track"
)

// Game owns the simulation state of one session and its phase machine.
// Input may arrive from any goroutine; frames come from the Loop.
type Game struct {
	rules  *Rules
	layout *track.Layout
	bus    *event.Bus
	logger *logging.Logger

	mu    sync.Mutex
	state *SimulationState
	seq   uint64
}

// NewGame creates a game in the ready phase.
func NewGame(cfg *config.GameConfig, layout *track.Layout, bus *event.Bus, logger *logging.Logger) (*Game, error) {
	rules, err := NewRules(cfg, layout)
	if err != nil {
		return nil, err
	}
	if bus == nil {
		bus = event.NewEventBus()
	}
	if logger == nil {
		logger = logging.NewLogger()
	}

	return &Game{
		rules:  rules,
		layout: layout,
		bus:    bus,
		logger: logger.With("component", "game", "track", layout.Name),
		state:  NewSimulationState(rules),
	}, nil
}

// Layout returns the track the game is played on.
func (g *Game) Layout() *track.Layout { return g.layout }

// Bus returns the event bus the game publishes on.
func (g *Game) Bus() *event.Bus { return g.bus }

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Phase
}

// HandleInput applies a key or button event. The reset control resets the
// game; the starting controls start it from the ready phase.
func (g *Game) HandleInput(e input.Event) {
	if e.Control == input.Reset {
		if e.Action == input.Press {
			g.Reset()
		}
		return
	}

	if e.StartsGame() {
		g.Start()
	}

	g.mu.Lock()
	g.state.Flags.Apply(e)
	g.mu.Unlock()
}

// Start moves the game from ready to running. It does nothing in any other
// phase.
func (g *Game) Start() {
	g.mu.Lock()
	if g.state.Phase != PhaseReady {
		g.mu.Unlock()
		return
	}
	g.state.Phase = PhaseRunning
	g.state.UI.Status = ""
	g.state.UI.ButtonsVisible = true
	g.state.UI.InstructionsVisible = false
	g.mu.Unlock()

	g.logger.Info(context.Background(), "race started")
	g.publishPhase(PhaseReady, PhaseRunning)
	g.bus.Publish(&event.BaseEvent{EventType: event.GameStarted, Source: g})
}

// Frame advances the game to the host timestamp, in milliseconds. The first
// frame after a start only records the timestamp. It reports whether the
// caller should keep delivering frames.
func (g *Game) Frame(timestamp float64) bool {
	g.mu.Lock()
	s := g.state
	if s.Phase != PhaseRunning {
		g.mu.Unlock()
		return false
	}
	if !s.HasTimestamp {
		s.LastTimestamp = timestamp
		s.HasTimestamp = true
		g.mu.Unlock()
		return true
	}

	dt := timestamp - s.LastTimestamp
	s.LastTimestamp = timestamp
	step := Advance(s, g.rules, dt)
	g.mu.Unlock()

	for _, o := range step.Spawned {
		g.logger.Debug(context.Background(), "vehicle spawned", "vehicle", o.ID, "kind", o.Kind, "clockwise", o.Clockwise)
		g.bus.Publish(event.NewVehicleEvent(g, o.ID, string(o.Kind), o.Clockwise))
	}

	if step.Crash != nil {
		c := step.Crash
		g.logger.Info(context.Background(), "player crashed", "vehicle", c.VehicleID, "kind", c.Kind)
		g.publishPhase(PhaseRunning, PhaseCrashed)
		g.bus.Publish(event.NewCollisionEvent(g, c.VehicleID, string(c.Kind), c.Contact))
		return false
	}
	return true
}

// Reset puts the player back on the start line from any phase and clears
// the obstacles.
func (g *Game) Reset() {
	g.mu.Lock()
	from := g.state.Phase
	g.state.restart(g.rules)
	g.state.UI.Status = g.rules.StatusText
	g.state.UI.ResultsVisible = false
	g.mu.Unlock()

	g.logger.Info(context.Background(), "race reset", "from", from.String())
	if from != PhaseReady {
		g.publishPhase(from, PhaseReady)
	}
	g.bus.Publish(&event.BaseEvent{EventType: event.GameReset, Source: g})
}

// Snapshot returns the current frame for renderers.
func (g *Game) Snapshot() Frame {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return snapshot(g.state, g.seq)
}

// RevealUI shows the buttons, and the instructions if the race has not
// started yet.
func (g *Game) RevealUI() {
	g.mu.Lock()
	g.state.UI.ButtonsVisible = true
	if g.state.Phase == PhaseReady {
		g.state.UI.InstructionsVisible = true
	}
	g.mu.Unlock()

	g.bus.Publish(&event.BaseEvent{EventType: event.UIRevealed, Source: g})
}

// ScheduleReveal calls RevealUI once after delay. Stop the returned timer
// to cancel it.
func (g *Game) ScheduleReveal(delay time.Duration) *time.Timer {
	return time.AfterFunc(delay, g.RevealUI)
}

func (g *Game) publishPhase(from, to Phase) {
	g.bus.Publish(event.NewPhaseEvent(event.PhaseChanged, g, from.String(), to.String()))
}
