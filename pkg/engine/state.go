// pkg/engine/state.go
package engine

import (
	"fmt"
	"math/rand/v2"

	"github.com/opd-ai/go-circuit-racer/pkg/input"
	"github.com/opd-ai/go-circuit-racer/pkg/physics"
)

// Phase is the coarse game state.
type Phase int

const (
	PhaseReady Phase = iota
	PhaseRunning
	PhaseCrashed
)

func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhaseRunning:
		return "running"
	case PhaseCrashed:
		return "crashed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// UIState is what the overlays should currently show.
type UIState struct {
	Status              string `json:"status" msgpack:"status"`
	InstructionsVisible bool   `json:"instructions" msgpack:"instructions"`
	ButtonsVisible      bool   `json:"buttons" msgpack:"buttons"`
	ResultsVisible      bool   `json:"results" msgpack:"results"`
}

// SimulationState is everything one frame update reads and writes.
type SimulationState struct {
	Phase     Phase
	Player    physics.VehicleState
	Flags     input.Flags
	Obstacles []Obstacle
	UI        UIState

	// LastTimestamp is only meaningful when HasTimestamp is set. The first
	// frame of a run records it without advancing.
	LastTimestamp float64
	HasTimestamp  bool

	RunningMs     float64
	NextSpawnMs   float64
	NextVehicleID uint64

	rng *rand.Rand
}

// NewSimulationState returns a ready state at the start line.
func NewSimulationState(r *Rules) *SimulationState {
	s := &SimulationState{
		UI: UIState{Status: r.StatusText},
	}
	s.restart(r)
	return s
}

// restart puts the player back at the start line and clears the run. The
// traffic generator is re-seeded so every run sees the same traffic.
func (s *SimulationState) restart(r *Rules) {
	s.Phase = PhaseReady
	s.Player = r.Motion.NewVehicleState()
	s.Obstacles = nil
	s.LastTimestamp = 0
	s.HasTimestamp = false
	s.RunningMs = 0
	s.NextSpawnMs = r.Traffic.SpawnIntervalMs
	s.NextVehicleID = 1
	s.rng = rand.New(rand.NewPCG(r.Traffic.Seed, r.Traffic.Seed^0x5eed))
}
