// pkg/engine/frame.go
package engine

import "github.com/opd-ai/go-circuit-racer/pkg/physics"

// VehicleTransform is the per-frame placement of one scene object.
type VehicleTransform struct {
	ID       uint64           `json:"id" msgpack:"id"`
	Kind     string           `json:"kind" msgpack:"kind"`
	Position physics.Vector2D `json:"position" msgpack:"position"`
	Rotation float64          `json:"rotation" msgpack:"rotation"`
}

// Frame is a read-only snapshot handed to renderers after every update.
type Frame struct {
	Sequence  uint64             `json:"seq" msgpack:"seq"`
	Phase     string             `json:"phase" msgpack:"phase"`
	Timestamp float64            `json:"ts" msgpack:"ts"`
	Speed     float64            `json:"speed" msgpack:"speed"`
	Player    VehicleTransform   `json:"player" msgpack:"player"`
	Obstacles []VehicleTransform `json:"obstacles" msgpack:"obstacles"`
	Camera    physics.Vector2D   `json:"camera" msgpack:"camera"`
	UI        UIState            `json:"ui" msgpack:"ui"`
}

func snapshot(s *SimulationState, seq uint64) Frame {
	f := Frame{
		Sequence:  seq,
		Phase:     s.Phase.String(),
		Timestamp: s.LastTimestamp,
		Speed:     s.Player.Speed,
		Player: VehicleTransform{
			Kind:     "player",
			Position: s.Player.Position,
			Rotation: s.Player.Rotation,
		},
		Obstacles: make([]VehicleTransform, len(s.Obstacles)),
		Camera:    s.Player.Position,
		UI:        s.UI,
	}
	for i, o := range s.Obstacles {
		f.Obstacles[i] = VehicleTransform{
			ID:       o.ID,
			Kind:     string(o.Kind),
			Position: o.Position,
			Rotation: o.Rotation,
		}
	}
	return f
}
