// pkg/engine/collision.go
package engine

import (
	"github.com/opd-ai/go-circuit-racer/pkg/physics"
)

// Crash describes the obstacle that ended a run.
type Crash struct {
	VehicleID uint64
	Kind      VehicleKind
	Contact   physics.Vector2D
}

func hitZones(center physics.Vector2D, angle float64, clockwise bool, offsets []float64, c CollisionRules) []physics.Circle {
	zones := make([]physics.Circle, len(offsets))
	for i, d := range offsets {
		zones[i] = physics.HitZone(center, angle, clockwise, d, c.Model)
		zones[i].Radius = c.Radius
	}
	return zones
}

// detectCrash checks the player against every obstacle. The player's front
// zone is tested against every zone of the obstacle, the rear zone only
// against the obstacle's front zone.
func detectCrash(s *SimulationState, r *Rules) *Crash {
	heading := r.Motion.Heading(&s.Player)
	player := hitZones(s.Player.Position, heading, true, playerZoneOffsets, r.Collision)
	front, rear := player[0], player[1]

	for _, o := range s.Obstacles {
		zones := hitZones(o.Position, o.Angle, o.Clockwise, kindZoneOffsets[o.Kind], r.Collision)

		pairs := make([][2]physics.Circle, 0, len(zones)+1)
		for _, z := range zones {
			pairs = append(pairs, [2]physics.Circle{front, z})
		}
		pairs = append(pairs, [2]physics.Circle{rear, zones[0]})

		for _, p := range pairs {
			if result := physics.CheckCollision(p[0], p[1]); result.Collided {
				return &Crash{VehicleID: o.ID, Kind: o.Kind, Contact: result.ContactPoint}
			}
		}
	}
	return nil
}
