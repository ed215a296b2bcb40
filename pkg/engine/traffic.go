// pkg/engine/traffic.go
package engine

import (
	"math"

	"github.com/opd-ai/go-circuit-racer/pkg/physics"
	"github.com/opd-ai/go-circuit-racer/pkg/track"
)

// VehicleKind is the body type of an obstacle.
type VehicleKind string

const (
	KindCar   VehicleKind = "car"
	KindTruck VehicleKind = "truck"
)

type speedRange struct{ min, max float64 }

var kindSpeeds = map[VehicleKind]speedRange{
	KindCar:   {min: 1, max: 2},
	KindTruck: {min: 0.6, max: 1.5},
}

// Hit zone offsets along a vehicle, front first.
var (
	playerZoneOffsets = []float64{15, -15}
	kindZoneOffsets   = map[VehicleKind][]float64{
		KindCar:   {15, -15},
		KindTruck: {35, 0, -35},
	}
)

// Obstacle is a vehicle circling the obstacle ring.
type Obstacle struct {
	ID        uint64
	Kind      VehicleKind
	Speed     float64
	Clockwise bool
	Angle     float64
	Position  physics.Vector2D
	Rotation  float64
}

// place derives position and rotation from the ring angle.
func (o *Obstacle) place(ring track.Ring) {
	o.Position = ring.PointAt(o.Angle)
	if o.Clockwise {
		o.Rotation = o.Angle - math.Pi/2
	} else {
		o.Rotation = o.Angle + math.Pi/2
	}
}

// spawnObstacle adds one random vehicle at the top or bottom of the ring.
func spawnObstacle(s *SimulationState, r *Rules) Obstacle {
	kind := KindCar
	if s.rng.IntN(2) == 1 {
		kind = KindTruck
	}
	speeds := kindSpeeds[kind]
	o := Obstacle{
		ID:        s.NextVehicleID,
		Kind:      kind,
		Speed:     speeds.min + s.rng.Float64()*(speeds.max-speeds.min),
		Clockwise: s.rng.Float64() >= 0.5,
	}
	if o.Clockwise {
		o.Angle = math.Pi / 2
	} else {
		o.Angle = -math.Pi / 2
	}
	o.place(r.Ring)

	s.NextVehicleID++
	s.Obstacles = append(s.Obstacles, o)
	return o
}

// moveObstacles advances every obstacle along the ring.
func moveObstacles(s *SimulationState, r *Rules, dt float64) {
	for i := range s.Obstacles {
		o := &s.Obstacles[i]
		step := r.Traffic.BaseAngularSpeed * dt * o.Speed
		if r.Traffic.CoupleToPlayerSpeed {
			step = s.Player.Speed * dt * o.Speed
		}
		if o.Clockwise {
			o.Angle -= step
		} else {
			o.Angle += step
		}
		o.place(r.Ring)
	}
}

// spawnDue spawns the obstacles whose time has come, at most one per frame.
func spawnDue(s *SimulationState, r *Rules) []Obstacle {
	if !r.Traffic.Enabled || len(s.Obstacles) >= r.Traffic.MaxVehicles {
		return nil
	}
	if s.RunningMs < s.NextSpawnMs {
		return nil
	}
	s.NextSpawnMs += r.Traffic.SpawnIntervalMs
	return []Obstacle{spawnObstacle(s, r)}
}
