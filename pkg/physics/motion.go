// pkg/physics/motion.go
package physics

import (
	"math"

	"github.com/opd-ai/go-circuit-racer/pkg/input"
)

// TurnModel selects how steering authority depends on speed.
type TurnModel string

const (
	// TurnLiteral divides the inverse speed by three: (1/speed)**1/3 as it
	// binds without parentheses around the exponent.
	TurnLiteral TurnModel = "literal"
	// TurnCubeRoot takes the cube root of the inverse speed.
	TurnCubeRoot TurnModel = "cuberoot"
)

// HeadingClamp caps the accumulated heading offset from above. There is no
// lower bound.
type HeadingClamp struct {
	Enabled bool
	Max     float64
}

// MotionParams holds the player vehicle constants. Rates are per
// millisecond of elapsed frame time.
type MotionParams struct {
	AccelRate  float64
	DecelRate  float64
	ZeroEscape float64
	TurnRate   float64
	TurnModel  TurnModel
	Clamp      HeadingClamp

	StartPosition Vector2D
	StartHeading  float64
}

// DefaultMotionParams returns the constants of the shipped game.
func DefaultMotionParams() MotionParams {
	return MotionParams{
		AccelRate:     1e-3,
		DecelRate:     2.5e-3,
		ZeroEscape:    1e-10,
		TurnRate:      2e-2,
		TurnModel:     TurnLiteral,
		StartPosition: Vector2D{X: -80, Y: -235},
		StartHeading:  math.Pi,
	}
}

// VehicleState is the kinematic state of the player vehicle.
type VehicleState struct {
	Speed        float64
	AngleMoved   float64
	Displacement Vector2D

	// Derived each frame from the start constants.
	Position Vector2D
	Rotation float64
}

// NewVehicleState returns a vehicle parked at the start position.
func (p MotionParams) NewVehicleState() VehicleState {
	var s VehicleState
	p.Reset(&s)
	return s
}

// Reset restores speed, heading offset and displacement to their initial
// values.
func (p MotionParams) Reset(s *VehicleState) {
	s.Speed = 0
	s.AngleMoved = 0
	s.Displacement = Vector2D{}
	s.Position = p.StartPosition
	s.Rotation = p.StartHeading
}

// Heading returns the absolute heading of the vehicle.
func (p MotionParams) Heading(s *VehicleState) float64 {
	return p.StartHeading + s.AngleMoved
}

// UpdateSpeed applies acceleration and braking over dt milliseconds and
// returns the new speed. Speed never drops below zero.
func (p MotionParams) UpdateSpeed(s *VehicleState, flags input.Flags, dt float64) float64 {
	if flags.Accelerate && s.Speed == 0 {
		s.Speed = p.ZeroEscape
	}
	if flags.Accelerate {
		s.Speed += p.AccelRate * dt
	}
	if flags.Decelerate {
		s.Speed -= p.DecelRate * dt
	}
	if s.Speed < 0 {
		s.Speed = 0
	}
	return s.Speed
}

// turnFactor scales steering by speed. It is undefined at zero speed.
func (p MotionParams) turnFactor(speed float64) float64 {
	if p.TurnModel == TurnCubeRoot {
		return math.Cbrt(1 / speed)
	}
	return (1 / speed) / 3
}

// UpdateHeading applies steering over dt milliseconds. A stationary vehicle
// does not turn.
func (p MotionParams) UpdateHeading(s *VehicleState, flags input.Flags, dt float64) {
	if s.Speed > 0 {
		step := dt * p.TurnRate * p.turnFactor(s.Speed)
		if flags.TurnLeft {
			s.AngleMoved += step
		}
		if flags.TurnRight {
			s.AngleMoved -= step
		}
	}
	if p.Clamp.Enabled && s.AngleMoved > p.Clamp.Max {
		s.AngleMoved = p.Clamp.Max
	}
}

// Integrate advances the vehicle by one frame. The displacement grows by the
// speed along the heading once per frame regardless of dt.
func (p MotionParams) Integrate(s *VehicleState, flags input.Flags, dt float64) {
	speed := p.UpdateSpeed(s, flags, dt)
	p.UpdateHeading(s, flags, dt)

	heading := p.Heading(s)
	s.Displacement = s.Displacement.Add(FromAngle(heading, speed))
	s.Position = p.StartPosition.Add(s.Displacement)
	s.Rotation = heading
}
