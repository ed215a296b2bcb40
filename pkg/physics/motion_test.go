package physics

import (
	"math"
	"testing"

	"github.com/opd-ai/go-circuit-racer/pkg/input"
)

func TestUpdateSpeed_AccelerationIsMonotonic(t *testing.T) {
	p := DefaultMotionParams()
	s := p.NewVehicleState()
	flags := input.Flags{Accelerate: true}

	previous := s.Speed
	for i, dt := range []float64{0, 16, 16.7, 33, 0, 100, 1} {
		speed := p.UpdateSpeed(&s, flags, dt)
		if speed < previous {
			t.Fatalf("step %d: speed decreased from %g to %g", i, previous, speed)
		}
		if dt > 0 && speed <= previous {
			t.Fatalf("step %d: speed did not increase with dt=%g", i, dt)
		}
		previous = speed
	}
}

func TestUpdateSpeed_ZeroEscape(t *testing.T) {
	p := DefaultMotionParams()
	s := p.NewVehicleState()

	p.UpdateSpeed(&s, input.Flags{Accelerate: true}, 0)
	if s.Speed != p.ZeroEscape {
		t.Errorf("expected zero-escape speed %g, got %g", p.ZeroEscape, s.Speed)
	}
}

func TestUpdateSpeed_AsymmetricBraking(t *testing.T) {
	p := DefaultMotionParams()
	s := p.NewVehicleState()

	p.UpdateSpeed(&s, input.Flags{Accelerate: true}, 1000)
	if math.Abs(s.Speed-1.0) > 1e-9 {
		t.Fatalf("after 1000ms of acceleration expected speed 1.0, got %g", s.Speed)
	}

	p.UpdateSpeed(&s, input.Flags{Decelerate: true}, 400)
	if math.Abs(s.Speed) > 1e-9 {
		t.Errorf("after 400ms of braking expected speed 0, got %g", s.Speed)
	}
}

func TestUpdateSpeed_NeverNegative(t *testing.T) {
	p := DefaultMotionParams()
	s := p.NewVehicleState()
	s.Speed = 0.1

	for i := 0; i < 10; i++ {
		p.UpdateSpeed(&s, input.Flags{Decelerate: true}, 50)
		if s.Speed < 0 {
			t.Fatalf("speed went negative: %g", s.Speed)
		}
	}
	if s.Speed != 0 {
		t.Errorf("expected speed floored at 0, got %g", s.Speed)
	}
}

func TestUpdateHeading(t *testing.T) {
	tests := []struct {
		name     string
		model    TurnModel
		speed    float64
		flags    input.Flags
		dt       float64
		expected float64
	}{
		{"literal_left", TurnLiteral, 2, input.Flags{TurnLeft: true}, 30, 30 * 2e-2 * (0.5 / 3)},
		{"literal_right", TurnLiteral, 2, input.Flags{TurnRight: true}, 30, -30 * 2e-2 * (0.5 / 3)},
		{"cuberoot_left", TurnCubeRoot, 8, input.Flags{TurnLeft: true}, 10, 10 * 2e-2 * 0.5},
		{"both_cancel", TurnLiteral, 1, input.Flags{TurnLeft: true, TurnRight: true}, 10, 0},
		{"stationary", TurnLiteral, 0, input.Flags{TurnLeft: true}, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultMotionParams()
			p.TurnModel = tt.model
			s := p.NewVehicleState()
			s.Speed = tt.speed

			p.UpdateHeading(&s, tt.flags, tt.dt)
			if math.Abs(s.AngleMoved-tt.expected) > 1e-12 {
				t.Errorf("AngleMoved = %g, expected %g", s.AngleMoved, tt.expected)
			}
		})
	}
}

func TestUpdateHeading_Clamp(t *testing.T) {
	p := DefaultMotionParams()
	p.Clamp = HeadingClamp{Enabled: true, Max: 0.5}
	s := p.NewVehicleState()
	s.Speed = 0.1

	for i := 0; i < 50; i++ {
		p.UpdateHeading(&s, input.Flags{TurnLeft: true}, 16)
	}
	if s.AngleMoved != 0.5 {
		t.Errorf("expected heading offset clamped at 0.5, got %g", s.AngleMoved)
	}

	for i := 0; i < 50; i++ {
		p.UpdateHeading(&s, input.Flags{TurnRight: true}, 16)
	}
	if s.AngleMoved >= -0.5 {
		t.Errorf("expected no lower bound, got %g", s.AngleMoved)
	}

	p.Clamp.Enabled = false
	s.AngleMoved = 0
	for i := 0; i < 50; i++ {
		p.UpdateHeading(&s, input.Flags{TurnLeft: true}, 16)
	}
	if s.AngleMoved <= 0.5 {
		t.Errorf("expected unbounded heading without clamp, got %g", s.AngleMoved)
	}
}

func TestIntegrate_MovesAlongHeading(t *testing.T) {
	p := DefaultMotionParams()
	s := p.NewVehicleState()
	s.Speed = 2

	p.Integrate(&s, input.Flags{}, 16)
	p.Integrate(&s, input.Flags{}, 16)

	// Heading is pi, so the vehicle moves towards negative x.
	expected := p.StartPosition.Add(Vector2D{X: -4, Y: 0})
	if !s.Position.ApproxEqual(expected, 1e-9) {
		t.Errorf("Position = %v, expected %v", s.Position, expected)
	}
	if s.Rotation != p.StartHeading {
		t.Errorf("Rotation = %g, expected %g", s.Rotation, p.StartHeading)
	}
}

func TestReset_RestoresInitialState(t *testing.T) {
	p := DefaultMotionParams()
	s := p.NewVehicleState()

	flags := input.Flags{Accelerate: true, TurnLeft: true}
	for i := 0; i < 20; i++ {
		p.Integrate(&s, flags, 16)
	}
	if s.Position == p.StartPosition {
		t.Fatal("vehicle did not move")
	}

	p.Reset(&s)
	if s.Speed != 0 || s.AngleMoved != 0 || s.Displacement != (Vector2D{}) {
		t.Errorf("Reset left state %+v", s)
	}
	if s.Position != p.StartPosition || s.Rotation != p.StartHeading {
		t.Errorf("Reset position/rotation = %v/%g", s.Position, s.Rotation)
	}
}
