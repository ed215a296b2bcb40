// pkg/engine/rules.go
package engine

import (
	"fmt"

	"github.com/opd-ai/go-circuit-racer/pkg/config"
	"github.com/opd-ai/go-circuit-racer/pkg/physics"
	"github.com/opd-ai/go-circuit-racer/pkg/track"
)

// CollisionRules controls hit detection. It is off unless enabled.
type CollisionRules struct {
	Enabled bool
	Model   physics.HitZoneModel
	Radius  float64
}

// TrafficRules controls obstacle spawning and movement.
type TrafficRules struct {
	Enabled         bool
	SpawnIntervalMs float64
	MaxVehicles     int
	// BaseAngularSpeed is radians per ms for a vehicle of speed 1.
	BaseAngularSpeed float64
	// CoupleToPlayerSpeed moves obstacles by the player's speed instead of
	// BaseAngularSpeed.
	CoupleToPlayerSpeed bool
	Seed                uint64
}

// Rules are the fixed parameters of a session.
type Rules struct {
	Motion     physics.MotionParams
	Collision  CollisionRules
	Traffic    TrafficRules
	Ring       track.Ring
	StatusText string
}

// NewRules combines a validated configuration with a layout's start line
// and obstacle ring.
func NewRules(cfg *config.GameConfig, layout *track.Layout) (*Rules, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("building rules: %w", err)
	}
	if layout == nil {
		return nil, fmt.Errorf("building rules: no track layout")
	}

	return &Rules{
		Motion: physics.MotionParams{
			AccelRate:  cfg.Motion.AccelRate,
			DecelRate:  cfg.Motion.DecelRate,
			ZeroEscape: cfg.Motion.ZeroEscape,
			TurnRate:   cfg.Motion.TurnRate,
			TurnModel:  physics.TurnModel(cfg.Motion.TurnModel),
			Clamp: physics.HeadingClamp{
				Enabled: cfg.Motion.ClampHeading,
				Max:     cfg.Motion.MaxHeadingOffset,
			},
			StartPosition: layout.Start.Position,
			StartHeading:  layout.Start.Heading,
		},
		Collision: CollisionRules{
			Enabled: cfg.Collision.Enabled,
			Model:   physics.HitZoneModel(cfg.Collision.HitZoneModel),
			Radius:  cfg.Collision.HitZoneRadius,
		},
		Traffic: TrafficRules{
			Enabled:             cfg.Traffic.Enabled,
			SpawnIntervalMs:     float64(cfg.Traffic.SpawnIntervalMs),
			MaxVehicles:         cfg.Traffic.MaxVehicles,
			BaseAngularSpeed:    cfg.Traffic.BaseAngularSpeed,
			CoupleToPlayerSpeed: cfg.Traffic.CoupleToPlayerSpeed,
			Seed:                cfg.Traffic.Seed,
		},
		Ring:       layout.Ring,
		StatusText: cfg.UI.StatusText,
	}, nil
}
