// pkg/physics/collision.go
package physics

import "math"

// HitZoneRadius is the radius of a hit zone. Two zones touch when their
// centres are closer than twice this.
const HitZoneRadius = 20.0

// Circle represents a circular collision shape
type Circle struct {
	Center Vector2D
	Radius float64
}

// Collides checks if two circles are colliding
func (c Circle) Collides(other Circle) bool {
	return c.Center.Distance(other.Center) < c.Radius+other.Radius
}

// CollisionResult contains information about a collision
type CollisionResult struct {
	Collided     bool
	Normal       Vector2D
	Penetration  float64
	ContactPoint Vector2D
}

// CheckCollision performs detailed collision detection between two circles
func CheckCollision(a, b Circle) CollisionResult {
	normal := b.Center.Sub(a.Center)
	distance := normal.Length()

	if distance >= a.Radius+b.Radius {
		return CollisionResult{Collided: false}
	}

	normal = normal.Normalize()
	return CollisionResult{
		Collided:     true,
		Normal:       normal,
		Penetration:  a.Radius + b.Radius - distance,
		ContactPoint: a.Center.Add(normal.Scale(a.Radius)),
	}
}

// HitZoneModel selects how the offset direction of a hit zone is derived.
type HitZoneModel string

const (
	// HitZoneLiteral evaluates `angle + clockwise ? -pi/2 : pi/2` with the
	// addition binding first, so the direction is -pi/2 unless
	// angle+clockwise is exactly zero.
	HitZoneLiteral HitZoneModel = "literal"
	// HitZoneCorrected offsets perpendicular to the heading.
	HitZoneCorrected HitZoneModel = "corrected"
)

// HitZoneDirection returns the direction along which hit zones are offset.
func HitZoneDirection(angle float64, clockwise bool, model HitZoneModel) float64 {
	quarter := math.Pi / 2
	if model == HitZoneCorrected {
		if clockwise {
			return angle - quarter
		}
		return angle + quarter
	}

	sum := angle
	if clockwise {
		sum++
	}
	if sum != 0 && !math.IsNaN(sum) {
		return -quarter
	}
	return quarter
}

// HitZone places a hit zone distance units from center.
func HitZone(center Vector2D, angle float64, clockwise bool, distance float64, model HitZoneModel) Circle {
	dir := HitZoneDirection(angle, clockwise, model)
	return Circle{
		Center: center.Add(FromAngle(dir, distance)),
		Radius: HitZoneRadius,
	}
}
