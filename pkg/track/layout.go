package track

import (
	"fmt"
	"math"
	"sort"

	"github.com/opd-ai/go-circuit-racer/pkg/physics"
)

// Start is where the player vehicle is parked on reset.
type Start struct {
	Position physics.Vector2D
	Heading  float64
}

// Ring is the circle obstacle vehicles drive around.
type Ring struct {
	Center physics.Vector2D
	Radius float64
}

// PointAt returns the point of the ring at angle.
func (r Ring) PointAt(angle float64) physics.Vector2D {
	return r.Center.Add(physics.FromAngle(angle, r.Radius))
}

// Layout is one circuit variant: the extruded shapes, the overlay strokes
// and the fixed positions the simulation needs.
type Layout struct {
	Name string

	// Island is the area enclosed by the circuit.
	Island Shape
	// Field is the terrain around the circuit, with the circuit as a hole.
	Field Shape

	Markings []Path
	Curbs    []Path
	Trees    []physics.Vector2D

	Extent Box
	Start  Start
	Ring   Ring
}

// Shapes returns every shape handed to the extrusion service.
func (l *Layout) Shapes() []Shape {
	return []Shape{l.Island, l.Field}
}

var layouts = map[string]func() *Layout{
	"oval":  Oval,
	"monza": Monza,
}

// Names lists the available layouts.
func Names() []string {
	names := make([]string, 0, len(layouts))
	for name := range layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load builds the named layout.
func Load(name string) (*Layout, error) {
	build, ok := layouts[name]
	if !ok {
		return nil, fmt.Errorf("unknown track %q (available: %v)", name, Names())
	}
	return build(), nil
}

// rectangle returns the closed outline of an axis-aligned rectangle.
func rectangle(name string, halfWidth, halfHeight float64) Shape {
	return NewBuilder(name).
		MoveTo(physics.Vector2D{X: -halfWidth, Y: -halfHeight}).
		LineTo(physics.Vector2D{X: halfWidth, Y: -halfHeight}).
		LineTo(physics.Vector2D{X: halfWidth, Y: halfHeight}).
		LineTo(physics.Vector2D{X: -halfWidth, Y: halfHeight}).
		Build()
}

// squareStroke samples a closed spline through the corners of a square of
// the given half size.
func squareStroke(half float64, divisions int) Path {
	corners := []physics.Vector2D{
		{X: -half, Y: -half},
		{X: half, Y: -half},
		{X: half, Y: half},
		{X: -half, Y: half},
		{X: -half, Y: -half},
	}
	return Path(Sample(corners, divisions))
}

func degrees(deg float64) float64 {
	return deg * math.Pi / 180
}
