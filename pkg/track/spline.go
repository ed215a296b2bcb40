// Package track turns normalized spline control points into the closed
// outlines of a circuit: the middle island, the field with the circuit
// cut out of it, and the overlay strokes drawn on top.
package track

import (
	"math"

	"github.com/opd-ai/go-circuit-racer/pkg/physics"
)

// Sample evaluates a uniform Catmull-Rom spline through points at
// divisions+1 evenly spaced parameters. The first and last samples equal
// the first and last control points, so a path whose last point repeats its
// first yields a closed polyline.
func Sample(points []physics.Vector2D, divisions int) []physics.Vector2D {
	if len(points) == 0 {
		return nil
	}
	if divisions < 1 {
		divisions = 1
	}

	out := make([]physics.Vector2D, 0, divisions+1)
	for d := 0; d <= divisions; d++ {
		out = append(out, pointAt(points, float64(d)/float64(divisions)))
	}
	return out
}

func pointAt(points []physics.Vector2D, t float64) physics.Vector2D {
	last := len(points) - 1
	p := float64(last) * t
	i := int(math.Floor(p))
	weight := p - float64(i)

	if i >= last {
		i = last
		weight = 0
	}

	p0 := points[clampIndex(i-1, last)]
	p1 := points[i]
	p2 := points[clampIndex(i+1, last)]
	p3 := points[clampIndex(i+2, last)]

	return physics.Vector2D{
		X: catmullRom(weight, p0.X, p1.X, p2.X, p3.X),
		Y: catmullRom(weight, p0.Y, p1.Y, p2.Y, p3.Y),
	}
}

func clampIndex(i, last int) int {
	if i < 0 {
		return 0
	}
	if i > last {
		return last
	}
	return i
}

func catmullRom(t, p0, p1, p2, p3 float64) float64 {
	v0 := (p2 - p0) * 0.5
	v1 := (p3 - p1) * 0.5
	t2 := t * t
	t3 := t * t2
	return (2*p1-2*p2+v0+v1)*t3 + (-3*p1+3*p2-2*v0-v1)*t2 + v0*t + p1
}
