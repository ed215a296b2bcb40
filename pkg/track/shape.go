package track

import (
	"math"

	"github.com/opd-ai/go-circuit-racer/pkg/physics"
)

// Path is an ordered polyline in world coordinates.
type Path []physics.Vector2D

// IsClosed reports whether the path ends where it starts.
func (p Path) IsClosed() bool {
	if len(p) < 2 {
		return false
	}
	return p[0] == p[len(p)-1]
}

// Bounds returns the axis-aligned bounding box of the path.
func (p Path) Bounds() Box {
	if len(p) == 0 {
		return Box{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range p {
		minX = math.Min(minX, v.X)
		minY = math.Min(minY, v.Y)
		maxX = math.Max(maxX, v.X)
		maxY = math.Max(maxY, v.Y)
	}
	return Box{
		Min: physics.Vector2D{X: minX, Y: minY},
		Max: physics.Vector2D{X: maxX, Y: maxY},
	}
}

// Length returns the summed length of the path's segments.
func (p Path) Length() float64 {
	total := 0.0
	for i := 1; i < len(p); i++ {
		total += p[i].Distance(p[i-1])
	}
	return total
}

// Shape is a closed outline with optional holes, ready for extrusion.
type Shape struct {
	Name    string
	Outline Path
	Holes   []Path
}

// IsClosed reports whether the outline and every hole are closed.
func (s Shape) IsClosed() bool {
	if !s.Outline.IsClosed() {
		return false
	}
	for _, h := range s.Holes {
		if !h.IsClosed() {
			return false
		}
	}
	return true
}
