package track

import "github.com/opd-ai/go-circuit-racer/pkg/physics"

// Box is the world rectangle a normalized control path is stretched into.
// Min is where the normalized origin lands and Max is where (1, 1) lands;
// Max may be smaller than Min on either axis to mirror the path.
type Box struct {
	Min physics.Vector2D `json:"min" msgpack:"min"`
	Max physics.Vector2D `json:"max" msgpack:"max"`
}

// Size returns the per-axis scale of the box.
func (b Box) Size() physics.Vector2D {
	return b.Max.Sub(b.Min)
}

// Remap moves a normalized point into the box.
func (b Box) Remap(p physics.Vector2D) physics.Vector2D {
	return b.Min.Add(p.Mul(b.Size()))
}

// Unmap is the inverse of Remap. Degenerate axes map to zero.
func (b Box) Unmap(p physics.Vector2D) physics.Vector2D {
	size := b.Size()
	var out physics.Vector2D
	if size.X != 0 {
		out.X = (p.X - b.Min.X) / size.X
	}
	if size.Y != 0 {
		out.Y = (p.Y - b.Min.Y) / size.Y
	}
	return out
}

// RemapPath remaps every point of path.
func (b Box) RemapPath(path []physics.Vector2D) []physics.Vector2D {
	out := make([]physics.Vector2D, len(path))
	for i, p := range path {
		out[i] = b.Remap(p)
	}
	return out
}

// UnmapPath unmaps every point of path.
func (b Box) UnmapPath(path []physics.Vector2D) []physics.Vector2D {
	out := make([]physics.Vector2D, len(path))
	for i, p := range path {
		out[i] = b.Unmap(p)
	}
	return out
}

// ControlPath is an authored list of normalized spline control points.
type ControlPath []physics.Vector2D

// Segment is one named curve of a circuit: its authored control points and
// the box they are stretched into.
type Segment struct {
	Name string
	Path ControlPath
	Box  Box
}

// World returns the segment's control points in world coordinates.
func (s Segment) World() []physics.Vector2D {
	return s.Box.RemapPath(s.Path)
}

// PushOut moves each point away from the origin by amount on both axes,
// keeping it in its quadrant. Points on an axis are pushed towards the
// positive side of that axis.
func PushOut(path []physics.Vector2D, amount float64) []physics.Vector2D {
	out := make([]physics.Vector2D, len(path))
	for i, p := range path {
		dx, dy := amount, amount
		if p.X < 0 {
			dx = -amount
		}
		if p.Y < 0 {
			dy = -amount
		}
		out[i] = physics.Vector2D{X: p.X + dx, Y: p.Y + dy}
	}
	return out
}
