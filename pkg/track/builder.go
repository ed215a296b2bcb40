package track

import "github.com/opd-ai/go-circuit-racer/pkg/physics"

// Builder assembles a closed outline from straight moves and sampled spline
// segments. It never fails: malformed input yields a malformed outline.
type Builder struct {
	name   string
	points Path
	holes  []Path
}

// NewBuilder starts an empty outline.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// MoveTo starts the outline at p. It is only meaningful before any other
// point has been added; afterwards it behaves like LineTo.
func (b *Builder) MoveTo(p physics.Vector2D) *Builder {
	return b.LineTo(p)
}

// LineTo adds a straight move to a fixed waypoint.
func (b *Builder) LineTo(p physics.Vector2D) *Builder {
	if n := len(b.points); n > 0 && b.points[n-1] == p {
		return b
	}
	b.points = append(b.points, p)
	return b
}

// Spline remaps the segment into its box and appends the sampled curve.
func (b *Builder) Spline(seg Segment, divisions int) *Builder {
	return b.SplineWorld(seg.World(), divisions)
}

// SplineWorld appends a curve sampled through control points that are
// already in world coordinates.
func (b *Builder) SplineWorld(points []physics.Vector2D, divisions int) *Builder {
	for _, p := range Sample(points, divisions) {
		b.LineTo(p)
	}
	return b
}

// Hole cuts a closed path out of the outline.
func (b *Builder) Hole(hole Path) *Builder {
	b.holes = append(b.holes, closePath(append(Path(nil), hole...)))
	return b
}

// Close returns to the first point if the outline does not already end
// there.
func (b *Builder) Close() *Builder {
	b.points = closePath(b.points)
	return b
}

// Build closes the outline and returns the finished shape.
func (b *Builder) Build() Shape {
	b.Close()
	outline := make(Path, len(b.points))
	copy(outline, b.points)
	holes := make([]Path, len(b.holes))
	copy(holes, b.holes)
	return Shape{Name: b.name, Outline: outline, Holes: holes}
}

// Path returns the closed outline without holes.
func (b *Builder) Path() Path {
	return b.Close().Build().Outline
}

func closePath(p Path) Path {
	if len(p) == 0 || p.IsClosed() {
		return p
	}
	return append(p, p[0])
}
