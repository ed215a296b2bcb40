// pkg/render/projection.go
package render

import "github.com/opd-ai/go-circuit-racer/pkg/physics"

// Projection is an orthographic camera of fixed world width. Its height
// follows the aspect ratio of the viewport.
type Projection struct {
	Width  float64
	Height float64
}

// NewProjection sizes a camera of the given world width for a viewport.
// A degenerate viewport keeps a square view.
func NewProjection(cameraWidth, viewportWidth, viewportHeight float64) Projection {
	p := Projection{Width: cameraWidth, Height: cameraWidth}
	p.Resize(viewportWidth, viewportHeight)
	return p
}

// Resize recomputes the height for a new viewport.
func (p *Projection) Resize(viewportWidth, viewportHeight float64) {
	if viewportWidth <= 0 || viewportHeight <= 0 {
		return
	}
	aspect := viewportWidth / viewportHeight
	p.Height = p.Width / aspect
}

// Bounds returns the visible world rectangle centred on target.
func (p Projection) Bounds(target physics.Vector2D) (min, max physics.Vector2D) {
	half := physics.Vector2D{X: p.Width / 2, Y: p.Height / 2}
	return target.Sub(half), target.Add(half)
}

// ToViewport maps a world point to viewport pixels with the origin at the
// top left. World y grows upwards, viewport y downwards.
func (p Projection) ToViewport(world, target physics.Vector2D, viewportWidth, viewportHeight float64) physics.Vector2D {
	min, _ := p.Bounds(target)
	return physics.Vector2D{
		X: (world.X - min.X) / p.Width * viewportWidth,
		Y: viewportHeight - (world.Y-min.Y)/p.Height*viewportHeight,
	}
}
