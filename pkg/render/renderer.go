// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-circuit-racer/pkg/engine"
	"github.com/opd-ai/go-circuit-racer/pkg/logging"
	"github.com/opd-ai/go-circuit-racer/pkg/track"
)

// Renderer is the boundary to whatever draws the scene. RenderTrack is
// called once with the extruded shapes; RenderFrame after every update.
type Renderer interface {
	RenderTrack(layout *track.Layout)
	RenderFrame(frame engine.Frame)
	Resize(width, height float64)
}

// NullRenderer draws nothing and logs what it was given.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &NullRenderer{logger: logger.With("renderer", "null")}
}

// RenderTrack implements Renderer.
func (d *NullRenderer) RenderTrack(layout *track.Layout) {
	ctx := context.Background()
	if layout == nil {
		d.logger.Debug(ctx, "RenderTrack called with nil layout")
		return
	}
	for _, shape := range layout.Shapes() {
		d.logger.Debug(ctx, "RenderTrack shape",
			"shape", shape.Name,
			"points", len(shape.Outline),
			"holes", len(shape.Holes),
		)
	}
}

// RenderFrame implements Renderer.
func (d *NullRenderer) RenderFrame(frame engine.Frame) {
	d.logger.Debug(context.Background(), "RenderFrame called",
		"seq", frame.Sequence,
		"phase", frame.Phase,
		"x", frame.Player.Position.X,
		"y", frame.Player.Position.Y,
		"rotation", frame.Player.Rotation,
		"obstacles", len(frame.Obstacles),
	)
}

// Resize implements Renderer.
func (d *NullRenderer) Resize(width, height float64) {
	d.logger.Debug(context.Background(), "Resize called", "width", width, "height", height)
}

// Multi fans every call out to several renderers in order.
type Multi []Renderer

// RenderTrack implements Renderer.
func (m Multi) RenderTrack(layout *track.Layout) {
	for _, r := range m {
		r.RenderTrack(layout)
	}
}

// RenderFrame implements Renderer.
func (m Multi) RenderFrame(frame engine.Frame) {
	for _, r := range m {
		r.RenderFrame(frame)
	}
}

// Resize implements Renderer.
func (m Multi) Resize(width, height float64) {
	for _, r := range m {
		r.Resize(width, height)
	}
}
