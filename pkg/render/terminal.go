// pkg/render/terminal.go
package render

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/opd-ai/go-circuit-racer/pkg/engine"
	"github.com/opd-ai/go-circuit-racer/pkg/physics"
	"github.com/opd-ai/go-circuit-racer/pkg/track"
)

// TerminalRenderer draws a top-down ASCII view following the player.
type TerminalRenderer struct {
	out io.Writer

	mu         sync.Mutex
	cols, rows int
	buffer     [][]rune
	projection Projection
	layout     *track.Layout
}

// NewTerminalRenderer creates a renderer of cols x rows cells. Terminal
// cells are about twice as tall as wide, which the projection accounts for.
func NewTerminalRenderer(out io.Writer, cols, rows int, cameraWidth float64) *TerminalRenderer {
	r := &TerminalRenderer{
		out:        out,
		projection: Projection{Width: cameraWidth, Height: cameraWidth},
	}
	r.resize(cols, rows)
	return r
}

// RenderTrack implements Renderer.
func (r *TerminalRenderer) RenderTrack(layout *track.Layout) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layout = layout
}

// Resize implements Renderer. Dimensions are in cells.
func (r *TerminalRenderer) Resize(width, height float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resize(int(width), int(height))
}

func (r *TerminalRenderer) resize(cols, rows int) {
	if cols < 1 || rows < 1 {
		return
	}
	r.cols, r.rows = cols, rows
	r.buffer = make([][]rune, rows)
	for i := range r.buffer {
		r.buffer[i] = make([]rune, cols)
	}
	r.projection.Resize(float64(cols), float64(rows)*2)
}

// RenderFrame implements Renderer.
func (r *TerminalRenderer) RenderFrame(frame engine.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clear()
	if r.layout != nil {
		for _, p := range r.layout.Curbs {
			r.plotPath(p, frame.Camera, ':')
		}
		for _, p := range r.layout.Markings {
			r.plotPath(p, frame.Camera, '.')
		}
		for _, tree := range r.layout.Trees {
			r.plot(tree, frame.Camera, 'T')
		}
	}
	for _, o := range frame.Obstacles {
		symbol := 'c'
		if o.Kind == string(engine.KindTruck) {
			symbol = 't'
		}
		r.plot(o.Position, frame.Camera, symbol)
	}
	r.plot(frame.Player.Position, frame.Camera, headingGlyph(frame.Player.Rotation))

	r.present(frame)
}

func (r *TerminalRenderer) clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
		}
	}
}

// worldToCell converts world coordinates to a cell, reporting whether it is
// on screen.
func (r *TerminalRenderer) worldToCell(pos, camera physics.Vector2D) (int, int, bool) {
	v := r.projection.ToViewport(pos, camera, float64(r.cols), float64(r.rows))
	x, y := int(math.Floor(v.X)), int(math.Floor(v.Y))
	return x, y, x >= 0 && x < r.cols && y >= 0 && y < r.rows
}

func (r *TerminalRenderer) plot(pos, camera physics.Vector2D, symbol rune) {
	if x, y, ok := r.worldToCell(pos, camera); ok {
		r.buffer[y][x] = symbol
	}
}

// plotPath marks every cell a path passes through, stepping at most one
// cell at a time.
func (r *TerminalRenderer) plotPath(path track.Path, camera physics.Vector2D, symbol rune) {
	cell := r.projection.Width / float64(r.cols)
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		steps := int(math.Ceil(a.Distance(b)/cell)) + 1
		for s := 0; s <= steps; s++ {
			t := float64(s) / float64(steps)
			r.plot(a.Add(b.Sub(a).Scale(t)), camera, symbol)
		}
	}
}

func (r *TerminalRenderer) present(frame engine.Frame) {
	var sb strings.Builder
	sb.WriteString("\033[H\033[2J")
	sb.WriteString("+" + strings.Repeat("-", r.cols) + "+\n")
	for y := range r.buffer {
		sb.WriteString("|")
		sb.WriteString(string(r.buffer[y]))
		sb.WriteString("|\n")
	}
	sb.WriteString("+" + strings.Repeat("-", r.cols) + "+\n")

	fmt.Fprintf(&sb, "%-8s speed %6.3f  %s\n", frame.Phase, frame.Speed, frame.UI.Status)
	if frame.UI.InstructionsVisible {
		sb.WriteString("UP accelerate, DOWN brake, LEFT/RIGHT steer\n")
	}
	if frame.UI.ResultsVisible {
		sb.WriteString("You hit another vehicle. Press R to reset.\n")
	}

	io.WriteString(r.out, sb.String())
}

// headingGlyph picks an arrow for the heading, in radians.
func headingGlyph(rotation float64) rune {
	glyphs := []rune{'>', '/', '^', '\\', '<', '/', 'v', '\\'}
	octant := int(math.Round(rotation/(math.Pi/4))) % 8
	if octant < 0 {
		octant += 8
	}
	return glyphs[octant]
}
