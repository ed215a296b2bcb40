// pkg/render/renderer_test.go
package render

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/opd-ai/go-circuit-racer/pkg/engine"
	"github.com/opd-ai/go-circuit-racer/pkg/logging"
	"github.com/opd-ai/go-circuit-racer/pkg/physics"
	"github.com/opd-ai/go-circuit-racer/pkg/track"
)

func newCapturedNull() (*NullRenderer, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewNullRenderer(logging.NewLoggerWithWriter(&buf, slog.LevelDebug)), &buf
}

func TestNullRenderer_RenderTrack_LogsEachShape(t *testing.T) {
	r, buf := newCapturedNull()
	layout, err := track.Load("oval")
	if err != nil {
		t.Fatalf("loading oval: %v", err)
	}

	r.RenderTrack(layout)

	output := buf.String()
	for _, shape := range layout.Shapes() {
		if !strings.Contains(output, `"shape":"`+shape.Name+`"`) {
			t.Errorf("expected log to mention shape %q, got: %s", shape.Name, output)
		}
	}
}

func TestNullRenderer_RenderTrack_NilLayout(t *testing.T) {
	r, buf := newCapturedNull()

	r.RenderTrack(nil)

	if !strings.Contains(buf.String(), "nil layout") {
		t.Errorf("expected nil layout message, got: %s", buf.String())
	}
}

func TestNullRenderer_RenderFrame_LogsFrameInformation(t *testing.T) {
	tests := []struct {
		name     string
		frame    engine.Frame
		expected []string
	}{
		{
			name: "running frame",
			frame: engine.Frame{
				Sequence: 7,
				Phase:    "running",
				Player:   engine.VehicleTransform{Position: physics.Vector2D{X: 12, Y: -3}},
			},
			expected: []string{`"seq":7`, `"phase":"running"`, `"x":12`, `"y":-3`, `"obstacles":0`},
		},
		{
			name: "frame with traffic",
			frame: engine.Frame{
				Phase:     "crashed",
				Obstacles: make([]engine.VehicleTransform, 3),
			},
			expected: []string{`"phase":"crashed"`, `"obstacles":3`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, buf := newCapturedNull()
			r.RenderFrame(tt.frame)
			for _, want := range tt.expected {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("expected log to contain %s, got: %s", want, buf.String())
				}
			}
		})
	}
}

func TestNullRenderer_Resize_LogsDimensions(t *testing.T) {
	r, buf := newCapturedNull()

	r.Resize(800, 600)

	output := buf.String()
	if !strings.Contains(output, `"width":800`) || !strings.Contains(output, `"height":600`) {
		t.Errorf("expected dimensions in log, got: %s", output)
	}
}

func TestNullRenderer_ImplementsRenderer(t *testing.T) {
	var _ Renderer = (*NullRenderer)(nil)
	var _ Renderer = (*TerminalRenderer)(nil)
	var _ Renderer = Multi(nil)
}

type countingRenderer struct {
	tracks, frames, resizes int
}

func (c *countingRenderer) RenderTrack(*track.Layout) { c.tracks++ }
func (c *countingRenderer) RenderFrame(engine.Frame) { c.frames++ }
func (c *countingRenderer) Resize(width, height float64) { c.resizes++ }

func TestMulti_FansOutToEveryRenderer(t *testing.T) {
	a, b := &countingRenderer{}, &countingRenderer{}
	m := Multi{a, b}

	m.RenderTrack(nil)
	m.RenderFrame(engine.Frame{})
	m.RenderFrame(engine.Frame{})
	m.Resize(1, 1)

	for i, c := range []*countingRenderer{a, b} {
		if c.tracks != 1 || c.frames != 2 || c.resizes != 1 {
			t.Errorf("renderer %d: got tracks=%d frames=%d resizes=%d", i, c.tracks, c.frames, c.resizes)
		}
	}
}
