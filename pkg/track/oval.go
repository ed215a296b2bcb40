package track

import (
	"math"

	"github.com/opd-ai/go-circuit-racer/pkg/physics"
)

const (
	ovalDivisions = 12
	ovalStroke    = 8

	ovalCornerX = 250
	ovalCornerY = 100
	ovalRadius  = 235
	ovalWidth   = 45

	ovalMapWidth  = 1200
	ovalMapHeight = 900
)

// quarterArc runs counter-clockwise from (1, 0) to (0, 1).
var quarterArc = []physics.Vector2D{
	{X: 1, Y: 0},
	{X: math.Cos(degrees(30)), Y: math.Sin(degrees(30))},
	{X: math.Cos(degrees(60)), Y: math.Sin(degrees(60))},
	{X: 0, Y: 1},
}

// quarterArcReversed runs from (0, 1) to (1, 0).
var quarterArcReversed = []physics.Vector2D{
	quarterArc[3], quarterArc[2], quarterArc[1], quarterArc[0],
}

// ovalCorners returns the four corners of a rounded rectangle of corner
// radius r, in counter-clockwise driving order starting bottom right. Each
// corner stretches a quarter arc into its own box; boxes with Max below Min
// mirror the arc.
func ovalCorners(r float64) []Segment {
	cx, cy := float64(ovalCornerX), float64(ovalCornerY)
	return []Segment{
		{
			Name: "bottom-right",
			Path: quarterArcReversed,
			Box:  Box{Min: physics.Vector2D{X: cx, Y: -cy}, Max: physics.Vector2D{X: cx + r, Y: -cy - r}},
		},
		{
			Name: "top-right",
			Path: quarterArc,
			Box:  Box{Min: physics.Vector2D{X: cx, Y: cy}, Max: physics.Vector2D{X: cx + r, Y: cy + r}},
		},
		{
			Name: "top-left",
			Path: quarterArcReversed,
			Box:  Box{Min: physics.Vector2D{X: -cx, Y: cy}, Max: physics.Vector2D{X: -cx - r, Y: cy + r}},
		},
		{
			Name: "bottom-left",
			Path: quarterArc,
			Box:  Box{Min: physics.Vector2D{X: -cx, Y: -cy}, Max: physics.Vector2D{X: -cx - r, Y: -cy - r}},
		},
	}
}

// roundedRect joins the corner splines with straight moves.
func roundedRect(name string, r float64, divisions int) *Builder {
	b := NewBuilder(name)
	for _, corner := range ovalCorners(r) {
		world := corner.World()
		b.LineTo(world[0])
		b.Spline(corner, divisions)
	}
	return b
}

// Oval builds the simple rounded-rectangle circuit.
func Oval() *Layout {
	inner := float64(ovalRadius - ovalWidth)
	outer := float64(ovalRadius + ovalWidth)

	island := roundedRect("island", inner, ovalDivisions).Build()

	field := rectangle("field", ovalMapWidth, ovalMapHeight)
	field.Holes = append(field.Holes, roundedRect("field-hole", outer, ovalDivisions).Path())

	return &Layout{
		Name:     "oval",
		Island:   island,
		Field:    field,
		Markings: []Path{roundedRect("centre-line", ovalRadius, ovalStroke).Path()},
		Curbs: []Path{
			roundedRect("inner-curb", inner, ovalStroke).Path(),
			roundedRect("outer-curb", outer, ovalStroke).Path(),
		},
		Trees: []physics.Vector2D{
			{X: 0, Y: 0},
			{X: -150, Y: 40},
			{X: 150, Y: -40},
			{X: 700, Y: 500},
			{X: -700, Y: 500},
			{X: 700, Y: -500},
			{X: -700, Y: -500},
		},
		Extent: Box{
			Min: physics.Vector2D{X: -ovalMapWidth, Y: -ovalMapHeight},
			Max: physics.Vector2D{X: ovalMapWidth, Y: ovalMapHeight},
		},
		Start: Start{
			Position: physics.Vector2D{X: -80, Y: -ovalCornerY - ovalRadius},
			Heading:  math.Pi,
		},
		Ring: Ring{
			Center: physics.Vector2D{},
			Radius: ovalCornerY + ovalRadius,
		},
	}
}
