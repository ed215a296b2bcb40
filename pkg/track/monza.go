package track

import (
	"math"

	"github.com/opd-ai/go-circuit-racer/pkg/physics"
)

const (
	monzaDivisions  = 50
	monzaStroke     = 100
	monzaMapWidth   = 5400
	monzaMapHeight  = 5011
	monzaHoleOffset = 100

	monzaLaneRadius = 235
	monzaCurbRadius = 197
)

// monzaLine is the middle line of the circuit traced over a photo of the
// real track, normalized to the photo size.
var monzaLine = Segment{
	Name: "monza-middle",
	Path: ControlPath{
		{X: 0.32924107142857145, Y: 0.10068259385665534},
		{X: 0.3165178571428572, Y: 0.19385665529010243},
		{X: 0.12968749999999998, Y: 0.23071672354948802},
		{X: 0.11808035714285715, Y: 0.489419795221843},
		{X: 0.09196428571428569, Y: 0.5723549488054607},
		{X: 0.12276785714285714, Y: 0.8532423208191127},
		{X: 0.3410714285714286, Y: 0.509556313993174},
		{X: 0.5995535714285715, Y: 0.4218430034129692},
		{X: 0.6872767857142856, Y: 0.33924914675767925},
		{X: 0.9089285714285714, Y: 0.3146757679180887},
		{X: 0.8928571428571429, Y: 0.09726962457337884},
		{X: 0.32924107142857145, Y: 0.10068259385665534},
	},
	Box: Box{
		Min: physics.Vector2D{X: -500, Y: -500},
		Max: physics.Vector2D{X: 500, Y: 500},
	},
}

// Monza builds the multi-corner circuit.
func Monza() *Layout {
	middle := monzaLine.World()

	island := NewBuilder("island").
		SplineWorld(middle, monzaDivisions).
		Build()

	hole := NewBuilder("field-hole").
		SplineWorld(PushOut(middle, monzaHoleOffset), monzaDivisions).
		Path()

	field := rectangle("field", monzaMapWidth, monzaMapHeight)
	field.Holes = append(field.Holes, hole)

	r := float64(monzaCurbRadius)
	return &Layout{
		Name:     "monza",
		Island:   island,
		Field:    field,
		Markings: []Path{squareStroke(monzaLaneRadius, monzaStroke)},
		Curbs:    []Path{squareStroke(monzaCurbRadius, monzaStroke)},
		Trees: []physics.Vector2D{
			{X: r * 1.3, Y: 0},
			{X: r * 1.3, Y: r * 1.9},
			{X: r * 0.8, Y: r * 2},
			{X: r * 1.8, Y: r * 2},
			{X: -r, Y: r * 2},
			{X: -r * 2, Y: r * 1.8},
			{X: r * 0.8, Y: -r * 2},
			{X: r * 1.8, Y: -r * 2},
			{X: -r, Y: -r * 2},
			{X: -r * 2, Y: -r * 1.8},
			{X: r * 0.6, Y: -r * 2.3},
			{X: r * 1.5, Y: -r * 2.4},
			{X: -r * 0.7, Y: -r * 2.4},
			{X: -r * 1.5, Y: -r * 1.8},
		},
		Extent: Box{
			Min: physics.Vector2D{X: -monzaMapWidth, Y: -monzaMapHeight},
			Max: physics.Vector2D{X: monzaMapWidth, Y: monzaMapHeight},
		},
		Start: Start{
			Position: physics.Vector2D{X: -80, Y: -235},
			Heading:  math.Pi,
		},
		Ring: Ring{
			Center: physics.Vector2D{X: monzaCurbRadius, Y: 0},
			Radius: monzaLaneRadius,
		},
	}
}
