// pkg/render/engo/texture.go
package engo

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/opd-ai/go-circuit-racer/pkg/physics"
	"github.com/opd-ai/go-circuit-racer/pkg/track"
)

const (
	curbWidth    = 10
	markingWidth = 4
)

// TrackImage is a layout painted top down onto a bitmap. Pixel (0, 0) is
// the top left corner of the layout extent.
type TrackImage struct {
	Image  *image.NRGBA
	Scale  float64
	Origin physics.Vector2D
}

// RasterizeTrack paints lawn everywhere, the road inside each field hole,
// the island back over it, then curbs and markings. The image is shrunk so
// that neither side exceeds maxPixels.
func RasterizeTrack(layout *track.Layout, maxPixels int) *TrackImage {
	minX := math.Min(layout.Extent.Min.X, layout.Extent.Max.X)
	maxX := math.Max(layout.Extent.Min.X, layout.Extent.Max.X)
	minY := math.Min(layout.Extent.Min.Y, layout.Extent.Max.Y)
	maxY := math.Max(layout.Extent.Min.Y, layout.Extent.Max.Y)

	scale := 1.0
	if longest := math.Max(maxX-minX, maxY-minY); maxPixels > 0 && longest > float64(maxPixels) {
		scale = float64(maxPixels) / longest
	}

	w := int(math.Ceil((maxX - minX) * scale))
	h := int(math.Ceil((maxY - minY) * scale))
	ti := &TrackImage{
		Image:  image.NewNRGBA(image.Rect(0, 0, max(w, 1), max(h, 1))),
		Scale:  scale,
		Origin: physics.Vector2D{X: minX, Y: maxY},
	}

	draw.Draw(ti.Image, ti.Image.Bounds(), image.NewUniform(LawnColor), image.Point{}, draw.Src)
	for _, hole := range layout.Field.Holes {
		ti.fill(hole, TrackColor)
	}
	ti.fill(layout.Island.Outline, LawnColor)
	for _, curb := range layout.Curbs {
		ti.stroke(curb, curbWidth, CurbColor)
	}
	for _, marking := range layout.Markings {
		ti.stroke(marking, markingWidth, MarkingColor)
	}
	return ti
}

// ToPixel maps a world point into image coordinates.
func (ti *TrackImage) ToPixel(p physics.Vector2D) (float32, float32) {
	return float32((p.X - ti.Origin.X) * ti.Scale), float32((ti.Origin.Y - p.Y) * ti.Scale)
}

// At returns the colour painted at a world point.
func (ti *TrackImage) At(p physics.Vector2D) color.Color {
	x, y := ti.ToPixel(p)
	return ti.Image.At(int(x), int(y))
}

func (ti *TrackImage) rasterizer() *vector.Rasterizer {
	b := ti.Image.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	return z
}

func (ti *TrackImage) paint(z *vector.Rasterizer, c color.Color) {
	z.Draw(ti.Image, ti.Image.Bounds(), image.NewUniform(c), image.Point{})
}

func (ti *TrackImage) fill(path track.Path, c color.Color) {
	if len(path) < 3 {
		return
	}
	z := ti.rasterizer()
	z.MoveTo(ti.ToPixel(path[0]))
	for _, p := range path[1:] {
		z.LineTo(ti.ToPixel(p))
	}
	z.ClosePath()
	ti.paint(z, c)
}

// stroke draws each segment of path as a quad of the given world width.
func (ti *TrackImage) stroke(path track.Path, width float64, c color.Color) {
	z := ti.rasterizer()
	half := width / 2
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		d := b.Sub(a)
		if d.Length() == 0 {
			continue
		}
		n := physics.Vector2D{X: -d.Y, Y: d.X}.Normalize().Scale(half)
		z.MoveTo(ti.ToPixel(a.Add(n)))
		z.LineTo(ti.ToPixel(b.Add(n)))
		z.LineTo(ti.ToPixel(b.Sub(n)))
		z.LineTo(ti.ToPixel(a.Sub(n)))
		z.ClosePath()
	}
	ti.paint(z, c)
}
