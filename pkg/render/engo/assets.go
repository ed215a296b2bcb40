// pkg/render/engo/assets.go
package engo

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/EngoEngine/engo/common"
)

// Palette used across the scene.
var (
	VehicleColors = []color.RGBA{
		hexColor(0xa52523),
		hexColor(0xef2d56),
		hexColor(0x0ad3ff),
		hexColor(0xff9f1c),
	}

	LawnColor      = hexColor(0x67c240)
	TrackColor     = hexColor(0x546e90)
	MarkingColor   = hexColor(0xffffff)
	CurbColor      = hexColor(0xff0000)
	CabinColor     = hexColor(0xb4c6fc)
	WheelColor     = hexColor(0x333333)
	TreeCrownColor = hexColor(0x498c2c)
	TreeTrunkColor = hexColor(0x4b3f2f)
	HitZoneColor   = color.RGBA{R: 0xff, A: 0x80}
)

func hexColor(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// Sprite pixel codes.
const (
	pxEmpty = iota
	pxBody
	pxCabin
	pxWheel
	pxTrunk
	pxCargo
)

// Sprite sizes in world units. Vehicles face +x.
const (
	carLength   = 60
	carWidth    = 30
	truckLength = 100
	truckWidth  = 35
	treeSize    = 60
)

// AssetManager builds the scene's sprites from code. Images are built
// eagerly; textures need a GL context and are created by LoadAssets.
type AssetManager struct {
	images  map[string]*image.NRGBA
	sprites map[string]common.Drawable
}

// NewAssetManager creates a new asset manager
func NewAssetManager() *AssetManager {
	return &AssetManager{
		images:  make(map[string]*image.NRGBA),
		sprites: make(map[string]common.Drawable),
	}
}

// BuildImages paints every sprite bitmap.
func (am *AssetManager) BuildImages() {
	am.images["player"] = paintPattern(carPattern(carLength, carWidth), VehicleColors[0])
	for i, c := range VehicleColors {
		am.images[carSpriteName(uint64(i))] = paintPattern(carPattern(carLength, carWidth), c)
		am.images[truckSpriteName(uint64(i))] = paintPattern(truckPattern(truckLength, truckWidth), c)
	}
	am.images["tree"] = paintPattern(treePattern(treeSize), TreeCrownColor)
}

// LoadAssets builds the images and uploads them as textures.
func (am *AssetManager) LoadAssets() error {
	am.BuildImages()
	for name, img := range am.images {
		if img.Bounds().Empty() {
			return fmt.Errorf("sprite %q is empty", name)
		}
		am.sprites[name] = convertToEngoTexture(img)
	}
	return nil
}

// Image returns the bitmap for a sprite, or nil.
func (am *AssetManager) Image(name string) *image.NRGBA {
	return am.images[name]
}

// Sprite returns the texture for a sprite, falling back to the first car.
func (am *AssetManager) Sprite(name string) common.Drawable {
	if sprite, ok := am.sprites[name]; ok {
		return sprite
	}
	return am.sprites[carSpriteName(0)]
}

// VehicleSprite picks the sprite name for an obstacle. The colour cycles
// with the vehicle ID.
func VehicleSprite(kind string, id uint64) string {
	switch kind {
	case "player":
		return "player"
	case "truck":
		return truckSpriteName(id)
	}
	return carSpriteName(id)
}

// VehicleSize returns the world footprint of a vehicle kind.
func VehicleSize(kind string) (length, width float32) {
	if kind == "truck" {
		return truckLength, truckWidth
	}
	return carLength, carWidth
}

func carSpriteName(id uint64) string {
	return fmt.Sprintf("car-%d", id%uint64(len(VehicleColors)))
}

func truckSpriteName(id uint64) string {
	return fmt.Sprintf("truck-%d", id%uint64(len(VehicleColors)))
}

// carPattern is a top-down car: four wheels, body, and a cabin set back
// from the nose.
func carPattern(length, width int) [][]int {
	p := newPattern(length, width)
	wheel := width / 6
	for y := 0; y < width; y++ {
		for x := 0; x < length; x++ {
			switch {
			case y < wheel || y >= width-wheel:
				if (x >= length/8 && x < length/8+length/5) || (x >= length*5/8 && x < length*5/8+length/5) {
					p[y][x] = pxWheel
				}
			case x >= length/6 && x < length*3/5 && y >= width/4 && y < width*3/4:
				p[y][x] = pxCabin
			default:
				p[y][x] = pxBody
			}
		}
	}
	return p
}

// truckPattern is a cargo box with a cab at the front.
func truckPattern(length, width int) [][]int {
	p := newPattern(length, width)
	cab := length / 4
	for y := 0; y < width; y++ {
		for x := 0; x < length; x++ {
			switch {
			case x >= length-cab:
				if y >= width/8 && y < width-width/8 {
					p[y][x] = pxBody
					if x >= length-cab/2 {
						p[y][x] = pxCabin
					}
				}
			case x < length-cab-2:
				p[y][x] = pxCargo
			}
		}
	}
	return p
}

// treePattern is a round crown with the trunk showing in the middle.
func treePattern(size int) [][]int {
	p := newPattern(size, size)
	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)+0.5-r, float64(y)+0.5-r
			d := dx*dx + dy*dy
			switch {
			case d <= (r/6)*(r/6):
				p[y][x] = pxTrunk
			case d <= r*r:
				p[y][x] = pxBody
			}
		}
	}
	return p
}

func newPattern(w, h int) [][]int {
	p := make([][]int, h)
	for i := range p {
		p[i] = make([]int, w)
	}
	return p
}

// paintPattern draws a pixel pattern onto a transparent image, using body
// for the main colour.
func paintPattern(pattern [][]int, body color.RGBA) *image.NRGBA {
	height := len(pattern)
	width := 0
	if height > 0 {
		width = len(pattern[0])
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)

	colors := map[int]color.Color{
		pxBody:  body,
		pxCabin: CabinColor,
		pxWheel: WheelColor,
		pxTrunk: TreeTrunkColor,
		pxCargo: MarkingColor,
	}
	for y, row := range pattern {
		for x, px := range row {
			if c, ok := colors[px]; ok {
				img.Set(x, y, c)
			}
		}
	}
	return img
}

// convertToEngoTexture uploads an image as a texture.
func convertToEngoTexture(img *image.NRGBA) common.Drawable {
	texture := common.NewImageObject(img)
	return common.NewTextureSingle(texture)
}
