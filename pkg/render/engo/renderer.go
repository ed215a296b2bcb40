// pkg/render/engo/renderer.go
package engo

import (
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-circuit-racer/pkg/engine"
	"github.com/opd-ai/go-circuit-racer/pkg/physics"
	"github.com/opd-ai/go-circuit-racer/pkg/render"
	"github.com/opd-ai/go-circuit-racer/pkg/track"
)

// Draw order, back to front.
const (
	zTrack   = 0
	zVehicle = 10
	zTree    = 20
)

// maxTrackTexture bounds the side of the rasterized track.
const maxTrackTexture = 2048

type spriteEntity struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// EngoRenderer implements render.Renderer on top of engo's render system.
type EngoRenderer struct {
	renderSystem *common.RenderSystem
	assets       *AssetManager
	camera       *CameraSystem
	hud          *HUDSystem

	track    *spriteEntity
	trees    []*spriteEntity
	player   *spriteEntity
	vehicles map[uint64]*spriteEntity
}

var _ render.Renderer = (*EngoRenderer)(nil)

// NewEngoRenderer creates a renderer. A nil render system keeps entity
// bookkeeping without drawing, which is how tests run without a GL context.
func NewEngoRenderer(rs *common.RenderSystem, assets *AssetManager, camera *CameraSystem, hud *HUDSystem) *EngoRenderer {
	if assets == nil {
		assets = NewAssetManager()
	}
	return &EngoRenderer{
		renderSystem: rs,
		assets:       assets,
		camera:       camera,
		hud:          hud,
		vehicles:     make(map[uint64]*spriteEntity),
	}
}

// RenderTrack implements render.Renderer.
func (r *EngoRenderer) RenderTrack(layout *track.Layout) {
	if layout == nil {
		return
	}
	r.removeTrack()

	ti := RasterizeTrack(layout, maxTrackTexture)
	bounds := ti.Image.Bounds()
	r.track = r.newSprite(nil, zTrack)
	if r.renderSystem != nil {
		r.track.Drawable = convertToEngoTexture(ti.Image)
	}
	r.track.Scale = engo.Point{X: float32(1 / ti.Scale), Y: float32(1 / ti.Scale)}
	r.track.Position = toEngo(ti.Origin)
	r.track.Width = float32(float64(bounds.Dx()) / ti.Scale)
	r.track.Height = float32(float64(bounds.Dy()) / ti.Scale)
	r.add(r.track)

	far := engo.Point{X: r.track.Position.X + r.track.Width, Y: r.track.Position.Y + r.track.Height}
	common.CameraBounds = engo.AABB{Min: r.track.Position, Max: far}

	for _, pos := range layout.Trees {
		tree := r.newSprite(r.assets.Sprite("tree"), zTree)
		placeSprite(&tree.SpaceComponent, pos, 0, treeSize, treeSize)
		r.add(tree)
		r.trees = append(r.trees, tree)
	}
}

// RenderFrame implements render.Renderer.
func (r *EngoRenderer) RenderFrame(frame engine.Frame) {
	if r.camera != nil {
		r.camera.SetTarget(frame.Camera)
	}
	if r.hud != nil {
		r.hud.UpdateUI(frame.UI)
	}

	if r.player == nil {
		r.player = r.newSprite(r.assets.Sprite("player"), zVehicle)
		r.add(r.player)
	}
	length, width := VehicleSize(frame.Player.Kind)
	placeSprite(&r.player.SpaceComponent, frame.Player.Position, frame.Player.Rotation, length, width)

	seen := make(map[uint64]bool, len(frame.Obstacles))
	for _, o := range frame.Obstacles {
		seen[o.ID] = true
		sprite, ok := r.vehicles[o.ID]
		if !ok {
			sprite = r.newSprite(r.assets.Sprite(VehicleSprite(o.Kind, o.ID)), zVehicle)
			r.vehicles[o.ID] = sprite
			r.add(sprite)
		}
		length, width := VehicleSize(o.Kind)
		placeSprite(&sprite.SpaceComponent, o.Position, o.Rotation, length, width)
	}
	for id, sprite := range r.vehicles {
		if !seen[id] {
			r.remove(sprite)
			delete(r.vehicles, id)
		}
	}
}

// Resize implements render.Renderer.
func (r *EngoRenderer) Resize(width, height float64) {
	if r.camera != nil {
		r.camera.Resize(width, height)
	}
	if r.hud != nil {
		r.hud.Resize(float32(width), float32(height))
	}
}

// VehicleCount returns the number of obstacle sprites on screen.
func (r *EngoRenderer) VehicleCount() int {
	return len(r.vehicles)
}

func (r *EngoRenderer) newSprite(d common.Drawable, z float32) *spriteEntity {
	s := &spriteEntity{BasicEntity: ecs.NewBasic()}
	s.Drawable = d
	s.Scale = engo.Point{X: 1, Y: 1}
	s.SetZIndex(z)
	return s
}

func (r *EngoRenderer) add(s *spriteEntity) {
	if r.renderSystem != nil {
		r.renderSystem.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	}
}

func (r *EngoRenderer) remove(s *spriteEntity) {
	if r.renderSystem != nil {
		r.renderSystem.Remove(s.BasicEntity)
	}
}

func (r *EngoRenderer) removeTrack() {
	if r.track != nil {
		r.remove(r.track)
		r.track = nil
	}
	for _, tree := range r.trees {
		r.remove(tree)
	}
	r.trees = nil
}

// toEngo flips a world point into engo's y-down space.
func toEngo(p physics.Vector2D) engo.Point {
	return engo.Point{X: float32(p.X), Y: float32(-p.Y)}
}

// placeSprite centres a sprite on a world position. World rotation is
// counter-clockwise radians; engo's is clockwise degrees.
func placeSprite(space *common.SpaceComponent, pos physics.Vector2D, rotation float64, length, width float32) {
	space.Width, space.Height = length, width
	space.Rotation = float32(-rotation * 180 / math.Pi)
	space.SetCenter(toEngo(pos))
}
