// pkg/render/engo/camera.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-circuit-racer/pkg/event"
	"github.com/opd-ai/go-circuit-racer/pkg/physics"
	"github.com/opd-ai/go-circuit-racer/pkg/render"
)

// CameraSystem keeps an orthographic view of fixed world width centred on
// the player's car.
type CameraSystem struct {
	projection render.Projection
	viewport   physics.Vector2D

	// Target to follow
	target    physics.Vector2D
	targetSet bool

	// Mouse wheel zoom
	zoom    float32
	minZoom float32
	maxZoom float32

	// Smooth following
	followSpeed float32
	smoothing   bool

	currentPos physics.Vector2D

	bus *event.Bus
}

// NewCameraSystem creates a camera showing cameraWidth world units across
// a viewport of the given pixel size.
func NewCameraSystem(cameraWidth float64, viewportWidth, viewportHeight float64, bus *event.Bus) *CameraSystem {
	return &CameraSystem{
		projection:  render.NewProjection(cameraWidth, viewportWidth, viewportHeight),
		viewport:    physics.Vector2D{X: viewportWidth, Y: viewportHeight},
		zoom:        1.0,
		minZoom:     0.25,
		maxZoom:     4.0,
		followSpeed: 8.0,
		bus:         bus,
	}
}

// Add satisfies the ecs.System interface
func (cs *CameraSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
}

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(basic ecs.BasicEntity) {}

// Update moves the camera and pushes the transform to engo.
func (cs *CameraSystem) Update(dt float32) {
	if scrollY := engo.Input.Mouse.ScrollY; scrollY != 0 {
		cs.SetZoom(cs.zoom * (1 + scrollY*0.1))
	}
	if cs.targetSet {
		cs.updateCameraPosition(dt)
	}
	cs.applyCameraTransform()
}

// ListenForResize subscribes the camera to window resize messages.
func (cs *CameraSystem) ListenForResize() {
	engo.Mailbox.Listen(engo.WindowResizeMessage{}.Type(), func(m engo.Message) {
		msg, ok := m.(engo.WindowResizeMessage)
		if !ok {
			return
		}
		cs.Resize(float64(msg.NewWidth), float64(msg.NewHeight))
	})
}

// Resize keeps the world width and recomputes the height from the new
// aspect ratio.
func (cs *CameraSystem) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	cs.viewport = physics.Vector2D{X: width, Y: height}
	cs.projection.Resize(width, height)
	if cs.bus != nil {
		cs.bus.Publish(event.NewResizeEvent(cs, width, height))
	}
}

// Projection returns the current camera projection.
func (cs *CameraSystem) Projection() render.Projection {
	return cs.projection
}

func (cs *CameraSystem) updateCameraPosition(dt float32) {
	if !cs.smoothing {
		cs.currentPos = cs.target
		return
	}
	t := float64(cs.followSpeed * dt)
	if t > 1 {
		t = 1
	}
	cs.currentPos = cs.currentPos.Add(cs.target.Sub(cs.currentPos).Scale(t))
}

// applyCameraTransform moves engo's camera. engo's y axis points down.
func (cs *CameraSystem) applyCameraTransform() {
	engo.Mailbox.Dispatch(common.CameraMessage{Axis: common.XAxis, Value: float32(cs.currentPos.X)})
	engo.Mailbox.Dispatch(common.CameraMessage{Axis: common.YAxis, Value: float32(-cs.currentPos.Y)})
	engo.Mailbox.Dispatch(common.CameraMessage{Axis: common.ZAxis, Value: 1 / cs.pixelsPerUnit()})
}

// pixelsPerUnit is the on-screen size of one world unit.
func (cs *CameraSystem) pixelsPerUnit() float32 {
	if cs.projection.Width == 0 || cs.viewport.X == 0 {
		return 1
	}
	return float32(cs.viewport.X/cs.projection.Width) * cs.zoom
}

// SetTarget sets the position the camera follows. The first target snaps.
func (cs *CameraSystem) SetTarget(target physics.Vector2D) {
	cs.target = target
	if !cs.targetSet || !cs.smoothing {
		cs.currentPos = target
	}
	cs.targetSet = true
}

// ClearTarget stops following.
func (cs *CameraSystem) ClearTarget() {
	cs.targetSet = false
}

// SetZoom sets the zoom level, clamped to the limits.
func (cs *CameraSystem) SetZoom(zoom float32) {
	cs.zoom = cs.clampZoom(zoom)
}

// GetZoom returns the current zoom level
func (cs *CameraSystem) GetZoom() float32 {
	return cs.zoom
}

func (cs *CameraSystem) clampZoom(zoom float32) float32 {
	if zoom < cs.minZoom {
		return cs.minZoom
	}
	if zoom > cs.maxZoom {
		return cs.maxZoom
	}
	return zoom
}

// EnableSmoothing enables or disables eased following.
func (cs *CameraSystem) EnableSmoothing(enabled bool) {
	cs.smoothing = enabled
}

// GetCurrentPosition returns the current camera position
func (cs *CameraSystem) GetCurrentPosition() physics.Vector2D {
	return cs.currentPos
}

// WorldToScreen converts world coordinates to viewport pixels.
func (cs *CameraSystem) WorldToScreen(world physics.Vector2D) physics.Vector2D {
	scale := float64(cs.pixelsPerUnit())
	rel := world.Sub(cs.currentPos)
	return physics.Vector2D{
		X: rel.X*scale + cs.viewport.X/2,
		Y: -rel.Y*scale + cs.viewport.Y/2,
	}
}

// ScreenToWorld converts viewport pixels to world coordinates.
func (cs *CameraSystem) ScreenToWorld(screen physics.Vector2D) physics.Vector2D {
	scale := float64(cs.pixelsPerUnit())
	return physics.Vector2D{
		X: (screen.X-cs.viewport.X/2)/scale + cs.currentPos.X,
		Y: -(screen.Y-cs.viewport.Y/2)/scale + cs.currentPos.Y,
	}
}
