// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-circuit-racer/pkg/input"
)

// Button names registered with engo.
const (
	buttonUp    = "up"
	buttonDown  = "down"
	buttonLeft  = "left"
	buttonRight = "right"
	buttonReset = "reset"
)

var buttonControls = []struct {
	name    string
	control input.Control
}{
	{buttonUp, input.Accelerate},
	{buttonDown, input.Decelerate},
	{buttonLeft, input.TurnLeft},
	{buttonRight, input.TurnRight},
	{buttonReset, input.Reset},
}

// buttonReader is the part of engo's input manager the system reads.
type buttonReader interface {
	JustPressed(name string) bool
	JustReleased(name string) bool
}

// pointerReader reports the mouse in viewport pixels.
type pointerReader interface {
	Pointer() (x, y float32, pressed, released bool)
}

type engoInput struct{}

func (engoInput) JustPressed(name string) bool  { return engo.Input.Button(name).JustPressed() }
func (engoInput) JustReleased(name string) bool { return engo.Input.Button(name).JustReleased() }

func (engoInput) Pointer() (float32, float32, bool, bool) {
	m := engo.Input.Mouse
	return m.X, m.Y, m.Action == engo.Press, m.Action == engo.Release
}

// InputSystem turns key and on-screen button changes into input events.
type InputSystem struct {
	handler func(input.Event)
	hud     *HUDSystem

	keys    buttonReader
	pointer pointerReader

	// control held through an on-screen button, if any
	held    input.Control
	holding bool
}

// NewInputSystem creates an input system that sends events to handler.
// On-screen buttons are hit tested against hud, which may be nil.
func NewInputSystem(handler func(input.Event), hud *HUDSystem) *InputSystem {
	return &InputSystem{
		handler: handler,
		hud:     hud,
		keys:    engoInput{},
		pointer: engoInput{},
	}
}

// Add satisfies the ecs.System interface
func (is *InputSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update polls engo's input state once per frame.
func (is *InputSystem) Update(dt float32) {
	is.pollKeys()
	is.pollPointer()
}

func (is *InputSystem) pollKeys() {
	for _, b := range buttonControls {
		if is.keys.JustPressed(b.name) {
			is.emit(input.Event{Control: b.control, Action: input.Press, Source: input.Keyboard})
		}
		if is.keys.JustReleased(b.name) {
			is.emit(input.Event{Control: b.control, Action: input.Release, Source: input.Keyboard})
		}
	}
}

// pollPointer presses the on-screen button under the mouse and releases it
// on mouse up, wherever the pointer has moved.
func (is *InputSystem) pollPointer() {
	if is.hud == nil {
		return
	}
	x, y, pressed, released := is.pointer.Pointer()
	switch {
	case pressed && !is.holding:
		control, ok := is.hud.ButtonAt(x, y)
		if !ok {
			return
		}
		is.held, is.holding = control, true
		is.emit(input.Event{Control: control, Action: input.Press, Source: input.Button})
	case released && is.holding:
		is.holding = false
		is.emit(input.Event{Control: is.held, Action: input.Release, Source: input.Button})
	}
}

func (is *InputSystem) emit(e input.Event) {
	if is.handler != nil {
		is.handler(e)
	}
}

// SetupInputBindings registers the arrow keys and R.
func SetupInputBindings() {
	engo.Input.RegisterButton(buttonUp, engo.KeyArrowUp)
	engo.Input.RegisterButton(buttonDown, engo.KeyArrowDown)
	engo.Input.RegisterButton(buttonLeft, engo.KeyArrowLeft)
	engo.Input.RegisterButton(buttonRight, engo.KeyArrowRight)
	engo.Input.RegisterButton(buttonReset, engo.KeyR)
}
