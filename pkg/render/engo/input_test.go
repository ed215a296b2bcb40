package engo

import (
	"testing"

	"github.com/opd-ai/go-circuit-racer/pkg/engine"
	"github.com/opd-ai/go-circuit-racer/pkg/input"
)

type fakeKeys struct {
	pressed, released map[string]bool
}

func (f fakeKeys) JustPressed(name string) bool  { return f.pressed[name] }
func (f fakeKeys) JustReleased(name string) bool { return f.released[name] }

type fakePointer struct {
	x, y              float32
	pressed, released bool
}

func (f *fakePointer) Pointer() (float32, float32, bool, bool) {
	return f.x, f.y, f.pressed, f.released
}

func newTestInput(hud *HUDSystem) (*InputSystem, *[]input.Event) {
	var events []input.Event
	is := NewInputSystem(func(e input.Event) { events = append(events, e) }, hud)
	is.keys = fakeKeys{}
	is.pointer = &fakePointer{}
	return is, &events
}

func TestInputSystem_Keys(t *testing.T) {
	tests := []struct {
		name     string
		keys     fakeKeys
		expected []input.Event
	}{
		{
			name: "up pressed",
			keys: fakeKeys{pressed: map[string]bool{buttonUp: true}},
			expected: []input.Event{
				{Control: input.Accelerate, Action: input.Press, Source: input.Keyboard},
			},
		},
		{
			name: "turn released and reset pressed",
			keys: fakeKeys{
				pressed:  map[string]bool{buttonReset: true},
				released: map[string]bool{buttonLeft: true},
			},
			expected: []input.Event{
				{Control: input.TurnLeft, Action: input.Release, Source: input.Keyboard},
				{Control: input.Reset, Action: input.Press, Source: input.Keyboard},
			},
		},
		{
			name: "nothing happening",
			keys: fakeKeys{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is, events := newTestInput(nil)
			is.keys = tt.keys
			is.Update(0.016)

			if len(*events) != len(tt.expected) {
				t.Fatalf("expected %d events, got %v", len(tt.expected), *events)
			}
			for i, e := range tt.expected {
				if (*events)[i] != e {
					t.Errorf("event %d: expected %+v, got %+v", i, e, (*events)[i])
				}
			}
		})
	}
}

func TestInputSystem_OnScreenButtons(t *testing.T) {
	hud := NewHUDSystem(800, 600)
	hud.UpdateUI(engine.UIState{ButtonsVisible: true})
	is, events := newTestInput(hud)
	pointer := &fakePointer{}
	is.pointer = pointer

	accel := findElement(t, hud, "accelerate")
	pointer.x, pointer.y, pointer.pressed = accel.x+1, accel.y+1, true
	is.Update(0.016)

	// Moving off the button before letting go still releases it.
	pointer.x, pointer.y, pointer.pressed, pointer.released = 0, 0, false, true
	is.Update(0.016)

	expected := []input.Event{
		{Control: input.Accelerate, Action: input.Press, Source: input.Button},
		{Control: input.Accelerate, Action: input.Release, Source: input.Button},
	}
	if len(*events) != 2 || (*events)[0] != expected[0] || (*events)[1] != expected[1] {
		t.Errorf("expected %+v, got %+v", expected, *events)
	}
}

func TestInputSystem_HiddenButtonsIgnored(t *testing.T) {
	hud := NewHUDSystem(800, 600)
	is, events := newTestInput(hud)
	accel := findElement(t, hud, "accelerate")
	is.pointer = &fakePointer{x: accel.x + 1, y: accel.y + 1, pressed: true}

	is.Update(0.016)

	if len(*events) != 0 {
		t.Errorf("hidden buttons should not fire, got %v", *events)
	}
}

func TestInputSystem_NilHandler(t *testing.T) {
	is := NewInputSystem(nil, nil)
	is.keys = fakeKeys{pressed: map[string]bool{buttonUp: true}}
	is.pointer = &fakePointer{}

	is.Update(0.016)
}

func findElement(t *testing.T, hud *HUDSystem, name string) hudElement {
	t.Helper()
	for _, el := range hud.elements {
		if el.name == name {
			return el
		}
	}
	t.Fatalf("no HUD element %q", name)
	return hudElement{}
}
