// Package input maps keyboard keys and on-screen buttons onto the four
// driving flags and the reset signal.
package input

import (
	"fmt"
	"strings"
)

// Control identifies one driver control.
type Control int

const (
	Accelerate Control = iota
	Decelerate
	TurnLeft
	TurnRight
	Reset
)

var controlNames = map[Control]string{
	Accelerate: "accelerate",
	Decelerate: "decelerate",
	TurnLeft:   "turn_left",
	TurnRight:  "turn_right",
	Reset:      "reset",
}

// String returns the wire name of the control.
func (c Control) String() string {
	if name, ok := controlNames[c]; ok {
		return name
	}
	return fmt.Sprintf("control(%d)", int(c))
}

// ParseControl resolves a wire name such as "turn_left" to a Control.
func ParseControl(name string) (Control, error) {
	for c, n := range controlNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown control %q", name)
}

// Action is a press or a release.
type Action int

const (
	Press Action = iota
	Release
)

// ParseAction resolves "press" or "release".
func ParseAction(name string) (Action, error) {
	switch name {
	case "press", "down":
		return Press, nil
	case "release", "up":
		return Release, nil
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// Source tells keyboard events from on-screen button events. The two differ
// in which controls start a new run.
type Source int

const (
	Keyboard Source = iota
	Button
)

var sourceNames = map[Source]string{
	Keyboard: "keyboard",
	Button:   "button",
}

func (s Source) String() string {
	if name, ok := sourceNames[s]; ok {
		return name
	}
	return fmt.Sprintf("source(%d)", int(s))
}

// ParseSource resolves "keyboard" or "button". An empty name means keyboard.
func ParseSource(name string) (Source, error) {
	switch name {
	case "", "keyboard":
		return Keyboard, nil
	case "button":
		return Button, nil
	}
	return 0, fmt.Errorf("unknown source %q", name)
}

// Event is a single press or release of a control.
type Event struct {
	Control Control
	Action  Action
	Source  Source
}

// StartsGame reports whether the event should start a run from the ready
// phase. The accelerate key and both on-screen buttons start a run; the
// decelerate key does not.
func (e Event) StartsGame() bool {
	if e.Action != Press {
		return false
	}
	switch e.Control {
	case Accelerate:
		return true
	case Decelerate:
		return e.Source == Button
	}
	return false
}

// Flags holds the held state of the four driving controls.
type Flags struct {
	Accelerate bool
	Decelerate bool
	TurnLeft   bool
	TurnRight  bool
}

// Apply folds a press or release into the flags. Reset events leave the
// flags untouched.
func (f *Flags) Apply(e Event) {
	held := e.Action == Press
	switch e.Control {
	case Accelerate:
		f.Accelerate = held
	case Decelerate:
		f.Decelerate = held
	case TurnLeft:
		f.TurnLeft = held
	case TurnRight:
		f.TurnRight = held
	}
}

// KeyControl maps a DOM-style key name to a control.
func KeyControl(key string) (Control, bool) {
	switch key {
	case "ArrowUp":
		return Accelerate, true
	case "ArrowDown":
		return Decelerate, true
	case "ArrowLeft":
		return TurnLeft, true
	case "ArrowRight":
		return TurnRight, true
	}
	if strings.EqualFold(key, "r") {
		return Reset, true
	}
	return 0, false
}
