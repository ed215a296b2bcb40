package input

import "testing"

func TestFlags_Apply(t *testing.T) {
	var f Flags

	f.Apply(Event{Control: Accelerate, Action: Press})
	f.Apply(Event{Control: TurnLeft, Action: Press})
	if !f.Accelerate || !f.TurnLeft {
		t.Fatalf("expected accelerate and turn left held, got %+v", f)
	}

	f.Apply(Event{Control: Accelerate, Action: Release})
	if f.Accelerate {
		t.Error("expected accelerate released")
	}
	if !f.TurnLeft {
		t.Error("releasing accelerate must not touch turn left")
	}

	before := f
	f.Apply(Event{Control: Reset, Action: Press})
	if f != before {
		t.Errorf("reset changed flags: %+v -> %+v", before, f)
	}
}

func TestEvent_StartsGame(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  bool
	}{
		{"accelerate_key", Event{Accelerate, Press, Keyboard}, true},
		{"accelerate_button", Event{Accelerate, Press, Button}, true},
		{"decelerate_button", Event{Decelerate, Press, Button}, true},
		{"decelerate_key", Event{Decelerate, Press, Keyboard}, false},
		{"accelerate_release", Event{Accelerate, Release, Keyboard}, false},
		{"turn_left", Event{TurnLeft, Press, Keyboard}, false},
		{"reset", Event{Reset, Press, Keyboard}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.StartsGame(); got != tt.want {
				t.Errorf("StartsGame() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeyControl(t *testing.T) {
	tests := []struct {
		key  string
		want Control
		ok   bool
	}{
		{"ArrowUp", Accelerate, true},
		{"ArrowDown", Decelerate, true},
		{"ArrowLeft", TurnLeft, true},
		{"ArrowRight", TurnRight, true},
		{"r", Reset, true},
		{"R", Reset, true},
		{"Space", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := KeyControl(tt.key)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("KeyControl(%q) = %v, %v; want %v, %v", tt.key, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseControl_RoundTrip(t *testing.T) {
	for c := Accelerate; c <= Reset; c++ {
		got, err := ParseControl(c.String())
		if err != nil {
			t.Fatalf("ParseControl(%q): %v", c.String(), err)
		}
		if got != c {
			t.Errorf("ParseControl(%q) = %v, want %v", c.String(), got, c)
		}
	}

	if _, err := ParseControl("boost"); err == nil {
		t.Error("expected error for unknown control")
	}
}

func TestParseActionAndSource(t *testing.T) {
	tests := []struct {
		action string
		want   Action
	}{
		{"press", Press},
		{"down", Press},
		{"release", Release},
		{"up", Release},
	}
	for _, tt := range tests {
		if got, err := ParseAction(tt.action); err != nil || got != tt.want {
			t.Errorf("ParseAction(%q) = %v, %v", tt.action, got, err)
		}
	}
	if _, err := ParseAction("hold"); err == nil {
		t.Error("expected error for unknown action")
	}

	for _, s := range []Source{Keyboard, Button} {
		if got, err := ParseSource(s.String()); err != nil || got != s {
			t.Errorf("ParseSource(%q) = %v, %v", s.String(), got, err)
		}
	}
	if got, _ := ParseSource(""); got != Keyboard {
		t.Errorf("empty source = %v, want keyboard", got)
	}
	if _, err := ParseSource("gamepad"); err == nil {
		t.Error("expected error for unknown source")
	}
}
