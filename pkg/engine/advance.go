// pkg/engine/advance.go
package engine

// Step is what happened during one frame besides the state change itself.
type Step struct {
	Spawned []Obstacle
	Crash   *Crash
}

// Advance runs one frame of dt milliseconds on a running state: the player
// moves, then the obstacles, then traffic is spawned and, when enabled, the
// player is checked for a crash. A crash moves the state to PhaseCrashed.
// Frames with dt <= 0 and states that are not running are left untouched.
func Advance(s *SimulationState, r *Rules, dt float64) Step {
	var step Step
	if s.Phase != PhaseRunning || dt <= 0 {
		return step
	}

	r.Motion.Integrate(&s.Player, s.Flags, dt)
	moveObstacles(s, r, dt)

	s.RunningMs += dt
	step.Spawned = spawnDue(s, r)

	if r.Collision.Enabled {
		if crash := detectCrash(s, r); crash != nil {
			s.Phase = PhaseCrashed
			s.UI.ResultsVisible = true
			step.Crash = crash
		}
	}
	return step
}
