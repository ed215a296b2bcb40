// Package validation checks messages arriving from remote driving clients
// before they reach the game.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/opd-ai/go-circuit-racer/pkg/input"
)

// Message limits.
const (
	MaxMessageSize    = 1024
	MaxViewportPixels = 16384
	clientIdleTimeout = time.Minute
)

// ErrRateLimited is returned when a client sends faster than its budget.
var ErrRateLimited = errors.New("rate limit exceeded")

// InputMessage is the JSON body of a remote control change.
type InputMessage struct {
	Control string `json:"control"`
	Action  string `json:"action"`
	Source  string `json:"source,omitempty"`
}

// InputValidator applies size, format and rate checks to raw messages.
type InputValidator struct {
	rateLimiter *RateLimiter
}

// NewInputValidator allows each client rate messages per second with bursts
// of up to burst.
func NewInputValidator(rate float64, burst int) *InputValidator {
	return &InputValidator{
		rateLimiter: NewRateLimiter(rate, burst, clientIdleTimeout),
	}
}

// Close releases resources used by the validator
func (v *InputValidator) Close() {
	if v.rateLimiter != nil {
		v.rateLimiter.Close()
	}
}

// Forget drops the rate budget of a disconnected client.
func (v *InputValidator) Forget(clientID string) {
	v.rateLimiter.Forget(clientID)
}

// ValidateMessage checks a raw message against size, format and rate limits.
func (v *InputValidator) ValidateMessage(data []byte, clientID string) error {
	if len(data) > MaxMessageSize {
		return fmt.Errorf("message too large: %d bytes (max %d)", len(data), MaxMessageSize)
	}
	if !json.Valid(data) {
		return fmt.Errorf("invalid JSON format")
	}
	if !v.rateLimiter.Allow(clientID) {
		return ErrRateLimited
	}
	return nil
}

// ParseInput turns a decoded message into an input event.
func ParseInput(msg InputMessage) (input.Event, error) {
	control, err := input.ParseControl(msg.Control)
	if err != nil {
		return input.Event{}, err
	}
	action, err := input.ParseAction(msg.Action)
	if err != nil {
		return input.Event{}, err
	}
	source, err := input.ParseSource(msg.Source)
	if err != nil {
		return input.Event{}, err
	}
	return input.Event{Control: control, Action: action, Source: source}, nil
}

// ValidateViewport checks a viewport size reported by a client.
func ValidateViewport(width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || v <= 0 || v > MaxViewportPixels {
			return fmt.Errorf("invalid viewport %vx%v", width, height)
		}
	}
	return nil
}
