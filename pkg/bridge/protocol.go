// Package bridge streams a running game to browser clients over
// WebSockets and takes their key and button presses back.
package bridge

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/opd-ai/go-circuit-racer/pkg/engine"
	"github.com/opd-ai/go-circuit-racer/pkg/physics"
	"github.com/opd-ai/go-circuit-racer/pkg/track"
)

// Client -> server message types
const (
	MsgInput  = "input"
	MsgResize = "resize"
)

// Server -> client message types. Frames travel as binary msgpack; every
// other message is a JSON envelope.
const (
	MsgWelcome = "welcome"
	MsgTrack   = "track"
	MsgEvent   = "event"
	MsgError   = "error"
)

// Envelope wraps all outgoing text messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// ResizeMsg reports a browser viewport size in pixels.
type ResizeMsg struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// WelcomeMsg is the first message a client receives.
type WelcomeMsg struct {
	ClientID    string  `json:"id"`
	Track       string  `json:"track"`
	CameraWidth float64 `json:"cameraWidth"`
}

// ShapeMsg is an outline with holes, ready for extrusion.
type ShapeMsg struct {
	Name    string               `json:"name"`
	Outline []physics.Vector2D   `json:"outline"`
	Holes   [][]physics.Vector2D `json:"holes,omitempty"`
}

// TrackMsg carries the static scene.
type TrackMsg struct {
	Name     string               `json:"name"`
	Shapes   []ShapeMsg           `json:"shapes"`
	Markings [][]physics.Vector2D `json:"markings"`
	Curbs    [][]physics.Vector2D `json:"curbs"`
	Trees    []physics.Vector2D   `json:"trees"`
}

// EventCamera answers a resize with the world size the client should show.
const EventCamera = "camera"

// CameraMsg is the visible world rectangle for a client viewport.
type CameraMsg struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// EventMsg forwards a game event.
type EventMsg struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// NewTrackMsg converts a layout for the wire.
func NewTrackMsg(layout *track.Layout) TrackMsg {
	msg := TrackMsg{
		Name:  layout.Name,
		Trees: layout.Trees,
	}
	for _, shape := range layout.Shapes() {
		s := ShapeMsg{Name: shape.Name, Outline: shape.Outline}
		for _, hole := range shape.Holes {
			s.Holes = append(s.Holes, hole)
		}
		msg.Shapes = append(msg.Shapes, s)
	}
	for _, p := range layout.Markings {
		msg.Markings = append(msg.Markings, p)
	}
	for _, p := range layout.Curbs {
		msg.Curbs = append(msg.Curbs, p)
	}
	return msg
}

// EncodeEnvelope marshals a text message.
func EncodeEnvelope(t string, data interface{}) ([]byte, error) {
	return json.Marshal(Envelope{T: t, Data: data})
}

// EncodeFrame marshals a frame as msgpack.
func EncodeFrame(frame engine.Frame) ([]byte, error) {
	return msgpack.Marshal(frame)
}

// DecodeFrame is the inverse of EncodeFrame.
func DecodeFrame(data []byte) (engine.Frame, error) {
	var frame engine.Frame
	err := msgpack.Unmarshal(data, &frame)
	return frame, err
}
