package bridge

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/opd-ai/go-circuit-racer/pkg/config"
	"github.com/opd-ai/go-circuit-racer/pkg/engine"
	"github.com/opd-ai/go-circuit-racer/pkg/event"
	"github.com/opd-ai/go-circuit-racer/pkg/logging"
	"github.com/opd-ai/go-circuit-racer/pkg/render"
	"github.com/opd-ai/go-circuit-racer/pkg/track"
	"github.com/opd-ai/go-circuit-racer/pkg/validation"
)

var (
	// ErrHubFull is returned when MaxClients are already connected.
	ErrHubFull = errors.New("too many clients")
	// ErrFrameDropped means no connected client could take a frame.
	ErrFrameDropped = errors.New("frame dropped by every client")
)

var _ render.Renderer = (*Hub)(nil)

// forwarded lists the bus events relayed to browsers.
var forwarded = []event.Type{
	event.PhaseChanged,
	event.GameStarted,
	event.GameReset,
	event.VehicleCrashed,
	event.VehicleSpawned,
	event.UIRevealed,
}

// Hub manages the connected browsers of one game. It is a renderer: the
// track and every frame are pushed to all clients.
type Hub struct {
	game        *engine.Game
	validator   *validation.InputValidator
	publisher   *Publisher
	logger      *logging.Logger
	maxClients  int
	cameraWidth float64
	writeWait   time.Duration

	mu        sync.RWMutex
	clients   map[*Client]struct{}
	track     []byte
	lastFrame []byte
	subs      []*event.Subscription

	frames atomic.Uint64
}

// NewHub creates a hub for game using the bridge section of cfg.
func NewHub(game *engine.Game, cfg *config.GameConfig, logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.NewLogger()
	}
	logger = logger.With("component", "bridge")
	bc := cfg.Bridge
	writeWait := time.Duration(bc.WriteTimeout) * time.Millisecond
	if writeWait <= 0 {
		writeWait = 10 * time.Second
	}

	h := &Hub{
		game:        game,
		validator:   validation.NewInputValidator(bc.InputRate, bc.InputBurst),
		publisher:   NewPublisher("frame-broadcast", bc.Breaker, logger),
		logger:      logger,
		maxClients:  bc.MaxClients,
		cameraWidth: cfg.Camera.Width,
		writeWait:   writeWait,
		clients:     make(map[*Client]struct{}),
	}

	bus := game.Bus()
	for _, t := range forwarded {
		h.subs = append(h.subs, bus.Subscribe(t, h.forward))
	}
	return h
}

// Publisher returns the breaker guarding frame delivery.
func (h *Hub) Publisher() *Publisher { return h.publisher }

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// FramesSent returns how many frames reached at least one client.
func (h *Hub) FramesSent() uint64 { return h.frames.Load() }

// Attach registers a new connection. The correlation ID carried by ctx
// becomes the client ID, so every log line of the connection shares it.
// The client receives the welcome message, the track and the latest frame
// before anything else.
func (h *Hub) Attach(ctx context.Context, conn *websocket.Conn, remoteAddr string) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.maxClients > 0 && len(h.clients) >= h.maxClients {
		return nil, ErrHubFull
	}

	id := logging.GetCorrelationID(ctx)
	if id == "" {
		id = logging.GenerateCorrelationID()
		ctx = logging.WithCorrelationID(ctx, id)
	}
	c := NewClient(h, conn, id, remoteAddr)

	welcome, err := EncodeEnvelope(MsgWelcome, WelcomeMsg{
		ClientID:    id,
		Track:       h.game.Layout().Name,
		CameraWidth: h.cameraWidth,
	})
	if err != nil {
		return nil, err
	}
	c.SendRaw(welcome)
	if h.track != nil {
		c.SendRaw(h.track)
	}
	if h.lastFrame != nil {
		c.SendBinary(h.lastFrame)
	}

	h.clients[c] = struct{}{}
	h.logger.Info(ctx, "client connected", "client", id, "addr", remoteAddr, "clients", len(h.clients))
	return c, nil
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	remaining := len(h.clients)
	h.mu.Unlock()

	h.validator.Forget(c.id)
	h.logger.Info(c.ctx, "client disconnected", "client", c.id, "clients", remaining)
}

// RenderTrack encodes the layout once and sends it to every client.
func (h *Hub) RenderTrack(layout *track.Layout) {
	if layout == nil {
		return
	}
	data, err := EncodeEnvelope(MsgTrack, NewTrackMsg(layout))
	if err != nil {
		h.logger.Error(context.Background(), "encode track", err)
		return
	}

	h.mu.Lock()
	h.track = data
	h.mu.Unlock()
	h.broadcastText(data)
}

// RenderFrame pushes a msgpack frame to every client through the breaker.
// Frames are skipped while the breaker is open.
func (h *Hub) RenderFrame(frame engine.Frame) {
	ctx := context.Background()
	data, err := EncodeFrame(frame)
	if err != nil {
		h.logger.Error(ctx, "encode frame", err, "sequence", frame.Sequence)
		return
	}

	h.mu.Lock()
	h.lastFrame = data
	h.mu.Unlock()

	h.publisher.Execute(ctx, func() error {
		total, delivered := h.broadcast(outbound{binary: true, data: data})
		if total > 0 && delivered == 0 {
			return ErrFrameDropped
		}
		if delivered > 0 {
			h.frames.Add(1)
		}
		return nil
	})
}

// Resize implements render.Renderer. Browsers report their own viewport
// with MsgResize and get a camera reply in handleMessage, so a host-side
// resize has nothing to forward.
func (h *Hub) Resize(width, height float64) {}

// Close stops forwarding events and disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = nil
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		if c.conn != nil {
			conns = append(conns, c.conn)
		}
	}
	h.mu.Unlock()

	for _, s := range subs {
		s.Cancel()
	}
	for _, conn := range conns {
		conn.Close()
	}
	h.validator.Close()
}

func (h *Hub) broadcastText(data []byte) {
	h.broadcast(outbound{data: data})
}

func (h *Hub) broadcast(m outbound) (total, delivered int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		total++
		if c.enqueue(m) {
			delivered++
		}
	}
	return total, delivered
}

func (h *Hub) forward(e event.Event) {
	msg := EventMsg{Type: string(e.GetType())}
	switch ev := e.(type) {
	case *event.PhaseEvent:
		msg.Data = map[string]string{"from": ev.From, "to": ev.To}
	case *event.CollisionEvent:
		msg.Data = map[string]interface{}{"vehicle": ev.VehicleID, "kind": ev.Kind, "contact": ev.Contact}
	case *event.VehicleEvent:
		msg.Data = map[string]interface{}{"vehicle": ev.VehicleID, "kind": ev.Kind, "clockwise": ev.Clockwise}
	}

	data, err := EncodeEnvelope(MsgEvent, msg)
	if err != nil {
		h.logger.Error(context.Background(), "encode event", err, "type", msg.Type)
		return
	}
	h.broadcastText(data)
}
