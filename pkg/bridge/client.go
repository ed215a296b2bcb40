package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"

	"github.com/opd-ai/go-circuit-racer/pkg/event"
	"github.com/opd-ai/go-circuit-racer/pkg/logging"
	"github.com/opd-ai/go-circuit-racer/pkg/render"
	"github.com/opd-ai/go-circuit-racer/pkg/validation"
)

const (
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = validation.MaxMessageSize
	sendBufSize    = 64
)

type outbound struct {
	binary bool
	data   []byte
}

// Client represents a WebSocket connection
type Client struct {
	id         string
	hub        *Hub
	conn       *websocket.Conn
	send       chan outbound
	remoteAddr string
	// ctx tags log lines with the client ID as correlation ID.
	ctx context.Context
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, id, remoteAddr string) *Client {
	return &Client{
		id:         id,
		hub:        hub,
		conn:       conn,
		send:       make(chan outbound, sendBufSize),
		remoteAddr: remoteAddr,
		ctx:        logging.WithCorrelationID(context.Background(), id),
	}
}

// ID returns the identifier handed out in the welcome message.
func (c *Client) ID() string { return c.id }

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn(c.ctx, "websocket read failed", "client", c.id, "error", err)
			}
			break
		}
		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			kind := websocket.TextMessage
			if message.binary {
				kind = websocket.BinaryMessage
			}
			if err := c.conn.WriteMessage(kind, message.data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendRaw queues a text message. It reports false when the client is too
// slow and the message was dropped.
func (c *Client) SendRaw(data []byte) bool {
	return c.enqueue(outbound{data: data})
}

// SendBinary queues a binary message.
func (c *Client) SendBinary(data []byte) bool {
	return c.enqueue(outbound{binary: true, data: data})
}

func (c *Client) enqueue(m outbound) bool {
	select {
	case c.send <- m:
		return true
	default:
		return false
	}
}

func (c *Client) sendError(text string) {
	data, err := EncodeEnvelope(MsgError, text)
	if err != nil {
		return
	}
	c.SendRaw(data)
}

func (c *Client) handleMessage(message []byte) {
	ctx := c.ctx
	if err := c.hub.validator.ValidateMessage(message, c.id); err != nil {
		if !errors.Is(err, validation.ErrRateLimited) {
			c.hub.logger.Debug(ctx, "rejected message", "client", c.id, "error", err)
		}
		c.sendError(err.Error())
		return
	}

	var env InEnvelope
	if err := json.Unmarshal(message, &env); err != nil {
		c.sendError("malformed envelope")
		return
	}

	switch env.T {
	case MsgInput:
		var msg validation.InputMessage
		if err := json.Unmarshal(env.D, &msg); err != nil {
			c.sendError("malformed input")
			return
		}
		e, err := validation.ParseInput(msg)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		c.hub.game.HandleInput(e)

	case MsgResize:
		var msg ResizeMsg
		if err := json.Unmarshal(env.D, &msg); err != nil {
			c.sendError("malformed resize")
			return
		}
		if err := validation.ValidateViewport(msg.Width, msg.Height); err != nil {
			c.sendError(err.Error())
			return
		}
		c.hub.game.Bus().Publish(event.NewResizeEvent(c, msg.Width, msg.Height))
		proj := render.NewProjection(c.hub.cameraWidth, msg.Width, msg.Height)
		if data, err := EncodeEnvelope(MsgEvent, EventMsg{Type: EventCamera, Data: CameraMsg{Width: proj.Width, Height: proj.Height}}); err == nil {
			c.SendRaw(data)
		}

	default:
		c.sendError("unknown message type " + env.T)
	}
}
