package bridge

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/opd-ai/go-circuit-racer/pkg/config"
	"github.com/opd-ai/go-circuit-racer/pkg/engine"
	"github.com/opd-ai/go-circuit-racer/pkg/event"
	"github.com/opd-ai/go-circuit-racer/pkg/logging"
	"github.com/opd-ai/go-circuit-racer/pkg/render"
	"github.com/opd-ai/go-circuit-racer/pkg/track"
)

// lockedBuffer is written by the client goroutines and read by the test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// entries decodes every JSON log line written so far.
func (b *lockedBuffer) entries(t *testing.T) []map[string]interface{} {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []map[string]interface{}
	sc := bufio.NewScanner(bytes.NewReader(b.buf.Bytes()))
	for sc.Scan() {
		var entry map[string]interface{}
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			t.Fatalf("log line is not JSON: %v (%q)", err, sc.Text())
		}
		out = append(out, entry)
	}
	return out
}

func TestServer_LogsCarryClientCorrelationID(t *testing.T) {
	logs := &lockedBuffer{}
	logger := logging.NewLoggerWithWriter(logs, slog.LevelDebug)

	cfg := config.DefaultConfig()
	game, err := engine.NewGame(cfg, track.Oval(), event.NewEventBus(), logging.Discard())
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	hub := NewHub(game, cfg, logger)
	t.Cleanup(hub.Close)
	ts := httptest.NewServer(NewServer(hub, cfg.Bridge, logger).Handler())
	t.Cleanup(ts.Close)

	conn := dial(t, ts)
	var welcome WelcomeMsg
	if err := json.Unmarshal(readUntil(t, conn, MsgWelcome).D, &welcome); err != nil {
		t.Fatalf("bad welcome: %v", err)
	}

	// the rejection is logged before the error reply is queued
	send(t, conn, "hello")
	readUntil(t, conn, MsgError)

	tests := []struct {
		msg string
	}{
		{"client connected"},
		{"rejected message"},
	}
	entries := logs.entries(t)
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			for _, entry := range entries {
				if entry["msg"] != tt.msg {
					continue
				}
				if got := entry["correlation_id"]; got != welcome.ClientID {
					t.Errorf("correlation_id = %v, want client id %q", got, welcome.ClientID)
				}
				return
			}
			t.Errorf("no %q entry in %d log lines", tt.msg, len(entries))
		})
	}
}

func TestHub_AttachTakesCorrelationID(t *testing.T) {
	tests := []struct {
		name   string
		ctx    context.Context
		wantID string
	}{
		{"from context", logging.WithCorrelationID(context.Background(), "conn-7"), "conn-7"},
		{"generated", context.Background(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub, _ := newTestHub(t, nil)
			c, err := hub.Attach(tt.ctx, nil, "test")
			if err != nil {
				t.Fatalf("Attach failed: %v", err)
			}
			if tt.wantID != "" && c.ID() != tt.wantID {
				t.Errorf("ID() = %q, want %q", c.ID(), tt.wantID)
			}
			if tt.wantID == "" {
				if _, err := uuid.Parse(c.ID()); err != nil {
					t.Errorf("generated id %q is not a UUID: %v", c.ID(), err)
				}
			}
			if got := logging.GetCorrelationID(c.ctx); got != c.ID() {
				t.Errorf("client log context carries %q, want %q", got, c.ID())
			}
		})
	}
}

func TestNewServer_Timeouts(t *testing.T) {
	tests := []struct {
		name         string
		readMs       int
		shutdownMs   int
		wantRead     time.Duration
		wantShutdown time.Duration
	}{
		{"configured", 10000, 30000, 10 * time.Second, 30 * time.Second},
		{"defaults from config", 30000, 5000, 30 * time.Second, 5 * time.Second},
		{"unset falls back", 0, 0, defaultReadTimeout, defaultShutdownTimeout},
	}

	hub, _ := newTestHub(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig().Bridge
			cfg.ReadTimeoutMs = tt.readMs
			cfg.ShutdownTimeoutMs = tt.shutdownMs

			srv := NewServer(hub, cfg, logging.Discard())
			if got := srv.httpServer().ReadTimeout; got != tt.wantRead {
				t.Errorf("ReadTimeout = %v, want %v", got, tt.wantRead)
			}
			if srv.shutdownTimeout != tt.wantShutdown {
				t.Errorf("shutdownTimeout = %v, want %v", srv.shutdownTimeout, tt.wantShutdown)
			}
		})
	}
}

func TestHub_ResizeLeavesClientsAlone(t *testing.T) {
	hub, game := newTestHub(t, nil)
	hub.RenderTrack(game.Layout())
	ts := newTestServer(t, hub)
	conn := dial(t, ts)
	readUntil(t, conn, MsgTrack)

	var r render.Renderer = hub
	r.Resize(1920, 1080)

	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount = %d after Resize, want 1", hub.ClientCount())
	}
	send(t, conn, `{"t":"resize","d":{"width":800,"height":600}}`)
	env := readUntil(t, conn, MsgEvent)
	var ev struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(env.D, &ev); err != nil {
		t.Fatalf("bad event: %v", err)
	}
	if ev.Type != EventCamera {
		t.Errorf("event %q after resize, want %q", ev.Type, EventCamera)
	}
}
