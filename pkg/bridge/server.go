package bridge

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/opd-ai/go-circuit-racer/pkg/config"
	"github.com/opd-ai/go-circuit-racer/pkg/health"
	"github.com/opd-ai/go-circuit-racer/pkg/logging"
)

const (
	defaultReadTimeout     = 30 * time.Second
	defaultShutdownTimeout = 5 * time.Second
	maxHeapMB              = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Server exposes a hub over HTTP together with health probes.
type Server struct {
	hub             *Hub
	health          *health.HealthChecker
	addr            string
	staticDir       string
	readTimeout     time.Duration
	shutdownTimeout time.Duration
	logger          *logging.Logger
}

func millisOr(ms int, fallback time.Duration) time.Duration {
	if ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

// NewServer creates a server for hub. Readiness fails while the frame
// breaker is open or the heap grows past a fixed limit.
func NewServer(hub *Hub, cfg config.BridgeConfig, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewLogger()
	}
	hc := health.NewHealthChecker()
	hc.AddCheck(health.NewBreakerHealthCheck("frame_breaker", hub.Publisher().State))
	hc.AddCheck(health.NewMemoryHealthCheck(maxHeapMB, nil))

	return &Server{
		hub:             hub,
		health:          hc,
		addr:            cfg.ListenAddr,
		staticDir:       cfg.StaticDir,
		readTimeout:     millisOr(cfg.ReadTimeoutMs, defaultReadTimeout),
		shutdownTimeout: millisOr(cfg.ShutdownTimeoutMs, defaultShutdownTimeout),
		logger:          logger.With("component", "http"),
	}
}

// Health returns the checker behind /health/ready so callers can add
// their own checks.
func (s *Server) Health() *health.HealthChecker { return s.health }

// Handler configures HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.health.Register(mux)
	mux.HandleFunc("/ws", s.serveWS)

	if s.staticDir != "" {
		fs := http.FileServer(http.Dir(s.staticDir))
		mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-cache")
			fs.ServeHTTP(w, r)
		}))
	}
	return mux
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	ctx := logging.WithCorrelationID(r.Context(), "")
	ip := extractIP(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn(ctx, "upgrade failed", "addr", ip, "error", err)
		return
	}

	client, err := s.hub.Attach(ctx, conn, ip)
	if err != nil {
		s.logger.Warn(ctx, "connection refused", "addr", ip, "error", err)
		msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error())
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// httpServer applies the configured read timeout. Upgraded websocket
// connections clear it and rely on the pong deadline instead.
func (s *Server) httpServer() *http.Server {
	return &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.readTimeout,
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
// and disconnects every client.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := s.httpServer()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "bridge listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.hub.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return logging.WrapError(err, "bridge shutdown")
	}
	s.logger.Info(ctx, "bridge stopped")
	return nil
}
