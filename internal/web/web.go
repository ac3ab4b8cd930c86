package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"vax-admin/internal/admin"
	"vax-admin/internal/config"
	"vax-admin/internal/metrics"
	"vax-admin/internal/state"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // pages and socket are served from the same origin
	},
}

const shutdownTimeout = 5 * time.Second

// Server serves the admin pages, their bridge sessions and the activity API.
type Server struct {
	cfg      *config.Config
	appState *state.AppState
	metrics  *metrics.Metrics
	version  string
	pages    map[string][]byte
	router   chi.Router

	clients   map[*websocket.Conn]bool
	clientsMu sync.RWMutex
	broadcast chan []byte
}

// New renders every page and builds the router.
func New(cfg *config.Config, appState *state.AppState, m *metrics.Metrics, version string) (*Server, error) {
	pages, err := renderPages()
	if err != nil {
		return nil, err
	}
	if _, ok := pages[cfg.HomePage]; !ok {
		return nil, fmt.Errorf("home page %q has no template", cfg.HomePage)
	}

	s := &Server{
		cfg:       cfg,
		appState:  appState,
		metrics:   m,
		version:   version,
		pages:     pages,
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte, 256),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHome)
	r.Get("/{page}", s.handlePage)
	r.Get("/assets/bridge.js", s.handleBridgeJS)

	r.Get("/ws", s.handleWebSocket)
	r.Get("/ws/activity", s.handleActivityFeed)

	r.Get("/api/state", s.handleState)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured port until ctx is cancelled, then shuts the
// server down. Open page sessions inherit ctx and end with it.
func (s *Server) Run(ctx context.Context) error {
	go s.handleBroadcasts(ctx)
	go s.monitorStateChanges(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", s.cfg.WebPort),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Web UI listening", "address", srv.Addr, "component", "Web")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web server shutdown: %w", err)
	}
	slog.Info("Web UI stopped", "component", "Web")
	return nil
}

// handleActivityFeed streams state snapshots to a dashboard client.
func (s *Server) handleActivityFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err, "component", "Web")
		return
	}
	defer conn.Close()

	s.clientsMu.Lock()
	s.clients[conn] = true
	s.clientsMu.Unlock()

	slog.Debug("Activity client connected", "component", "Web")

	if data, err := json.Marshal(s.appState.Snapshot()); err == nil {
		s.clientsMu.RLock()
		err = conn.WriteMessage(websocket.TextMessage, data)
		s.clientsMu.RUnlock()
		if err != nil {
			s.dropClient(conn)
			return
		}
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.dropClient(conn)
	slog.Debug("Activity client disconnected", "component", "Web")
}

func (s *Server) dropClient(conn *websocket.Conn) {
	s.clientsMu.Lock()
	delete(s.clients, conn)
	s.clientsMu.Unlock()
}

// handleBroadcasts sends snapshots to every activity client. Writes happen
// under the write lock so a connection never has two concurrent writers.
func (s *Server) handleBroadcasts(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case message := <-s.broadcast:
			s.clientsMu.Lock()
			for client := range s.clients {
				client.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					client.Close()
					delete(s.clients, client)
				}
			}
			s.clientsMu.Unlock()
		}
	}
}

// monitorStateChanges broadcasts on every mutation, with a 1-second ticker as
// a fallback for coalesced signals.
func (s *Server) monitorStateChanges(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	changeCh := s.appState.ChangeCh()

	var lastHash uint64
	maybeBroadcast := func() {
		snapshot := s.appState.Snapshot()
		currentHash := hashState(snapshot)
		if currentHash == lastHash {
			return
		}
		lastHash = currentHash
		if data, err := json.Marshal(snapshot); err == nil {
			select {
			case s.broadcast <- data:
			default:
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-changeCh:
			maybeBroadcast()
		case <-ticker.C:
			maybeBroadcast()
		}
	}
}

// hashState fingerprints the parts of a snapshot a client would redraw.
func hashState(snapshot state.SnapshotData) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%d|", snapshot.Sessions, len(snapshot.Activity))
	for _, pc := range snapshot.PageViews {
		fmt.Fprintf(h, "%s=%d|", pc.Page, pc.Views)
	}
	if n := len(snapshot.Activity); n > 0 {
		last := snapshot.Activity[n-1]
		fmt.Fprintf(h, "%d|%s|%s", last.Timestamp.UnixNano(), last.Session, last.Message)
	}
	return h.Sum64()
}

func (s *Server) panelOptions() []admin.Option {
	return []admin.Option{
		admin.WithDetailsPage(s.cfg.DetailsPage),
		admin.WithLocale(s.cfg.Locale),
		admin.WithToastTimeout(s.cfg.ToastTimeout),
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
			"component", "Web",
		)
	})
}
