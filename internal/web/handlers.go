package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"vax-admin/internal/admin"
	"vax-admin/internal/bridge"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/"+s.cfg.HomePage, http.StatusFound)
}

// handlePage serves a pre-rendered page.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	markup, ok := s.pages[chi.URLParam(r, "page")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(markup)
}

func (s *Server) handleBridgeJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Write(bridgeJS)
}

// handleWebSocket runs a bridge session for the page whose path is in the
// query. An empty path means the home page.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	page := admin.CurrentPage(r.URL.Query().Get("page"), s.cfg.HomePage)
	markup, ok := s.pages[page]
	if !ok {
		http.Error(w, "Unknown page", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err, "component", "Web")
		return
	}
	defer conn.Close()

	session, err := bridge.NewSession(conn, page, markup, bridge.Config{
		PingInterval: s.cfg.PingInterval,
		Metrics:      s.metrics,
		State:        s.appState,
		Logger:       slog.Default(),
		PanelOptions: s.panelOptions(),
	})
	if err != nil {
		slog.Error("Failed to start session", "page", page, "error", err, "component", "Web")
		return
	}
	session.Run(r.Context())
}

// handleState returns the current activity snapshot as JSON.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.appState.Snapshot())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":   "ok",
		"version":  s.version,
		"sessions": s.appState.Sessions(),
	})
}
