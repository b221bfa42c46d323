package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cosmicwatch/neo-sentinel/pkg/alerts"
	"github.com/cosmicwatch/neo-sentinel/pkg/neo"
	"github.com/cosmicwatch/neo-sentinel/pkg/risk"
	"github.com/cosmicwatch/neo-sentinel/pkg/sentinel"
	"github.com/cosmicwatch/neo-sentinel/pkg/storage"
)

// Server exposes the read-only inspection API: health, the risk-enriched
// feed, the persisted alert log, and the sentinel status snapshot. The
// sentinel core itself has no user-facing error surface; when the feed is
// down this API reports the classified failure, nothing crashes.
type Server struct {
	feed     neo.Feed
	store    storage.Store
	sentinel *sentinel.Sentinel
	hub      *alerts.Hub
	mux      *http.ServeMux
	logger   *slog.Logger
}

// NewServer creates the API server.
func NewServer(feed neo.Feed, store storage.Store, s *sentinel.Sentinel, hub *alerts.Hub, logger *slog.Logger) *Server {
	srv := &Server{
		feed:     feed,
		store:    store,
		sentinel: s,
		hub:      hub,
		mux:      http.NewServeMux(),
		logger:   logger,
	}
	srv.routes()
	return srv
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/v1/feed", s.handleFeed)
	s.mux.HandleFunc("GET /api/v1/alerts", s.handleAlerts)
	s.mux.HandleFunc("POST /api/v1/alerts/{id}/read", s.handleMarkRead)
	s.mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	if s.hub != nil {
		s.mux.Handle("GET /ws/alerts", s.hub)
	}
}

// Handler returns the HTTP handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// enrichedRecord is a telemetry record with its derived risk attached, the
// shape the original dashboard consumed.
type enrichedRecord struct {
	neo.TelemetryRecord
	Risk risk.Assessment `json:"risk"`
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	window, records, err := s.feed.Current(ctx)
	if err != nil {
		s.logger.Error("fetch feed", "error", err)
		http.Error(w, "upstream feed unavailable", http.StatusBadGateway)
		return
	}

	enriched := make([]enrichedRecord, 0, len(records))
	for i := range records {
		enriched = append(enriched, enrichedRecord{
			TelemetryRecord: records[i],
			Risk:            risk.Score(&records[i]),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"window":  window,
		"count":   len(enriched),
		"objects": enriched,
	})
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	events, err := s.store.ListAlerts(ctx, 100)
	if err != nil {
		s.logger.Error("list alerts", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []alerts.Event{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := r.PathValue("id")
	if err := s.store.MarkAlertRead(ctx, id); err != nil {
		s.logger.Error("mark alert read", "id", id, "error", err)
		http.Error(w, "alert not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	status := s.sentinel.Status()

	subscribers := 0
	if s.hub != nil {
		subscribers = s.hub.SubscriberCount()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"sentinel":    status,
		"subscribers": subscribers,
	})
}
