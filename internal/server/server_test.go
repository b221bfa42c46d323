package server_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicwatch/neo-sentinel/internal/server"
	"github.com/cosmicwatch/neo-sentinel/pkg/alerts"
	"github.com/cosmicwatch/neo-sentinel/pkg/neo"
	"github.com/cosmicwatch/neo-sentinel/pkg/sentinel"
	"github.com/cosmicwatch/neo-sentinel/pkg/storage"
)

type failingFeed struct{}

func (failingFeed) Current(context.Context) (neo.Window, []neo.TelemetryRecord, error) {
	w := neo.CurrentWindow(5, time.Now())
	return w, nil, &neo.UpstreamError{Kind: neo.KindRateLimited}
}

func setupServer(t *testing.T, feed neo.Feed) (*server.Server, storage.Store) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := storage.NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	hub := alerts.NewHub(logger)
	dispatcher := alerts.NewDispatcher([]alerts.Notifier{alerts.NewStoreNotifier(store)}, logger)
	s := sentinel.New(feed, dispatcher, sentinel.Config{}, logger)

	return server.NewServer(feed, store, s, hub, logger), store
}

func TestServer_Health(t *testing.T) {
	srv, _ := setupServer(t, &neo.MockFeed{})

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestServer_Feed(t *testing.T) {
	srv, _ := setupServer(t, &neo.MockFeed{})

	req := httptest.NewRequest("GET", "/api/v1/feed", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count   int `json:"count"`
		Objects []struct {
			ID   string `json:"id"`
			Risk struct {
				Score int    `json:"score"`
				Band  string `json:"band"`
			} `json:"risk"`
		} `json:"objects"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	assert.Equal(t, 3, resp.Count)
	require.Len(t, resp.Objects, 3)

	// Sorted closest first: 2023 DW at 6.73M km leads.
	assert.Equal(t, "2023DW", resp.Objects[0].ID)
	assert.Equal(t, 6, resp.Objects[0].Risk.Score)
	assert.Equal(t, "LOW", resp.Objects[0].Risk.Band)
}

func TestServer_Feed_UpstreamDown(t *testing.T) {
	srv, _ := setupServer(t, failingFeed{})

	req := httptest.NewRequest("GET", "/api/v1/feed", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestServer_Alerts(t *testing.T) {
	srv, store := setupServer(t, &neo.MockFeed{})

	req := httptest.NewRequest("GET", "/api/v1/alerts", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	event := &alerts.Event{
		Type:     alerts.TypeCritical,
		Reason:   alerts.ReasonOfficialHazard,
		ObjectID: "2022AP7",
		Message:  "2022 AP7: OFFICIAL_HAZARD",
	}
	require.NoError(t, store.SaveAlert(context.Background(), event))

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/alerts", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var events []alerts.Event
	require.NoError(t, json.NewDecoder(w.Body).Decode(&events))
	require.Len(t, events, 1)
	assert.Equal(t, "2022AP7", events[0].ObjectID)
}

func TestServer_MarkRead(t *testing.T) {
	srv, store := setupServer(t, &neo.MockFeed{})

	event := &alerts.Event{
		Type:     alerts.TypeCritical,
		Reason:   alerts.ReasonOfficialHazard,
		ObjectID: "2022AP7",
		Message:  "2022 AP7: OFFICIAL_HAZARD",
	}
	require.NoError(t, store.SaveAlert(context.Background(), event))

	req := httptest.NewRequest("POST", "/api/v1/alerts/"+event.ID+"/read", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	count, err := store.CountUnread(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestServer_MarkRead_NotFound(t *testing.T) {
	srv, _ := setupServer(t, &neo.MockFeed{})

	req := httptest.NewRequest("POST", "/api/v1/alerts/missing/read", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Status(t *testing.T) {
	srv, _ := setupServer(t, &neo.MockFeed{})

	req := httptest.NewRequest("GET", "/api/v1/status", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Sentinel    sentinel.Status `json:"sentinel"`
		Subscribers int             `json:"subscribers"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.Sentinel.Running)
	assert.Equal(t, 0, resp.Subscribers)
}
