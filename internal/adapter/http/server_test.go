package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/couchcryptid/facility-map-service/internal/domain"
	"github.com/couchcryptid/facility-map-service/internal/viewstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	err error
}

func (s stubChecker) CheckReadiness(context.Context) error { return s.err }

func newTestServer(ready error, store *viewstore.Store) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(":0", stubChecker{err: ready}, store, logger)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(nil, viewstore.New())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestHandleReady(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		srv := newTestServer(nil, viewstore.New())

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not ready", func(t *testing.T) {
		srv := newTestServer(errors.New("no snapshots processed"), viewstore.New())

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "no snapshots processed")
	})
}

func TestHandleMapView(t *testing.T) {
	t.Run("503 before first view", func(t *testing.T) {
		srv := newTestServer(nil, viewstore.New())

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mapview", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("serves the latest view", func(t *testing.T) {
		store := viewstore.New()
		store.Put(domain.MapViewModel{
			Title:      "Facility Map",
			Scope:      domain.ScopeWorld,
			Generation: 3,
			Data: map[string]domain.GeoDatum{
				"FRA": {FillKey: "#ff0000", SelectionID: "sel-1"},
			},
		})

		srv := newTestServer(nil, store)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mapview", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var view domain.MapViewModel
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		assert.Equal(t, "Facility Map", view.Title)
		assert.Equal(t, uint64(3), view.Generation)
		assert.Equal(t, "#ff0000", view.Data["FRA"].FillKey)
	})
}
