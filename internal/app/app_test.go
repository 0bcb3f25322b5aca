package app

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/vacuum-planner/internal/config"
	"github.com/vancomm/vacuum-planner/internal/database"
	"github.com/vancomm/vacuum-planner/internal/logging"
)

func newTestApp(t *testing.T) http.Handler {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ws, err := config.NewWebSocket()
	require.NoError(t, err)

	a := New(logging.NewNop(), database.Migrations)
	a.cookies = &config.Cookies{SameSite: http.SameSiteStrictMode}
	a.jwt = config.NewJWTFromKeys(key, &key.PublicKey, time.Hour)
	a.ws = ws
	a.limits = &config.Planner{MaxExpanded: 1000, Timeout: 5 * time.Second}
	a.loadRoutes()
	return a.Handler()
}

func TestStatusRoute(t *testing.T) {
	h := newTestApp(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestPlanRouteAndMetrics(t *testing.T) {
	h := newTestApp(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(
		http.MethodPost, "/v1/plan?strategy=depth-first", strings.NewReader("2\n1\n@*\n"),
	))
	require.Equal(t, http.StatusOK, rec.Code)

	var plan map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&plan))
	assert.Equal(t, []any{"E", "V"}, plan["actions"])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `planner_searches_total{outcome="solved",strategy="depth-first"} 1`)
}

func TestRoutesWithoutStorage(t *testing.T) {
	h := newTestApp(t)

	for _, path := range []string{"/v1/runs", "/v1/runs/1"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/runs/abc", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestApp(t)

	for _, tt := range []struct{ method, path string }{
		{http.MethodGet, "/v1/plan"},
		{http.MethodPut, "/v1/plan"},
		{http.MethodDelete, "/v1/compare"},
		{http.MethodPost, "/v1/runs"},
		{http.MethodGet, "/v1/login"},
		{http.MethodPut, "/status"},
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, tt.method+" "+tt.path)
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := database.Migrations.ReadDir("migrations")
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}
