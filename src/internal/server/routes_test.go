package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"handyhub-session-svc/src/internal/config"
	"handyhub-session-svc/src/internal/dependency"
	"handyhub-session-svc/src/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeps(t *testing.T) *dependency.Manager {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Configuration{}
	cfg.App.Name = "handyhub-session-svc"
	cfg.Session.Storage = config.StorageMemory
	cfg.Metrics.Enabled = true
	cfg.Metrics.Namespace = "test"

	deps, err := dependency.NewDependencyManager(context.Background(), gin.New(), nil, nil, nil, cfg)
	require.NoError(t, err)
	t.Cleanup(deps.SessionManager.Close)

	SetupRoutes(deps)
	return deps
}

func request(deps *dependency.Manager, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	deps.Router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	deps := newTestDeps(t)

	w := request(deps, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"disabled"`)
	assert.Contains(t, w.Body.String(), `"storage":"memory"`)
}

func TestSessionRoutes_Lifecycle(t *testing.T) {
	deps := newTestDeps(t)

	w := request(deps, http.MethodGet, "/api/v1/session/token", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	exp := session.FormatExpiration(time.Now().Add(time.Hour))
	w = request(deps, http.MethodPost, "/api/v1/session/login", `{"expirationTime":"`+exp+`"}`,
		http.Header{"Authorization": {"Bearer abc123"}, "Content-Type": {"application/json"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"isLoggedIn":true`)

	w = request(deps, http.MethodGet, "/api/v1/session/token", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token":"abc123"`)

	w = request(deps, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `test_events_total{action="login"} 1`)
	assert.Contains(t, w.Body.String(), "test_logged_in 1")

	w = request(deps, http.MethodPost, "/api/v1/session/logout", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, deps.SessionManager.IsLoggedIn())

	w = request(deps, http.MethodGet, "/api/v1/session", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isLoggedIn":false`)
}

func TestCORSPreflight(t *testing.T) {
	deps := newTestDeps(t)

	w := request(deps, http.MethodOptions, "/api/v1/session/login", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
