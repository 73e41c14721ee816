package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"assettrack-api/internal/config"
	"assettrack-api/internal/identity"
	"assettrack-api/internal/models"
	"assettrack-api/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Addr: ":0", Env: "test", LogLevel: "disabled"},
		JWT: config.JWTConfig{
			Secret:   "test-secret-key-that-is-long-enough-for-testing",
			Issuer:   "assettrack-api",
			Audience: "assettrack-api",
			Expiry:   time.Hour,
		},
		AuthRateLimit: config.AuthRateLimitConfig{Limit: 6000, Burst: 1000},
		Metrics:       config.MetricsConfig{Enabled: false},
	}
}

// newTestServer assembles a server over the in-memory gateway and provider.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := newServer(store.NewMemory(), identity.NewMemoryProvider(), nil, testConfig(), zerolog.Nop())
	t.Cleanup(func() {
		if err := s.Close(context.Background()); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return s
}

// tokenFor mints a token and, unless the uid is already present, writes the
// matching profile so handlers that load it succeed.
func tokenFor(t *testing.T, s *Server, uid, name string, role models.Role) string {
	t.Helper()
	if _, err := s.Store.Users.Get(context.Background(), uid); err != nil {
		_, err := s.Store.Users.Put(context.Background(), models.UserProfile{
			UID:   uid,
			Name:  name,
			Email: uid + "@example.com",
			Role:  role,
		})
		require.NoError(t, err)
	}
	token, err := s.JWTManager.GenerateToken(uid, name, role)
	require.NoError(t, err)
	return token
}

// doRequest runs one request through the full router.
func doRequest(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

func seedServerItem(t *testing.T, s *Server, id, name string) {
	t.Helper()
	_, err := s.Store.Items.Put(context.Background(), models.Item{
		ItemID:        id,
		Name:          name,
		Category:      "General",
		Status:        models.StatusAvailable,
		LastCondition: models.ConditionGood,
	})
	require.NoError(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestDBPingWithoutDatabase(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, "GET", "/dbping", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/items", "/logs", "/stats", "/scan/ITM-001", "/auth/profile"} {
		w := doRequest(t, s, "GET", path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "path %s", path)
	}
}

func TestMetricsEndpointWhenEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = true
	s := newServer(store.NewMemory(), identity.NewMemoryProvider(), nil, cfg, zerolog.Nop())
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	// A counter series only appears after it has been incremented.
	doRequest(t, s, "GET", "/health", "", nil)

	w := doRequest(t, s, "GET", "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestMetricsEndpointAbsentWhenDisabled(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, "GET", "/metrics", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
