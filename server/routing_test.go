package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORS(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	t.Run("allowed origin with port", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/wms/tabs", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("foreign origin gets no allow header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/wms/tabs", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/wms/sessions", nil)
		req.Header.Set("Origin", "http://127.0.0.1:3000")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
		assert.Equal(t, 0, srv.Sessions().Len(), "preflight must not mount a session")
	})
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateLimitPerMinute = 1
	srv := newTestServer(t, nil, cfg)

	first := do(t, srv, http.MethodGet, "/api/wms/resolve?tab=dashboard")
	assert.Equal(t, http.StatusOK, first.Code)

	second := do(t, srv, http.MethodGet, "/api/wms/resolve?tab=dashboard")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))

	// Health and navigation are not limited
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/health").Code)
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/wms?tab=dashboard").Code)
}

func TestClientLimiter(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		l := newClientLimiter(0)
		for i := 0; i < 100; i++ {
			require.True(t, l.Allow("10.0.0.1"))
		}
	})

	t.Run("per client buckets refill", func(t *testing.T) {
		now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
		l := newClientLimiter(60)
		l.now = func() time.Time { return now }

		// burst is a tenth of the per-minute budget
		for i := 0; i < 6; i++ {
			require.True(t, l.Allow("10.0.0.1"), "request %d", i)
		}
		assert.False(t, l.Allow("10.0.0.1"))
		assert.True(t, l.Allow("10.0.0.2"), "other clients have their own bucket")

		now = now.Add(time.Second)
		assert.True(t, l.Allow("10.0.0.1"))
	})

	t.Run("idle clients are evicted", func(t *testing.T) {
		now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
		l := newClientLimiter(60)
		l.now = func() time.Time { return now }

		l.Allow("10.0.0.1")
		now = now.Add(limiterIdleTTL + time.Minute)
		l.Allow("10.0.0.2")

		l.mu.Lock()
		defer l.mu.Unlock()
		assert.NotContains(t, l.clients, "10.0.0.1")
		assert.Contains(t, l.clients, "10.0.0.2")
	})
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:51234"
	assert.Equal(t, "192.0.2.7", clientIP(req))

	req.RemoteAddr = "unix"
	assert.Equal(t, "unix", clientIP(req))
}
