package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/savedeities/contribute/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine(mw ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	engine.Use(mw...)
	engine.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	engine.POST("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	engine.GET("/panic", func(c *gin.Context) { panic("boom") })
	return engine
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	engine := newTestEngine(CORS([]string{"https://savedeities.org/"}))

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set("Origin", "https://savedeities.org")
		w := serve(engine, req)

		assert.Equal(t, "https://savedeities.org", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := serve(engine, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/ok", nil)
		req.Header.Set("Origin", "https://savedeities.org")
		w := serve(engine, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestOriginGuard(t *testing.T) {
	engine := newTestEngine(OriginGuard([]string{"https://savedeities.org"}))

	tests := []struct {
		name       string
		method     string
		origin     string
		referer    string
		wantStatus int
	}{
		{"get is never checked", http.MethodGet, "https://evil.example", "", http.StatusOK},
		{"allowed origin", http.MethodPost, "https://savedeities.org", "", http.StatusOK},
		{"same origin", http.MethodPost, "http://example.com", "", http.StatusOK},
		{"foreign origin", http.MethodPost, "https://evil.example", "", http.StatusForbidden},
		{"foreign referer", http.MethodPost, "", "https://evil.example/page", http.StatusForbidden},
		{"allowed referer", http.MethodPost, "", "https://savedeities.org/contribute?case=1", http.StatusOK},
		{"no browser headers", http.MethodPost, "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/ok", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			w := serve(engine, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRecovery(t *testing.T) {
	engine := newTestEngine(Recovery(logger.NewNop()))

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set("Cookie", "contrib_sid=secret")
	w := serve(engine, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "internal_error") || strings.Contains(w.Body.String(), "Internal server error"))
}

type stubLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (s *stubLimiter) Allow(ctx context.Context, key string) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allow, s.err
}

func (s *stubLimiter) Remaining(ctx context.Context, key string) (int64, error) { return 0, nil }

func (s *stubLimiter) Reset(ctx context.Context, key string) error { return nil }

func TestRateLimiter_Limit(t *testing.T) {
	tests := []struct {
		name       string
		limiter    *stubLimiter
		wantStatus int
	}{
		{"allowed", &stubLimiter{allow: true}, http.StatusOK},
		{"exceeded", &stubLimiter{allow: false}, http.StatusTooManyRequests},
		{"limiter down fails open", &stubLimiter{err: assert.AnError}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(NewRateLimiter(tt.limiter, logger.NewNop()).Limit())
			req := httptest.NewRequest(http.MethodPost, "/ok", nil)
			req.RemoteAddr = "203.0.113.7:5555"
			w := serve(engine, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, []string{"ip:203.0.113.7"}, tt.limiter.keys)
		})
	}
}
