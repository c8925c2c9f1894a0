package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecommercemm/auth-server-go/internal/model"
	"github.com/ecommercemm/auth-server-go/internal/ratelimit"
	"github.com/ecommercemm/auth-server-go/internal/token"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRateLimitMiddleware(t *testing.T) {
	t.Run("allows attempts within the window limit", func(t *testing.T) {
		policy := ratelimit.NewPolicy(ratelimit.NewMemoryStore(), "auth", 10, 5*time.Minute)
		handler := NewAuthRateLimitMiddleware(policy).Handler(okHandler())

		for i := 0; i < 10; i++ {
			req := httptest.NewRequest("POST", "/api/auth/login", nil)
			req.RemoteAddr = "203.0.113.7:41234"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("rejects the eleventh attempt from one address", func(t *testing.T) {
		policy := ratelimit.NewPolicy(ratelimit.NewMemoryStore(), "auth", 10, 5*time.Minute)
		handler := NewAuthRateLimitMiddleware(policy).Handler(okHandler())

		for i := 0; i < 10; i++ {
			req := httptest.NewRequest("POST", "/api/auth/login", nil)
			req.RemoteAddr = "203.0.113.7:41234"
			handler.ServeHTTP(httptest.NewRecorder(), req)
		}

		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:41234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Contains(t, rec.Body.String(), "Too many requests")
		assert.Contains(t, rec.Body.String(), "RATE_LIMIT_EXCEEDED")
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	})

	t.Run("partitions by source address", func(t *testing.T) {
		policy := ratelimit.NewPolicy(ratelimit.NewMemoryStore(), "auth", 2, 5*time.Minute)
		handler := NewAuthRateLimitMiddleware(policy).Handler(okHandler())

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest("POST", "/api/auth/login", nil)
			req.RemoteAddr = "203.0.113.7:41234"
			handler.ServeHTTP(httptest.NewRecorder(), req)
		}

		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		req.RemoteAddr = "198.51.100.9:55000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("response does not reveal the policy or cooldown", func(t *testing.T) {
		policy := ratelimit.NewPolicy(ratelimit.NewMemoryStore(), "auth", 1, 5*time.Minute)
		handler := NewAuthRateLimitMiddleware(policy).Handler(okHandler())

		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:41234"
		handler.ServeHTTP(httptest.NewRecorder(), req)

		req = httptest.NewRequest("POST", "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:41234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotContains(t, rec.Body.String(), "auth")
		assert.NotContains(t, rec.Body.String(), "window")
		assert.NotContains(t, rec.Body.String(), "remaining")
	})
}

func TestGlobalRateLimitMiddleware(t *testing.T) {
	tokens := token.NewService("test-secret-key-that-is-long-enough", "EcommerceMM", "EcommerceMM", time.Hour)

	t.Run("keys anonymous traffic by host", func(t *testing.T) {
		policy := ratelimit.NewPolicy(ratelimit.NewMemoryStore(), "global", 2, time.Minute)
		handler := NewGlobalRateLimitMiddleware(policy, tokens).Handler(okHandler())

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest("GET", "http://shop.example/api/x", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}

		req := httptest.NewRequest("GET", "http://shop.example/api/x", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)

		// Different host, different partition.
		req = httptest.NewRequest("GET", "http://other.example/api/x", nil)
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("keys authenticated traffic by identity", func(t *testing.T) {
		policy := ratelimit.NewPolicy(ratelimit.NewMemoryStore(), "global", 1, time.Minute)
		handler := NewGlobalRateLimitMiddleware(policy, tokens).Handler(okHandler())

		signed, err := tokens.Issue(&model.Admin{ID: "id-1", Username: "admin", Email: "a@b.c"})
		require.NoError(t, err)

		// Exhaust the admin's partition.
		req := httptest.NewRequest("GET", "http://shop.example/api/x", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		req = httptest.NewRequest("GET", "http://shop.example/api/x", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)

		// Anonymous traffic on the same host is a separate partition.
		req = httptest.NewRequest("GET", "http://shop.example/api/x", nil)
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid bearer falls back to host partition", func(t *testing.T) {
		policy := ratelimit.NewPolicy(ratelimit.NewMemoryStore(), "global", 5, time.Minute)
		handler := NewGlobalRateLimitMiddleware(policy, tokens).Handler(okHandler())

		req := httptest.NewRequest("GET", "http://shop.example/api/x", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestClientIP(t *testing.T) {
	t.Run("strips port from remote addr", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "203.0.113.7:41234"
		assert.Equal(t, "203.0.113.7", ClientIP(req))
	})

	t.Run("passes through portless addr", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "203.0.113.7"
		assert.Equal(t, "203.0.113.7", ClientIP(req))
	})
}
