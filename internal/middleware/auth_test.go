package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecommercemm/auth-server-go/internal/model"
	"github.com/ecommercemm/auth-server-go/internal/token"
)

func TestAuthMiddleware(t *testing.T) {
	tokens := token.NewService("test-secret-key-that-is-long-enough", "EcommerceMM", "EcommerceMM", time.Hour)
	admin := &model.Admin{ID: "id-1", Username: "admin", Email: "admin@ecommercemm.com"}

	newHandler := func() http.Handler {
		return NewAuthMiddleware(tokens).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())
			require.NotNil(t, claims)
			w.WriteHeader(http.StatusOK)
		}))
	}

	t.Run("accepts a valid bearer token", func(t *testing.T) {
		signed, err := tokens.Issue(admin)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/auth/verify", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()
		newHandler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/auth/verify", nil)
		rec := httptest.NewRecorder()
		newHandler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects non-bearer scheme", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/auth/verify", nil)
		req.Header.Set("Authorization", "Basic YWRtaW46YWRtaW4=")
		rec := httptest.NewRecorder()
		newHandler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/auth/verify", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		newHandler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired := token.NewService("test-secret-key-that-is-long-enough", "EcommerceMM", "EcommerceMM", -time.Second)
		signed, err := expired.Issue(admin)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/auth/verify", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()
		newHandler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("failure responses never say why", func(t *testing.T) {
		for _, header := range []string{"", "Bearer garbage", "Bearer "} {
			req := httptest.NewRequest("GET", "/api/auth/verify", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			newHandler().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"Unauthorized","code":"UNAUTHORIZED"}`, rec.Body.String())
		}
	})
}

func TestExtractBearer(t *testing.T) {
	t.Run("extracts token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer abc123")
		assert.Equal(t, "abc123", ExtractBearer(req))
	})

	t.Run("empty without header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		assert.Equal(t, "", ExtractBearer(req))
	})

	t.Run("empty for other schemes", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Token abc123")
		assert.Equal(t, "", ExtractBearer(req))
	})
}
