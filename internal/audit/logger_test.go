package audit

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetClientIP(t *testing.T) {
	t.Run("uses remote addr host", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:41234"
		assert.Equal(t, "203.0.113.7", getClientIP(req))
	})

	t.Run("passes through portless addr", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.7"
		assert.Equal(t, "203.0.113.7", getClientIP(req))
	})

	t.Run("ignores forgeable forwarding headers", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:41234"
		req.Header.Set("X-Forwarded-For", "10.0.0.1")
		req.Header.Set("X-Real-IP", "10.0.0.2")
		assert.Equal(t, "203.0.113.7", getClientIP(req))
	})
}
