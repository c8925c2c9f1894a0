package middleware

import (
	"net"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ecommercemm/auth-server-go/internal/audit"
	apperrors "github.com/ecommercemm/auth-server-go/internal/errors"
	"github.com/ecommercemm/auth-server-go/internal/httputil"
	"github.com/ecommercemm/auth-server-go/internal/ratelimit"
	"github.com/ecommercemm/auth-server-go/internal/token"
)

// GlobalRateLimitMiddleware throttles all API traffic. The partition
// key is the authenticated identity when a valid bearer token is
// presented, otherwise the Host header as a coarse origin marker.
type GlobalRateLimitMiddleware struct {
	policy *ratelimit.Policy
	tokens *token.Service
}

func NewGlobalRateLimitMiddleware(policy *ratelimit.Policy, tokens *token.Service) *GlobalRateLimitMiddleware {
	return &GlobalRateLimitMiddleware{
		policy: policy,
		tokens: tokens,
	}
}

func (m *GlobalRateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "host:" + r.Host
		if bearer := ExtractBearer(r); bearer != "" {
			if claims, err := m.tokens.Validate(bearer); err == nil {
				key = "user:" + claims.Username
			}
		}

		if !m.policy.Allow(r.Context(), key) {
			log.Warn().Str("key", key).Msg("global rate limit exceeded")
			rejectTooManyRequests(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// AuthRateLimitMiddleware throttles login attempts per source address,
// bounding password guesses from a single network origin.
type AuthRateLimitMiddleware struct {
	policy *ratelimit.Policy
}

func NewAuthRateLimitMiddleware(policy *ratelimit.Policy) *AuthRateLimitMiddleware {
	return &AuthRateLimitMiddleware{policy: policy}
}

func (m *AuthRateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r)

		if !m.policy.Allow(r.Context(), ip) {
			log.Warn().Str("ip", ip).Msg("auth rate limit exceeded")
			audit.LogFromRequest(r, audit.Event{Type: audit.EventRateLimitExceed})
			rejectTooManyRequests(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// rejectTooManyRequests answers 429 without revealing which policy
// tripped or how much of the window remains.
func rejectTooManyRequests(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Retry-After", "60")
	httputil.WriteError(w, apperrors.RateLimitExceeded())
}

// ClientIP returns the source address for rate-limit partitioning.
// chi's RealIP middleware rewrites RemoteAddr from proxy headers
// before this runs.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
