package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ecommercemm/auth-server-go/internal/audit"
	apperrors "github.com/ecommercemm/auth-server-go/internal/errors"
	"github.com/ecommercemm/auth-server-go/internal/httputil"
	"github.com/ecommercemm/auth-server-go/internal/token"
)

type contextKey string

const ClaimsContextKey contextKey = "adminClaims"

func GetClaims(ctx context.Context) *token.Claims {
	if claims, ok := ctx.Value(ClaimsContextKey).(*token.Claims); ok {
		return claims
	}
	return nil
}

// AuthMiddleware guards privileged routes with a bearer token. Missing
// header, malformed header and invalid token are indistinguishable to
// the caller: all are a bare 401.
type AuthMiddleware struct {
	tokens *token.Service
}

func NewAuthMiddleware(tokens *token.Service) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bearer := ExtractBearer(r)
		if bearer == "" {
			httputil.WriteError(w, apperrors.Unauthorized("Unauthorized"))
			return
		}

		claims, err := m.tokens.Validate(bearer)
		if err != nil {
			audit.LogFromRequest(r, audit.Event{Type: audit.EventTokenInvalid})
			httputil.WriteError(w, apperrors.Unauthorized("Unauthorized"))
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ExtractBearer returns the token from an "Authorization: Bearer x"
// header, or "" when the header is absent or malformed.
func ExtractBearer(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}
