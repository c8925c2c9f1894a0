package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/ecommercemm/auth-server-go/internal/audit"
	apperrors "github.com/ecommercemm/auth-server-go/internal/errors"
	"github.com/ecommercemm/auth-server-go/internal/httputil"
	"github.com/ecommercemm/auth-server-go/internal/model"
	"github.com/ecommercemm/auth-server-go/internal/service"
)

const (
	msgLoginOK        = "Login realizado com sucesso"
	msgLogoutOK       = "Logout realizado com sucesso"
	msgInternalError  = "Erro interno do servidor"
	msgFieldsRequired = "Username e password são obrigatórios"
)

type AuthHandler struct {
	authService    *service.AuthService
	authLimiter    func(http.Handler) http.Handler
	authMiddleware func(http.Handler) http.Handler
}

func NewAuthHandler(
	authService *service.AuthService,
	authLimiter func(http.Handler) http.Handler,
	authMiddleware func(http.Handler) http.Handler,
) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		authLimiter:    authLimiter,
		authMiddleware: authMiddleware,
	}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.authLimiter).Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.With(h.authMiddleware).Get("/verify", h.Verify)

	return r
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse mirrors the contract every collaborator consumes: a
// success flag, a human-readable message, and on success the token
// plus the public admin view. The password hash never appears here.
type loginResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Token   string           `json:"token,omitempty"`
	Admin   *model.AdminView `json:"admin,omitempty"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, loginResponse{
			Success: false,
			Message: msgFieldsRequired,
		})
		return
	}

	result, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeLoginFailure(w, r, req.Username, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:     audit.EventLoginSuccess,
		Username: result.Admin.Username,
	})

	writeJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Message: msgLoginOK,
		Token:   result.Token,
		Admin:   &result.Admin,
	})
}

// writeLoginFailure translates internal outcomes into the caller-facing
// contract. Statuses come from the shared code mapping; only messages
// for client-caused failures pass through, everything that maps to a
// 5xx is logged and surfaced as the generic internal message.
func (h *AuthHandler) writeLoginFailure(w http.ResponseWriter, r *http.Request, username string, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		status := httputil.StatusFromCode(appErr.Code)
		if status < http.StatusInternalServerError {
			if appErr.Code == apperrors.ErrCodeInvalidCredentials {
				audit.LogFromRequest(r, audit.Event{
					Type:     audit.EventLoginFailure,
					Username: username,
				})
			}
			writeJSON(w, status, loginResponse{
				Success: false,
				Message: appErr.Message,
			})
			return
		}
	}

	log.Error().Err(err).Str("username", username).Msg("login error")
	writeJSON(w, http.StatusInternalServerError, loginResponse{
		Success: false,
		Message: msgInternalError,
	})
}

// Logout always succeeds. Tokens are self-contained and unrevoked, so
// logout is advisory: the caller is expected to discard its token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context()); err != nil {
		log.Error().Err(err).Msg("logout error")
	}

	audit.LogFromRequest(r, audit.Event{Type: audit.EventLogout})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": msgLogoutOK,
	})
}

// Verify runs behind the bearer-auth middleware; reaching it means the
// token already validated. The body acknowledges validity and nothing
// else: the caller learns no claim it does not already hold.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}
