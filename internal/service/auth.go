package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/ecommercemm/auth-server-go/internal/errors"
	"github.com/ecommercemm/auth-server-go/internal/model"
	"github.com/ecommercemm/auth-server-go/internal/repository"
	"github.com/ecommercemm/auth-server-go/internal/token"
	"github.com/ecommercemm/auth-server-go/internal/util"
)

// failureReason tags why a login failed. The tags exist for server-side
// logging only; every reason collapses to the same external outcome so
// responses cannot be used to enumerate usernames.
type failureReason string

const (
	reasonUnknownUser failureReason = "unknown_or_inactive_user"
	reasonBadPassword failureReason = "bad_password"
)

// LoginResult is returned on a successful authentication.
type LoginResult struct {
	Token string
	Admin model.AdminView
}

type AuthService struct {
	adminRepo repository.AdminRepository
	tokens    *token.Service
	failDelay time.Duration
}

func NewAuthService(adminRepo repository.AdminRepository, tokens *token.Service, failDelay time.Duration) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		tokens:    tokens,
		failDelay: failDelay,
	}
}

// Login authenticates the admin credentials and issues a bearer token.
// Unknown user, inactive account and wrong password all take the same
// artificial delay and return the same generic error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, apperrors.ValidationError("Username e password são obrigatórios")
	}

	admin, err := s.adminRepo.FindActiveByUsername(ctx, username)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	if admin == nil {
		return nil, s.reject(ctx, username, reasonUnknownUser)
	}

	if !util.CheckPasswordHash(password, admin.PasswordHash) {
		return nil, s.reject(ctx, username, reasonBadPassword)
	}

	// Best-effort: a failed lastLogin update must not fail the login.
	now := time.Now().UTC()
	if err := s.adminRepo.RecordLogin(ctx, admin.ID, now); err != nil {
		log.Error().Err(err).Str("adminId", admin.ID).Msg("failed to record login timestamp")
	} else {
		admin.LastLogin = &now
	}

	signed, err := s.tokens.Issue(admin)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "token signing failed", err)
	}

	log.Info().Str("username", admin.Username).Msg("successful admin login")

	return &LoginResult{
		Token: signed,
		Admin: admin.View(),
	}, nil
}

// Logout is advisory: tokens are self-contained and unrevoked, so there
// is no server-side session to destroy. The caller discards its copy.
func (s *AuthService) Logout(ctx context.Context) error {
	return nil
}

// Verify validates a presented bearer token.
func (s *AuthService) Verify(tokenString string) (*token.Claims, error) {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, apperrors.InvalidToken("Unauthorized")
	}
	return claims, nil
}

func (s *AuthService) reject(ctx context.Context, username string, reason failureReason) error {
	log.Warn().Str("username", username).Str("reason", string(reason)).Msg("invalid login attempt")
	s.sleepFailDelay(ctx)
	return apperrors.InvalidCredentials()
}

// sleepFailDelay imposes the fixed anti-enumeration delay. The request
// context bounds it so a cancelled caller does not pin the goroutine.
func (s *AuthService) sleepFailDelay(ctx context.Context) {
	if s.failDelay <= 0 {
		return
	}
	t := time.NewTimer(s.failDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
