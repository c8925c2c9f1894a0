package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ecommercemm/auth-server-go/internal/model"
)

// ErrInvalid is the single validation outcome for every bad token:
// malformed input, wrong signature, wrong issuer or audience, expired.
// Callers must not learn which check failed.
var ErrInvalid = errors.New("invalid token")

// Claims carried by an admin bearer token. Subject is the account id.
type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Admin    bool   `json:"admin"`
	jwt.RegisteredClaims
}

type Service struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewService(secret, issuer, audience string, ttl time.Duration) *Service {
	return &Service{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
	}
}

// Issue signs an HS256 token for the admin, valid from now until
// now+ttl. Tokens are self-contained; the server keeps no record.
func (s *Service) Issue(admin *model.Admin) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: admin.Username,
		Email:    admin.Email,
		Admin:    true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Validate verifies signature, issuer, audience and expiry with zero
// clock-skew tolerance. An expired token is invalid at the instant of
// expiry. Every failure collapses to ErrInvalid.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid || !claims.Admin {
		return nil, ErrInvalid
	}
	return claims, nil
}
