package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/pkg/cerr"
)

type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed bearer tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(env *config.AuthEnv) *TokenService {
	return &TokenService{
		secret: []byte(env.JWTSecret),
		ttl:    env.TokenTTL,
	}
}

// Issue signs a token for the identity, valid for the configured TTL.
func (s *TokenService) Issue(identity Identity) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: identity.Email,
		Role:  identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", cerr.NewError(cerr.Internal, "server error", err)
	}
	return signed, nil
}

// Verify parses and validates a token and returns the identity it carries.
// Malformed, expired, and badly signed tokens all fail with Unauthenticated.
func (s *TokenService) Verify(tokenString string) (*Identity, error) {
	var c claims
	_, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, cerr.NewError(cerr.Unauthenticated, "token expired", err)
		}
		return nil, cerr.NewError(cerr.Unauthenticated, "invalid token", err)
	}
	if c.Subject == "" {
		return nil, cerr.NewError(cerr.Unauthenticated, "invalid token", errors.New("missing subject"))
	}
	return &Identity{
		ID:    c.Subject,
		Email: c.Email,
		Role:  c.Role,
	}, nil
}
