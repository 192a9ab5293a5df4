package auth

import (
	"fmt"
	"time"

	"votely-be/internal/domain"
	"votely-be/pkg/errors"
	"votely-be/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

// Token lifetimes match the original product behavior: a longer-lived
// token at signup, a shorter one at login.
const (
	SignupTokenTTL = 5 * 24 * time.Hour
	LoginTokenTTL  = 36 * time.Hour
)

// Claims are the JWT claims carried by issued tokens.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Service issues and validates HS256 tokens.
type Service struct {
	secret []byte
	logger *logger.Logger
}

// NewService creates the token service. The secret is the shared HS256
// signing key from configuration.
func NewService(secret string, logger *logger.Logger) *Service {
	return &Service{secret: []byte(secret), logger: logger}
}

// IssueToken signs a token for the user with the given lifetime.
func (s *Service) IssueToken(user *domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a bearer token, returning its claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		s.logger.WithError(err).Debug("Token validation failed")
		return nil, errors.NewAuthenticationError("Failed to authenticate user token")
	}
	if !token.Valid {
		return nil, errors.NewAuthenticationError("Failed to authenticate user token")
	}
	return claims, nil
}
