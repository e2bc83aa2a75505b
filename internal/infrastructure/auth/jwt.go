// Package auth verifies the bearer tokens minted by the external auth service.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/config"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrMissingUserID    = errors.New("missing user_id in claims")
)

// Principal is the caller a verified token speaks for
type Principal struct {
	UserID  uuid.UUID
	IsStaff bool
}

// Claims mirrors the payload written by the auth service
type Claims struct {
	jwt.RegisteredClaims
	UserID  string `json:"user_id"`
	IsStaff bool   `json:"is_staff,omitempty"`
}

// principal validates the storefront-specific part of the payload
func (c *Claims) principal() (Principal, error) {
	if c.UserID == "" {
		return Principal{}, ErrMissingUserID
	}
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: user_id %q", ErrInvalidClaims, c.UserID)
	}
	return Principal{UserID: id, IsStaff: c.IsStaff}, nil
}

// JWTService checks HS256 tokens against a shared secret and, when set, an issuer
type JWTService struct {
	key    []byte
	parser *jwt.Parser
	issuer string
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	return &JWTService{
		key:    []byte(cfg.Secret),
		parser: jwt.NewParser(opts...),
		issuer: cfg.Issuer,
	}
}

// Verify parses token and returns the caller it identifies
func (s *JWTService) Verify(token string) (Principal, error) {
	var claims Claims
	_, err := s.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Principal{}, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return Principal{}, ErrTokenNotYetValid
	case err != nil:
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims.principal()
}

// GenerateToken signs a token the way the auth service does. Tests and
// local tooling use it; the storefront never issues tokens itself.
func (s *JWTService) GenerateToken(userID uuid.UUID, isStaff bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:  userID.String(),
		IsStaff: isStaff,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}
