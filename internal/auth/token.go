package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType distinguishes access tokens from refresh tokens.
// An access token must never be accepted where a refresh token is
// required, and vice versa.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// ErrInvalidToken indicates a token with a bad signature, past its
// expiry, or of the wrong type. The error is deliberately generic so
// callers cannot distinguish the cases.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims are the signed token claims.
type Claims struct {
	TokenType TokenType `json:"type"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed account tokens.
// It is stateless: tokens are self-contained HS256 JWTs and there is no
// server-side revocation list. A refresh token stays valid until its
// natural expiry even after use.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a TokenService with an explicit signing secret.
// The secret comes from configuration, never from ambient process state.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccessToken signs a short-lived access token for the user.
func (s *TokenService) IssueAccessToken(userID string) (string, error) {
	return s.issue(userID, TokenTypeAccess, s.accessTTL)
}

// IssueRefreshToken signs a long-lived refresh token for the user.
func (s *TokenService) IssueRefreshToken(userID string) (string, error) {
	return s.issue(userID, TokenTypeRefresh, s.refreshTTL)
}

func (s *TokenService) issue(userID string, typ TokenType, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates a token's signature, expiry and type, and returns
// the user ID it was issued for. Any failure is ErrInvalidToken.
func (s *TokenService) Verify(tokenStr string, expected TokenType) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	if claims.TokenType != expected {
		return "", ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
