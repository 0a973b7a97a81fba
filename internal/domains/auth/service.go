package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

// MockToken is the placeholder credential accepted in dev mode.
const MockToken = "mock_jwt_token_123"

// Identity is who a verified credential belongs to.
type Identity struct {
	UserID string `json:"userId" example:"user_01"`
	Email  string `json:"email,omitempty" example:"guest@example.com"`
}

// Verifier establishes identity from a bearer credential.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// AuthTokens is returned to clients after login.
// @Description Bearer token for the API
type AuthTokens struct {
	AccessToken string    `json:"accessToken" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt   time.Time `json:"expiresAt" example:"2023-01-02T12:00:00Z"`
}

// Claims represents JWT claims
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTService issues and verifies HS256 tokens.
type JWTService struct {
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewJWTService(secret string, tokenTTL time.Duration) *JWTService {
	if tokenTTL == 0 {
		tokenTTL = 24 * time.Hour // default 24 hours
	}
	return &JWTService{secret: []byte(secret), tokenTTL: tokenTTL, now: time.Now}
}

// Verify implements Verifier
func (s *JWTService) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return nil, ErrUnauthorized
	}
	return &Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

// Issue signs an access token for id.
func (s *JWTService) Issue(id Identity) (*AuthTokens, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := &Claims{
		UserID: id.UserID,
		Email:  id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   id.UserID,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &AuthTokens{AccessToken: signed, ExpiresAt: expiresAt}, nil
}

// StaticVerifier accepts a fixed set of tokens.
type StaticVerifier map[string]Identity

// Verify implements Verifier
func (s StaticVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	id, ok := s[token]
	if !ok {
		return nil, ErrUnauthorized
	}
	return &id, nil
}

// ChainVerifier returns the first successful verification.
type ChainVerifier []Verifier

// Verify implements Verifier
func (c ChainVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	for _, v := range c {
		if id, err := v.Verify(ctx, token); err == nil {
			return id, nil
		}
	}
	return nil, ErrUnauthorized
}

// BearerToken extracts the credential from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("%w: authorization header required", ErrUnauthorized)
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return "", fmt.Errorf("%w: invalid authorization format", ErrUnauthorized)
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", fmt.Errorf("%w: token required", ErrUnauthorized)
	}
	return token, nil
}
