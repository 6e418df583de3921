package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/Payphone-Digital/eventhub/config"
	apperrors "github.com/Payphone-Digital/eventhub/internal/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Identity is what a verified token proves about its bearer.
type Identity struct {
	ID   string
	Role string
}

// Claims is the signed payload of both token kinds.
type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies access and refresh tokens (HS256).
// Refresh tokens use their own secret and carry a random jti.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenService(cfg config.JWTConfig) *TokenService {
	refreshSecret := cfg.RefreshSecret
	if refreshSecret == "" {
		refreshSecret = cfg.AccessSecret
	}
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     cfg.AccessExpiresIn,
		refreshTTL:    cfg.RefreshExpiresIn,
		now:           time.Now,
	}
}

// RefreshTTL is how long an issued refresh token stays valid.
func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

func (s *TokenService) IssueAccessToken(identity Identity) (string, error) {
	return s.sign(identity, tokenTypeAccess, s.accessSecret, s.accessTTL, "")
}

func (s *TokenService) IssueRefreshToken(identity Identity) (string, error) {
	return s.sign(identity, tokenTypeRefresh, s.refreshSecret, s.refreshTTL, uuid.NewString())
}

// VerifyAccessToken returns apperrors.ErrTokenExpired for an expired token
// and apperrors.ErrInvalidToken for anything else that does not verify.
func (s *TokenService) VerifyAccessToken(token string) (Identity, error) {
	return s.verify(token, s.accessSecret, tokenTypeAccess)
}

func (s *TokenService) VerifyRefreshToken(token string) (Identity, error) {
	return s.verify(token, s.refreshSecret, tokenTypeRefresh)
}

func (s *TokenService) sign(identity Identity, typ string, secret []byte, ttl time.Duration, jti string) (string, error) {
	now := s.now()
	claims := Claims{
		ID:   identity.ID,
		Role: identity.Role,
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", typ, err)
	}
	return signed, nil
}

func (s *TokenService) verify(token string, secret []byte, typ string) (Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, apperrors.WrapError(apperrors.ErrTokenExpired, err)
		}
		return Identity{}, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}

	if claims.Type != typ || claims.ID == "" {
		return Identity{}, apperrors.ErrInvalidToken
	}
	return Identity{ID: claims.ID, Role: claims.Role}, nil
}
