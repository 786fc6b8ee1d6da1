package auth

import (
	"context"
	"fmt"
	"time"

	"flashdeck/internal/config"
	"flashdeck/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// LocalTokens issues and verifies the HS256 access tokens handed out after a GitHub login.
// The subject is the external identity, not the local user id.
type LocalTokens struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

type localClaims struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

func NewLocalTokens(cfg *config.Config) *LocalTokens {
	ttl := time.Duration(cfg.JWTTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &LocalTokens{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Issue signs a token asserting identity. It returns the token and its expiry.
func (t *LocalTokens) Issue(identity models.ExternalIdentity) (string, time.Time, error) {
	if len(t.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("JWT secret not configured")
	}

	now := t.now()
	expires := now.Add(t.ttl)
	claims := localClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Subject,
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	if identity.DisplayName != nil {
		claims.Name = *identity.DisplayName
	}
	if identity.Email != nil {
		claims.Email = *identity.Email
	}
	if identity.AvatarURL != nil {
		claims.Picture = *identity.AvatarURL
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

func (t *LocalTokens) Verify(_ context.Context, token string) (*models.ExternalIdentity, error) {
	var claims localClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		return nil, credentialError()
	}
	if claims.Subject == "" {
		return nil, models.NewUnauthorizedError("Invalid subject claim")
	}

	return &models.ExternalIdentity{
		Subject:     claims.Subject,
		Email:       optional(claims.Email),
		DisplayName: optional(claims.Name),
		AvatarURL:   optional(claims.Picture),
	}, nil
}
