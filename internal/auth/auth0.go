package auth

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"flashdeck/internal/models"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
)

// Auth0Verifier accepts RS256 access tokens issued by an Auth0 tenant, checking the
// signature against the tenant's published JWKS.
type Auth0Verifier struct {
	validator *validator.Validator
}

// auth0Claims are the optional profile claims Auth0 adds to access tokens.
type auth0Claims struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

func (c *auth0Claims) Validate(context.Context) error {
	return nil
}

// NewAuth0Verifier builds a verifier for tokens from https://<domain>/ with the given audience.
func NewAuth0Verifier(domain, audience string) (*Auth0Verifier, error) {
	issuerURL, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, fmt.Errorf("parse auth0 issuer: %w", err)
	}
	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)
	return newAuth0Verifier(provider.KeyFunc, issuerURL.String(), audience)
}

func newAuth0Verifier(keyFunc func(context.Context) (interface{}, error), issuer, audience string) (*Auth0Verifier, error) {
	v, err := validator.New(
		keyFunc,
		validator.RS256,
		issuer,
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims { return &auth0Claims{} }),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("build auth0 validator: %w", err)
	}
	return &Auth0Verifier{validator: v}, nil
}

func (a *Auth0Verifier) Verify(ctx context.Context, token string) (*models.ExternalIdentity, error) {
	raw, err := a.validator.ValidateToken(ctx, token)
	if err != nil {
		return nil, credentialError()
	}
	claims, ok := raw.(*validator.ValidatedClaims)
	if !ok || claims.RegisteredClaims.Subject == "" {
		return nil, models.NewUnauthorizedError("Invalid subject claim")
	}

	identity := &models.ExternalIdentity{Subject: claims.RegisteredClaims.Subject}
	if custom, ok := claims.CustomClaims.(*auth0Claims); ok {
		identity.Email = optional(custom.Email)
		identity.DisplayName = optional(custom.Name)
		identity.AvatarURL = optional(custom.Picture)
	}
	return identity, nil
}
