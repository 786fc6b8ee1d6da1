// Package auth verifies bearer tokens, issues local access tokens and runs the
// GitHub OAuth login flow.
package auth

import (
	"context"
	"errors"
	"strings"

	"flashdeck/internal/models"
)

// Verifier checks a bearer token and returns the identity it asserts.
type Verifier interface {
	Verify(ctx context.Context, token string) (*models.ExternalIdentity, error)
}

// ErrNoVerifier is returned by an empty Chain.
var ErrNoVerifier = errors.New("no token verifier configured")

// Chain accepts a token if any of its verifiers does, trying them in order.
type Chain []Verifier

func (c Chain) Verify(ctx context.Context, token string) (*models.ExternalIdentity, error) {
	if len(c) == 0 {
		return nil, ErrNoVerifier
	}
	var errs []error
	for _, v := range c {
		identity, err := v.Verify(ctx, token)
		if err == nil {
			return identity, nil
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// credentialError reports a token that failed verification without exposing why.
func credentialError() error {
	return models.NewUnauthorizedError("Invalid or expired token")
}
