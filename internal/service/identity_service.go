// Package service implements the application's use cases on top of the repositories.
package service

import (
	"context"
	"strings"

	"flashdeck/internal/models"
	"flashdeck/internal/observability"
	"flashdeck/internal/repository"
)

// IdentityService maps verified external identities onto local users.
type IdentityService struct {
	users repository.UserRepository
}

func NewIdentityService(users repository.UserRepository) *IdentityService {
	return &IdentityService{users: users}
}

// Resolve returns the user for identity, creating it on first sight and refreshing its
// profile and last login otherwise. Repeated calls with the same subject never create
// a second user.
func (s *IdentityService) Resolve(ctx context.Context, identity models.ExternalIdentity) (_ *models.User, err error) {
	subject := strings.TrimSpace(identity.Subject)
	if subject == "" {
		observability.IdentityResolutions.WithLabelValues("unknown", "rejected").Inc()
		return nil, models.NewUnauthorizedError("Identity subject is missing")
	}
	provider := IdentityProvider(subject)

	ctx, span := observability.StartSpan(ctx, "identity.resolve",
		observability.ProviderAttr(provider),
	)
	defer func() { observability.EndSpan(span, err) }()

	user, err := s.users.UpsertByExternalID(ctx, models.ExternalIdentity{
		Subject:     subject,
		Email:       nonBlank(identity.Email),
		DisplayName: nonBlank(identity.DisplayName),
		AvatarURL:   nonBlank(identity.AvatarURL),
	})
	if err != nil {
		observability.IdentityResolutions.WithLabelValues(provider, "error").Inc()
		return nil, err
	}
	observability.IdentityResolutions.WithLabelValues(provider, "ok").Inc()
	return user, nil
}

// GetUser returns the local user with the given id.
func (s *IdentityService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// IdentityProvider names the issuer family of a subject such as "github|123" or
// "google-oauth2|abc". Unrecognised prefixes collapse to "other".
func IdentityProvider(subject string) string {
	prefix, _, found := strings.Cut(subject, "|")
	if !found {
		return "local"
	}
	switch prefix {
	case "github", "auth0", "google-oauth2":
		return prefix
	default:
		return "other"
	}
}

func nonBlank(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
