// Package policy decides who may read or change a deck and, through it, its cards and tags.
package policy

import (
	"flashdeck/internal/models"
	"flashdeck/internal/observability"
)

// AuthorizeMutation allows only the deck owner to change the deck or anything it owns.
func AuthorizeMutation(deck *models.Deck, actingUserID uint) error {
	if deck != nil && actingUserID != 0 && deck.OwnerID == actingUserID {
		return nil
	}
	observability.AuthorizationDenials.WithLabelValues("mutation").Inc()
	return models.NewForbiddenError("Only the deck owner can modify this deck")
}

// AuthorizeRead allows anyone to read a public deck and only the owner to read a private one.
// A nil viewerID is an anonymous request.
func AuthorizeRead(deck *models.Deck, viewerID *uint) error {
	if deck != nil {
		if deck.Visibility == models.VisibilityPublic {
			return nil
		}
		if viewerID != nil && *viewerID == deck.OwnerID {
			return nil
		}
	}
	observability.AuthorizationDenials.WithLabelValues("read").Inc()
	return models.NewForbiddenError("This deck is private")
}
