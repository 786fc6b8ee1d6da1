package policy

import (
	"testing"

	"flashdeck/internal/models"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func TestAuthorizeMutation(t *testing.T) {
	deck := &models.Deck{ID: 1, OwnerID: 10, Visibility: models.VisibilityPublic}

	tests := []struct {
		name    string
		deck    *models.Deck
		actor   uint
		allowed bool
	}{
		{"owner", deck, 10, true},
		{"other user on public deck", deck, 11, false},
		{"anonymous", deck, 0, false},
		{"nil deck", nil, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeMutation(tt.deck, tt.actor)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, models.IsCode(err, models.CodeForbidden))
			}
		})
	}
}

func TestAuthorizeRead(t *testing.T) {
	public := &models.Deck{ID: 1, OwnerID: 10, Visibility: models.VisibilityPublic}
	private := &models.Deck{ID: 2, OwnerID: 10, Visibility: models.VisibilityPrivate}

	tests := []struct {
		name    string
		deck    *models.Deck
		viewer  *uint
		allowed bool
	}{
		{"public anonymous", public, nil, true},
		{"public other user", public, uintPtr(11), true},
		{"private owner", private, uintPtr(10), true},
		{"private other user", private, uintPtr(11), false},
		{"private anonymous", private, nil, false},
		{"nil deck", nil, uintPtr(10), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeRead(tt.deck, tt.viewer)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, models.IsCode(err, models.CodeForbidden))
				assert.Equal(t, 403, models.StatusFor(err))
			}
		})
	}
}
