package service

import (
	"context"
	"strings"

	"flashdeck/internal/models"
	"flashdeck/internal/policy"
	"flashdeck/internal/repository"
	"flashdeck/internal/validation"
)

// TagService manages the shared tag catalogue and deck tagging.
type TagService struct {
	decks repository.DeckRepository
	tags  repository.TagRepository
}

// AttachTagInput names the tag to attach either by id or by name.
type AttachTagInput struct {
	TagID *uint
	Name  string
	Slug  *string
}

func NewTagService(decks repository.DeckRepository, tags repository.TagRepository) *TagService {
	return &TagService{decks: decks, tags: tags}
}

// CreateOrGet returns the tag with the given name, creating it if needed. Without an
// explicit slug one is derived from the name.
func (s *TagService) CreateOrGet(ctx context.Context, name string, slug *string) (*models.Tag, error) {
	clean, err := validation.TagName(name)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	var finalSlug *string
	if slug != nil && strings.TrimSpace(*slug) != "" {
		v := strings.TrimSpace(*slug)
		if err := validation.ValidateTagSlug(v); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		finalSlug = &v
	} else if derived := validation.Slugify(clean); derived != "" {
		finalSlug = &derived
	}

	return s.tags.CreateOrGetByName(ctx, clean, finalSlug)
}

func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	return s.tags.List(ctx)
}

// Attach links a tag to a deck the acting user owns. Attaching twice is harmless.
func (s *TagService) Attach(ctx context.Context, deckID, actingUserID uint, in AttachTagInput) (*models.Tag, error) {
	if in.TagID == nil && strings.TrimSpace(in.Name) == "" {
		return nil, models.NewValidationError("tag_id or name is required")
	}

	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeMutation(deck, actingUserID); err != nil {
		return nil, err
	}

	var tag *models.Tag
	if in.TagID != nil {
		tag, err = s.tags.GetByID(ctx, *in.TagID)
	} else {
		tag, err = s.CreateOrGet(ctx, in.Name, in.Slug)
	}
	if err != nil {
		return nil, err
	}

	if err := s.tags.Attach(ctx, deckID, tag.ID); err != nil {
		return nil, err
	}
	invalidateDeck(ctx, deckID)
	return tag, nil
}

// Detach removes a tag from a deck the acting user owns. Detaching an absent tag succeeds.
func (s *TagService) Detach(ctx context.Context, deckID, tagID, actingUserID uint) error {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return err
	}
	if err := policy.AuthorizeMutation(deck, actingUserID); err != nil {
		return err
	}
	if err := s.tags.Detach(ctx, deckID, tagID); err != nil {
		return err
	}
	invalidateDeck(ctx, deckID)
	return nil
}

func (s *TagService) ListForDeck(ctx context.Context, deckID uint, viewerID *uint) ([]models.Tag, error) {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeRead(deck, viewerID); err != nil {
		return nil, err
	}
	return s.tags.ListForDeck(ctx, deckID)
}
