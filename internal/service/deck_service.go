package service

import (
	"context"
	"fmt"

	"flashdeck/internal/cache"
	"flashdeck/internal/models"
	"flashdeck/internal/observability"
	"flashdeck/internal/policy"
	"flashdeck/internal/repository"
	"flashdeck/internal/validation"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const shareCodeLength = 12

// DeckService implements deck use cases. Card and tag lists go through the Redis
// cache when one is configured. The deck row itself is never cached.
type DeckService struct {
	decks        repository.DeckRepository
	cards        repository.CardRepository
	tags         repository.TagRepository
	users        repository.UserRepository
	newShareCode func() (string, error)
}

type CreateDeckInput struct {
	Title       string
	Description *string
	Category    *string
	Visibility  string
}

// UpdateDeckInput holds the fields of a partial update; nil fields are left unchanged.
type UpdateDeckInput struct {
	Title       *string
	Description *string
	Category    *string
	Visibility  *string
}

func NewDeckService(
	decks repository.DeckRepository,
	cards repository.CardRepository,
	tags repository.TagRepository,
	users repository.UserRepository,
) *DeckService {
	return &DeckService{
		decks: decks,
		cards: cards,
		tags:  tags,
		users: users,
		newShareCode: func() (string, error) {
			return gonanoid.New(shareCodeLength)
		},
	}
}

func (s *DeckService) Create(ctx context.Context, ownerID uint, in CreateDeckInput) (*models.Deck, error) {
	title, err := validation.DeckTitle(in.Title)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	visibility, ok := models.ParseVisibility(in.Visibility)
	if !ok {
		return nil, models.NewValidationError("visibility must be PUBLIC or PRIVATE")
	}
	description, err := validation.DeckDescription(in.Description)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	category, err := validation.DeckCategory(in.Category)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	code, err := s.newShareCode()
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("generate share code: %w", err))
	}

	deck := &models.Deck{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Category:    category,
		Visibility:  visibility,
		ShareCode:   code,
	}
	if err := s.decks.Create(ctx, deck); err != nil {
		return nil, err
	}

	observability.DeckMutations.WithLabelValues("create").Inc()
	if visibility == models.VisibilityPublic {
		cache.InvalidatePublicDecks(ctx)
	}
	return deck, nil
}

// deckContents is the cached part of a deck detail. The deck row and its owner
// are read on every request.
type deckContents struct {
	Cards []models.Card `json:"cards"`
	Tags  []models.Tag  `json:"tags"`
}

// Get returns the deck with its ordered cards, tags and owner summary.
func (s *DeckService) Get(ctx context.Context, deckID uint, viewerID *uint) (*models.DeckDetail, error) {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, deck, viewerID)
}

// GetByShareCode resolves a share code and applies the same visibility rules as Get.
func (s *DeckService) GetByShareCode(ctx context.Context, code string, viewerID *uint) (*models.DeckDetail, error) {
	deck, err := s.decks.GetByShareCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, deck, viewerID)
}

func (s *DeckService) detail(ctx context.Context, deck *models.Deck, viewerID *uint) (*models.DeckDetail, error) {
	if err := policy.AuthorizeRead(deck, viewerID); err != nil {
		return nil, err
	}
	owner, err := s.users.GetByID(ctx, deck.OwnerID)
	if err != nil {
		return nil, err
	}

	var contents deckContents
	key := cache.DeckContentsKey(ctx, deck.ID)
	err = cache.Aside(ctx, "deck_contents", key, &contents, cache.DeckContentsTTL, func() error {
		return s.loadContents(ctx, deck.ID, &contents)
	})
	if err != nil {
		return nil, err
	}

	return &models.DeckDetail{
		Deck:  deck,
		Cards: contents.Cards,
		Tags:  contents.Tags,
		Owner: owner.Summary(),
	}, nil
}

func (s *DeckService) loadContents(ctx context.Context, deckID uint, contents *deckContents) error {
	cards, err := s.cards.ListForDeck(ctx, deckID)
	if err != nil {
		return err
	}
	tags, err := s.tags.ListForDeck(ctx, deckID)
	if err != nil {
		return err
	}
	*contents = deckContents{Cards: cards, Tags: tags}
	return nil
}

func (s *DeckService) ListMine(ctx context.Context, ownerID uint) ([]models.Deck, error) {
	return s.decks.ListOwnedBy(ctx, ownerID)
}

func (s *DeckService) ListPublic(ctx context.Context, limit, offset int) ([]models.Deck, error) {
	if limit <= 0 {
		limit = repository.DefaultPageLimit
	}
	if limit > repository.MaxPageLimit {
		limit = repository.MaxPageLimit
	}
	if offset < 0 {
		return nil, models.NewValidationError("offset must not be negative")
	}

	var decks []models.Deck
	key := cache.PublicDecksKey(ctx, limit, offset)
	err := cache.Aside(ctx, "public_decks", key, &decks, cache.PublicDecksTTL, func() error {
		var err error
		decks, err = s.decks.ListPublic(ctx, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return decks, nil
}

func (s *DeckService) Update(ctx context.Context, deckID, actingUserID uint, in UpdateDeckInput) (*models.Deck, error) {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeMutation(deck, actingUserID); err != nil {
		return nil, err
	}

	patch, err := deckPatch(in)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return deck, nil
	}

	updated, err := s.decks.Update(ctx, deckID, actingUserID, patch)
	if err != nil {
		return nil, err
	}

	observability.DeckMutations.WithLabelValues("update").Inc()
	invalidateDeck(ctx, deckID)
	return updated, nil
}

func deckPatch(in UpdateDeckInput) (models.DeckPatch, error) {
	var patch models.DeckPatch
	if in.Title != nil {
		title, err := validation.DeckTitle(*in.Title)
		if err != nil {
			return patch, models.NewValidationError(err.Error())
		}
		patch.Title = &title
	}
	if in.Visibility != nil {
		visibility, ok := models.ParseVisibility(*in.Visibility)
		if !ok {
			return patch, models.NewValidationError("visibility must be PUBLIC or PRIVATE")
		}
		patch.Visibility = &visibility
	}
	description, err := validation.DeckDescription(in.Description)
	if err != nil {
		return patch, models.NewValidationError(err.Error())
	}
	patch.Description = description
	category, err := validation.DeckCategory(in.Category)
	if err != nil {
		return patch, models.NewValidationError(err.Error())
	}
	patch.Category = category
	return patch, nil
}

func (s *DeckService) Delete(ctx context.Context, deckID, actingUserID uint) error {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return err
	}
	if err := policy.AuthorizeMutation(deck, actingUserID); err != nil {
		return err
	}

	deleted, err := s.decks.Delete(ctx, deckID, actingUserID)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFoundError("Deck", deckID)
	}

	observability.DeckMutations.WithLabelValues("delete").Inc()
	invalidateDeck(ctx, deckID)
	return nil
}

// invalidateDeck drops every cached view that may include the deck. Call it after
// the write has committed.
func invalidateDeck(ctx context.Context, deckID uint) {
	cache.InvalidateDeck(ctx, deckID)
	cache.InvalidatePublicDecks(ctx)
}
