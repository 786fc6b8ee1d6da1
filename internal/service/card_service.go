package service

import (
	"context"
	"fmt"

	"flashdeck/internal/models"
	"flashdeck/internal/observability"
	"flashdeck/internal/policy"
	"flashdeck/internal/repository"
	"flashdeck/internal/validation"
)

// CardService implements card use cases. Every card is authorized through its parent deck.
type CardService struct {
	decks repository.DeckRepository
	cards repository.CardRepository
}

type CreateCardInput struct {
	Front    string
	Back     string
	Hint     *string
	Position *int
}

// UpdateCardInput holds the fields of a partial update; nil fields are left unchanged.
// ClearPosition unsets the position and takes precedence over Position.
type UpdateCardInput struct {
	Front         *string
	Back          *string
	Hint          *string
	Position      *int
	ClearPosition bool
}

// CardDraftInput is one entry of a bulk replace, in display order.
type CardDraftInput struct {
	ID    *uint
	Front string
	Back  string
	Hint  *string
}

func NewCardService(decks repository.DeckRepository, cards repository.CardRepository) *CardService {
	return &CardService{decks: decks, cards: cards}
}

func (s *CardService) Create(ctx context.Context, deckID, actingUserID uint, in CreateCardInput) (*models.Card, error) {
	front, err := validation.CardFront(in.Front)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	back, err := validation.CardBack(in.Back)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	hint, err := validation.CardHint(in.Hint)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if _, err := s.ownedDeck(ctx, deckID, actingUserID); err != nil {
		return nil, err
	}

	card := &models.Card{
		DeckID:   deckID,
		Front:    front,
		Back:     back,
		Hint:     hint,
		Position: in.Position,
	}
	if err := s.cards.Create(ctx, card); err != nil {
		return nil, err
	}

	observability.CardMutations.WithLabelValues("create").Inc()
	invalidateDeck(ctx, deckID)
	return card, nil
}

func (s *CardService) ListForDeck(ctx context.Context, deckID uint, viewerID *uint) ([]models.Card, error) {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeRead(deck, viewerID); err != nil {
		return nil, err
	}
	return s.cards.ListForDeck(ctx, deckID)
}

func (s *CardService) Update(ctx context.Context, cardID, actingUserID uint, in UpdateCardInput) (*models.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedDeck(ctx, card.DeckID, actingUserID); err != nil {
		return nil, err
	}

	var patch models.CardPatch
	if in.Front != nil {
		front, err := validation.CardFront(*in.Front)
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		patch.Front = &front
	}
	if in.Back != nil {
		back, err := validation.CardBack(*in.Back)
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		patch.Back = &back
	}
	if in.Hint != nil {
		hint, err := validation.CardHint(in.Hint)
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		patch.Hint = hint
		patch.ClearHint = hint == nil
	}
	patch.Position = in.Position
	patch.ClearPosition = in.ClearPosition

	if patch.IsEmpty() {
		return card, nil
	}

	updated, err := s.cards.Update(ctx, cardID, patch)
	if err != nil {
		return nil, err
	}

	observability.CardMutations.WithLabelValues("update").Inc()
	invalidateDeck(ctx, card.DeckID)
	return updated, nil
}

func (s *CardService) Delete(ctx context.Context, cardID, actingUserID uint) error {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return err
	}
	if _, err := s.ownedDeck(ctx, card.DeckID, actingUserID); err != nil {
		return err
	}

	deleted, err := s.cards.Delete(ctx, cardID)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFoundError("Card", cardID)
	}

	observability.CardMutations.WithLabelValues("delete").Inc()
	invalidateDeck(ctx, card.DeckID)
	return nil
}

// ReplaceAll makes drafts the complete card list of the deck, in order. Every draft is
// validated before anything is written; one bad draft rejects the whole request.
func (s *CardService) ReplaceAll(ctx context.Context, deckID, actingUserID uint, drafts []CardDraftInput) (_ []models.Card, err error) {
	clean, err := validateDrafts(drafts)
	if err != nil {
		return nil, err
	}

	ctx, span := observability.StartSpan(ctx, "cards.replace_all",
		observability.DeckAttr(deckID),
		observability.CardCountAttr(len(clean)),
	)
	defer func() { observability.EndSpan(span, err) }()

	if _, err := s.ownedDeck(ctx, deckID, actingUserID); err != nil {
		return nil, err
	}

	observability.CardReplaceSize.Observe(float64(len(clean)))
	cards, err := s.cards.ReplaceAllForDeck(ctx, deckID, clean)
	if err != nil {
		return nil, err
	}

	observability.CardMutations.WithLabelValues("replace").Inc()
	invalidateDeck(ctx, deckID)
	return cards, nil
}

func validateDrafts(drafts []CardDraftInput) ([]models.CardDraft, error) {
	clean := make([]models.CardDraft, 0, len(drafts))
	for i, d := range drafts {
		front, err := validation.CardFront(d.Front)
		if err != nil {
			return nil, models.NewValidationError(fmt.Sprintf("cards[%d].front: %v", i, err))
		}
		back, err := validation.CardBack(d.Back)
		if err != nil {
			return nil, models.NewValidationError(fmt.Sprintf("cards[%d].back: %v", i, err))
		}
		hint, err := validation.CardHint(d.Hint)
		if err != nil {
			return nil, models.NewValidationError(fmt.Sprintf("cards[%d].hint: %v", i, err))
		}
		clean = append(clean, models.CardDraft{ID: d.ID, Front: front, Back: back, Hint: hint})
	}
	return clean, nil
}

func (s *CardService) ownedDeck(ctx context.Context, deckID, actingUserID uint) (*models.Deck, error) {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeMutation(deck, actingUserID); err != nil {
		return nil, err
	}
	return deck, nil
}
