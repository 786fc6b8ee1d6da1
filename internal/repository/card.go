package repository

import (
	"context"
	"fmt"

	"flashdeck/internal/models"
	"flashdeck/internal/observability"

	"gorm.io/gorm"
)

// CardRepository defines persistence operations for cards.
type CardRepository interface {
	Create(ctx context.Context, card *models.Card) error
	GetByID(ctx context.Context, id uint) (*models.Card, error)
	ListForDeck(ctx context.Context, deckID uint) ([]models.Card, error)
	Update(ctx context.Context, cardID uint, patch models.CardPatch) (*models.Card, error)
	Delete(ctx context.Context, cardID uint) (bool, error)
	ReplaceAllForDeck(ctx context.Context, deckID uint, drafts []models.CardDraft) ([]models.Card, error)
}

type cardRepository struct {
	db *gorm.DB
}

// NewCardRepository returns a new CardRepository implementation.
func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Create(ctx context.Context, card *models.Card) error {
	defer observability.TrackQuery("insert", "cards")()

	if err := r.db.WithContext(ctx).Create(card).Error; err != nil {
		return storeError(err, "Card", card.DeckID)
	}
	return nil
}

func (r *cardRepository) GetByID(ctx context.Context, id uint) (*models.Card, error) {
	defer observability.TrackQuery("select", "cards")()

	var card models.Card
	if err := r.db.WithContext(ctx).First(&card, id).Error; err != nil {
		return nil, storeError(err, "Card", id)
	}
	return &card, nil
}

func (r *cardRepository) ListForDeck(ctx context.Context, deckID uint) ([]models.Card, error) {
	defer observability.TrackQuery("select", "cards")()

	cards, err := listCards(r.db.WithContext(ctx), deckID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return cards, nil
}

func listCards(db *gorm.DB, deckID uint) ([]models.Card, error) {
	cards := []models.Card{}
	err := db.Where("deck_id = ?", deckID).Order(models.CardOrder).Find(&cards).Error
	return cards, err
}

func (r *cardRepository) Update(ctx context.Context, cardID uint, patch models.CardPatch) (*models.Card, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, cardID)
	}

	done := observability.TrackQuery("update", "cards")
	res := r.db.WithContext(ctx).
		Model(&models.Card{}).
		Where("id = ?", cardID).
		Updates(patch.Columns())
	done()
	if res.Error != nil {
		return nil, storeError(res.Error, "Card", cardID)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Card", cardID)
	}
	return r.GetByID(ctx, cardID)
}

func (r *cardRepository) Delete(ctx context.Context, cardID uint) (bool, error) {
	defer observability.TrackQuery("delete", "cards")()

	res := r.db.WithContext(ctx).Delete(&models.Card{}, cardID)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ReplaceAllForDeck makes drafts the complete, ordered card set of the deck.
// Drafts carrying an id update that card in place, drafts without one are inserted,
// and cards of the deck missing from drafts are deleted. Positions are 1-based draft
// indexes. Either every change commits or none does.
func (r *cardRepository) ReplaceAllForDeck(ctx context.Context, deckID uint, drafts []models.CardDraft) ([]models.Card, error) {
	defer observability.TrackQuery("replace", "cards")()

	var result []models.Card
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existingIDs []uint
		if err := tx.Model(&models.Card{}).Where("deck_id = ?", deckID).Pluck("id", &existingIDs).Error; err != nil {
			return err
		}
		owned := make(map[uint]bool, len(existingIDs))
		for _, id := range existingIDs {
			owned[id] = true
		}

		kept := make([]uint, 0, len(drafts))
		seen := make(map[uint]bool, len(drafts))
		for i, draft := range drafts {
			position := i + 1

			if draft.ID == nil {
				card := models.Card{
					DeckID:   deckID,
					Front:    draft.Front,
					Back:     draft.Back,
					Hint:     draft.Hint,
					Position: &position,
				}
				if err := tx.Create(&card).Error; err != nil {
					return err
				}
				kept = append(kept, card.ID)
				continue
			}

			id := *draft.ID
			if !owned[id] {
				return models.NewValidationError(fmt.Sprintf("cards[%d]: card %d does not belong to deck %d", i, id, deckID))
			}
			if seen[id] {
				return models.NewValidationError(fmt.Sprintf("cards[%d]: card %d appears more than once", i, id))
			}
			seen[id] = true

			err := tx.Model(&models.Card{}).
				Where("id = ? AND deck_id = ?", id, deckID).
				Updates(map[string]interface{}{
					"front":    draft.Front,
					"back":     draft.Back,
					"hint":     draft.Hint,
					"position": position,
				}).Error
			if err != nil {
				return err
			}
			kept = append(kept, id)
		}

		stale := tx.Where("deck_id = ?", deckID)
		if len(kept) > 0 {
			stale = stale.Where("id NOT IN ?", kept)
		}
		if err := stale.Delete(&models.Card{}).Error; err != nil {
			return err
		}

		cards, err := listCards(tx, deckID)
		if err != nil {
			return err
		}
		result = cards
		return nil
	})
	if err != nil {
		return nil, storeError(err, "Card", deckID)
	}
	return result, nil
}
