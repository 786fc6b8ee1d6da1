package repository

import (
	"context"
	"errors"

	"flashdeck/internal/models"
	"flashdeck/internal/observability"

	"gorm.io/gorm"
)

// DeckRepository defines persistence operations for decks.
type DeckRepository interface {
	Create(ctx context.Context, deck *models.Deck) error
	GetByID(ctx context.Context, id uint) (*models.Deck, error)
	GetByShareCode(ctx context.Context, code string) (*models.Deck, error)
	ListOwnedBy(ctx context.Context, ownerID uint) ([]models.Deck, error)
	ListPublic(ctx context.Context, limit, offset int) ([]models.Deck, error)
	Update(ctx context.Context, deckID, ownerID uint, patch models.DeckPatch) (*models.Deck, error)
	Delete(ctx context.Context, deckID, ownerID uint) (bool, error)
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

const deckListOrder = "decks.created_at DESC, decks.id DESC"

var errNoDeckRow = errors.New("no deck row matched")

type deckRepository struct {
	db *gorm.DB
}

// NewDeckRepository returns a new DeckRepository implementation.
func NewDeckRepository(db *gorm.DB) DeckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) Create(ctx context.Context, deck *models.Deck) error {
	defer observability.TrackQuery("insert", "decks")()

	if err := r.db.WithContext(ctx).Create(deck).Error; err != nil {
		return storeError(err, "Deck", deck.ShareCode)
	}
	return nil
}

func (r *deckRepository) GetByID(ctx context.Context, id uint) (*models.Deck, error) {
	defer observability.TrackQuery("select", "decks")()

	var deck models.Deck
	if err := r.db.WithContext(ctx).First(&deck, id).Error; err != nil {
		return nil, storeError(err, "Deck", id)
	}
	return &deck, nil
}

func (r *deckRepository) GetByShareCode(ctx context.Context, code string) (*models.Deck, error) {
	defer observability.TrackQuery("select", "decks")()

	var deck models.Deck
	if err := r.db.WithContext(ctx).Where("share_code = ?", code).First(&deck).Error; err != nil {
		return nil, storeError(err, "Deck", code)
	}
	return &deck, nil
}

func (r *deckRepository) ListOwnedBy(ctx context.Context, ownerID uint) ([]models.Deck, error) {
	defer observability.TrackQuery("select", "decks")()

	decks := []models.Deck{}
	err := r.db.WithContext(ctx).
		Model(&models.Deck{}).
		Select("decks.*, (SELECT COUNT(*) FROM cards WHERE cards.deck_id = decks.id) AS card_count").
		Where("decks.owner_id = ?", ownerID).
		Order(deckListOrder).
		Find(&decks).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return decks, nil
}

func (r *deckRepository) ListPublic(ctx context.Context, limit, offset int) ([]models.Deck, error) {
	defer observability.TrackQuery("select", "decks")()

	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	decks := []models.Deck{}
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("decks.visibility = ?", models.VisibilityPublic).
		Order(deckListOrder).
		Limit(limit).
		Offset(offset).
		Find(&decks).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range decks {
		decks[i].OwnerSummary = decks[i].Owner.Summary()
		decks[i].Owner = nil
	}
	return decks, nil
}

// Update writes only the columns present in patch, scoped to the owner.
func (r *deckRepository) Update(ctx context.Context, deckID, ownerID uint, patch models.DeckPatch) (*models.Deck, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, deckID)
	}

	done := observability.TrackQuery("update", "decks")
	res := r.db.WithContext(ctx).
		Model(&models.Deck{}).
		Where("id = ? AND owner_id = ?", deckID, ownerID).
		Updates(patch.Columns())
	done()
	if res.Error != nil {
		return nil, storeError(res.Error, "Deck", deckID)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Deck", deckID)
	}
	return r.GetByID(ctx, deckID)
}

// Delete removes the deck with its tag links and cards in one transaction. It reports
// false, deleting nothing, when no deck with that id belongs to ownerID.
func (r *deckRepository) Delete(ctx context.Context, deckID, ownerID uint) (bool, error) {
	defer observability.TrackQuery("delete", "decks")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("deck_id = ?", deckID).Delete(&models.DeckTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("deck_id = ?", deckID).Delete(&models.Card{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND owner_id = ?", deckID, ownerID).Delete(&models.Deck{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNoDeckRow
		}
		return nil
	})
	if errors.Is(err, errNoDeckRow) {
		return false, nil
	}
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return true, nil
}
