package repository

import (
	"context"
	"time"

	"flashdeck/internal/models"
	"flashdeck/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepository defines persistence operations for tags and deck-tag links.
type TagRepository interface {
	CreateOrGetByName(ctx context.Context, name string, slug *string) (*models.Tag, error)
	GetByID(ctx context.Context, id uint) (*models.Tag, error)
	List(ctx context.Context) ([]models.Tag, error)
	Attach(ctx context.Context, deckID, tagID uint) error
	Detach(ctx context.Context, deckID, tagID uint) error
	ListForDeck(ctx context.Context, deckID uint) ([]models.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository returns a new TagRepository implementation.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// CreateOrGetByName inserts the tag or touches the existing row with that name.
// A stored slug is never replaced.
func (r *tagRepository) CreateOrGetByName(ctx context.Context, name string, slug *string) (*models.Tag, error) {
	defer observability.TrackQuery("upsert", "tags")()

	now := time.Now().UTC()
	tag := models.Tag{Name: name, Slug: slug, CreatedAt: now, UpdatedAt: now}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.Set{
				{Column: clause.Column{Name: "slug"}, Value: gorm.Expr("COALESCE(tags.slug, excluded.slug)")},
				{Column: clause.Column{Name: "updated_at"}, Value: gorm.Expr("excluded.updated_at")},
			},
		}).
		Create(&tag).Error
	if err != nil {
		return nil, storeError(err, "Tag", name)
	}

	var stored models.Tag
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&stored).Error; err != nil {
		return nil, storeError(err, "Tag", name)
	}
	return &stored, nil
}

func (r *tagRepository) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	defer observability.TrackQuery("select", "tags")()

	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, storeError(err, "Tag", id)
	}
	return &tag, nil
}

func (r *tagRepository) List(ctx context.Context) ([]models.Tag, error) {
	defer observability.TrackQuery("select", "tags")()

	tags := []models.Tag{}
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

// Attach links the tag to the deck. Linking an already linked pair is a no-op.
func (r *tagRepository) Attach(ctx context.Context, deckID, tagID uint) error {
	defer observability.TrackQuery("insert", "deck_tags")()

	link := models.DeckTag{DeckID: deckID, TagID: tagID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&link).Error
	if err != nil {
		return storeError(err, "Deck tag", tagID)
	}
	return nil
}

// Detach removes the link if present.
func (r *tagRepository) Detach(ctx context.Context, deckID, tagID uint) error {
	defer observability.TrackQuery("delete", "deck_tags")()

	err := r.db.WithContext(ctx).
		Where("deck_id = ? AND tag_id = ?", deckID, tagID).
		Delete(&models.DeckTag{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *tagRepository) ListForDeck(ctx context.Context, deckID uint) ([]models.Tag, error) {
	defer observability.TrackQuery("select", "tags")()

	tags := []models.Tag{}
	err := r.db.WithContext(ctx).
		Joins("JOIN deck_tags ON deck_tags.tag_id = tags.id").
		Where("deck_tags.deck_id = ?", deckID).
		Order("tags.name ASC").
		Find(&tags).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}
