package repository

import (
	"context"
	"time"

	"flashdeck/internal/models"
	"flashdeck/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	UpsertByExternalID(ctx context.Context, identity models.ExternalIdentity) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Supplied profile fields overwrite, absent ones keep the stored value. updated_at only
// moves when one of them actually changes.
var userUpsertAssignments = clause.Set{
	{Column: clause.Column{Name: "display_name"}, Value: gorm.Expr("COALESCE(excluded.display_name, users.display_name)")},
	{Column: clause.Column{Name: "avatar_url"}, Value: gorm.Expr("COALESCE(excluded.avatar_url, users.avatar_url)")},
	{Column: clause.Column{Name: "email"}, Value: gorm.Expr("COALESCE(excluded.email, users.email)")},
	{Column: clause.Column{Name: "updated_at"}, Value: gorm.Expr(`CASE WHEN
		COALESCE(excluded.display_name, users.display_name) IS DISTINCT FROM users.display_name OR
		COALESCE(excluded.avatar_url, users.avatar_url) IS DISTINCT FROM users.avatar_url OR
		COALESCE(excluded.email, users.email) IS DISTINCT FROM users.email
		THEN excluded.updated_at ELSE users.updated_at END`)},
	{Column: clause.Column{Name: "last_login_at"}, Value: gorm.Expr("excluded.last_login_at")},
}

func (r *userRepository) UpsertByExternalID(ctx context.Context, identity models.ExternalIdentity) (*models.User, error) {
	defer observability.TrackQuery("upsert", "users")()

	now := time.Now().UTC()
	user := models.User{
		ExternalID:  identity.Subject,
		DisplayName: identity.DisplayName,
		AvatarURL:   identity.AvatarURL,
		Email:       identity.Email,
		CreatedAt:   now,
		UpdatedAt:   now,
		LastLoginAt: now,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoUpdates: userUpsertAssignments,
		}).
		Create(&user).Error
	if err != nil {
		return nil, storeError(err, "User", identity.Subject)
	}

	return r.GetByExternalID(ctx, identity.Subject)
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	defer observability.TrackQuery("select", "users")()

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, storeError(err, "User", id)
	}
	return &user, nil
}

func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	defer observability.TrackQuery("select", "users")()

	var user models.User
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error; err != nil {
		return nil, storeError(err, "User", externalID)
	}
	return &user, nil
}
