package repository

import (
	"context"
	"testing"
	"time"

	"flashdeck/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_UpsertIsSingleStatement(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)INSERT INTO "users" .* ON CONFLICT \("external_id"\) DO UPDATE SET .*COALESCE\(excluded\.display_name, users\.display_name\).*IS DISTINCT FROM.*RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()
	mock.ExpectQuery(quote(`SELECT * FROM "users" WHERE external_id = $1 ORDER BY "users"."id" LIMIT $2`)).
		WithArgs("github|42", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "external_id", "display_name"}).AddRow(7, "github|42", "Ada"))

	user, err := repo.UpsertByExternalID(context.Background(), models.ExternalIdentity{
		Subject:     "github|42",
		DisplayName: strPtr("Ada"),
	})
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	assert.Equal(t, "Ada", *user.DisplayName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(quote(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
		WithArgs(99, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 99)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpsertIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	identity := models.ExternalIdentity{
		Subject:     "auth0|abc",
		Email:       strPtr("ada@example.com"),
		DisplayName: strPtr("Ada"),
	}

	first, err := f.users.UpsertByExternalID(ctx, identity)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := f.users.UpsertByExternalID(ctx, identity)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.UpdatedAt.Equal(second.UpdatedAt), "unchanged profile must not bump updated_at")
	assert.True(t, second.LastLoginAt.After(first.LastLoginAt))

	var count int64
	require.NoError(t, f.db.Model(&models.User{}).Where("external_id = ?", "auth0|abc").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository_UpsertMergesProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.users.UpsertByExternalID(ctx, models.ExternalIdentity{
		Subject:     "github|7",
		Email:       strPtr("old@example.com"),
		DisplayName: strPtr("Old Name"),
		AvatarURL:   strPtr("https://avatars.example.com/7"),
	})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	second, err := f.users.UpsertByExternalID(ctx, models.ExternalIdentity{
		Subject:     "github|7",
		DisplayName: strPtr("New Name"),
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "New Name", *second.DisplayName)
	require.NotNil(t, second.Email)
	assert.Equal(t, "old@example.com", *second.Email)
	require.NotNil(t, second.AvatarURL)
	assert.Equal(t, "https://avatars.example.com/7", *second.AvatarURL)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt))
}

func TestUserRepository_DistinctSubjects(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "github|1")
	b := f.user(t, "github|2")
	assert.NotEqual(t, a.ID, b.ID)

	got, err := f.users.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "github|2", got.ExternalID)

	_, err = f.users.GetByExternalID(context.Background(), "github|3")
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}
