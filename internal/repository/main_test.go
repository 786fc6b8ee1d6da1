package repository

import (
	"context"
	"regexp"
	"testing"

	"flashdeck/internal/models"
	"flashdeck/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func quote(sql string) string {
	return regexp.QuoteMeta(sql)
}

// fixture bundles a fresh SQLite schema with repositories bound to it.
type fixture struct {
	db    *gorm.DB
	users UserRepository
	decks DeckRepository
	cards CardRepository
	tags  TagRepository
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewSQLiteDB(t)
	return &fixture{
		db:    db,
		users: NewUserRepository(db),
		decks: NewDeckRepository(db),
		cards: NewCardRepository(db),
		tags:  NewTagRepository(db),
	}
}

func (f *fixture) user(t *testing.T, subject string) *models.User {
	t.Helper()
	u, err := f.users.UpsertByExternalID(context.Background(), models.ExternalIdentity{Subject: subject})
	require.NoError(t, err)
	return u
}

func (f *fixture) deck(t *testing.T, ownerID uint, title string, visibility models.Visibility) *models.Deck {
	t.Helper()
	d := &models.Deck{
		OwnerID:    ownerID,
		Title:      title,
		Visibility: visibility,
		ShareCode:  gonanoid.Must(12),
	}
	require.NoError(t, f.decks.Create(context.Background(), d))
	return d
}

func (f *fixture) card(t *testing.T, deckID uint, front string, position *int) *models.Card {
	t.Helper()
	c := &models.Card{DeckID: deckID, Front: front, Back: front + " back", Position: position}
	require.NoError(t, f.cards.Create(context.Background(), c))
	return c
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
