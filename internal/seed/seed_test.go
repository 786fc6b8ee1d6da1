package seed

import (
	"context"
	"strings"
	"testing"

	"flashdeck/internal/models"
	"flashdeck/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecks(t *testing.T) {
	doc := `
decks:
  - title: Colors
    visibility: PUBLIC
    tags: [Art]
    cards:
      - front: rojo
        back: red
        hint: tomato
      - front: azul
        back: blue
`
	decks, err := ParseDecks(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, "Colors", decks[0].Title)
	assert.Equal(t, []string{"Art"}, decks[0].Tags)
	require.Len(t, decks[0].Cards, 2)
	assert.Equal(t, "tomato", *decks[0].Cards[0].Hint)
	assert.Nil(t, decks[0].Cards[1].Hint)
}

func TestParseDecks_Rejects(t *testing.T) {
	_, err := ParseDecks(strings.NewReader("decks:\n  - title: X\n    colour: red\n"))
	assert.Error(t, err)

	_, err = ParseDecks(strings.NewReader("decks:\n  - title: '  '\n"))
	assert.ErrorContains(t, err, "decks[0]: title is required")

	decks, err := ParseDecks(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, decks)
}

func TestStarterDecks(t *testing.T) {
	decks, err := StarterDecks()
	require.NoError(t, err)
	require.NotEmpty(t, decks)
	assert.Equal(t, "Spanish Basics", decks[0].Title)
}

func TestImportDecks(t *testing.T) {
	ctx := context.Background()
	s := NewSeeder(testutil.NewSQLiteDB(t))

	curator, err := s.Curator(ctx)
	require.NoError(t, err)
	again, err := s.Curator(ctx)
	require.NoError(t, err)
	assert.Equal(t, curator.ID, again.ID)

	fixtures, err := StarterDecks()
	require.NoError(t, err)
	decks, err := s.ImportDecks(ctx, curator, fixtures)
	require.NoError(t, err)
	require.Len(t, decks, len(fixtures))

	detail, err := s.svc.Decks.Get(ctx, decks[0].ID, &curator.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPublic, detail.Deck.Visibility)
	require.Len(t, detail.Cards, len(fixtures[0].Cards))
	for i, c := range detail.Cards {
		assert.Equal(t, fixtures[0].Cards[i].Front, c.Front)
		assert.Equal(t, i+1, *c.Position)
	}
	assert.Len(t, detail.Tags, len(fixtures[0].Tags))
}

func TestImportDecks_DefaultsToPrivate(t *testing.T) {
	ctx := context.Background()
	s := NewSeeder(testutil.NewSQLiteDB(t))
	curator, err := s.Curator(ctx)
	require.NoError(t, err)

	decks, err := s.ImportDecks(ctx, curator, []DeckFixture{{Title: "Quiet", Cards: []CardFixture{{Front: "a", Back: "b"}}}})
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPrivate, decks[0].Visibility)

	_, err = s.ImportDecks(ctx, curator, []DeckFixture{{Title: "Broken", Cards: []CardFixture{{Front: "a", Back: " "}}}})
	assert.ErrorContains(t, err, `decks[0] "Broken"`)
}

func TestSeedDemo(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	s := NewSeeder(db)

	users, err := s.SeedDemo(ctx, Options{Users: 3, DecksPerUser: 2, CardsPerDeck: 4, Seed: 42})
	require.NoError(t, err)
	require.Len(t, users, 3)
	for _, u := range users {
		assert.True(t, strings.HasPrefix(u.ExternalID, SubjectPrefix))
	}

	var decks, cards int64
	require.NoError(t, db.Model(&models.Deck{}).Count(&decks).Error)
	require.NoError(t, db.Model(&models.Card{}).Count(&cards).Error)
	assert.Equal(t, int64(6), decks)
	assert.Equal(t, int64(24), cards)

	require.NoError(t, s.ClearAll(ctx))
	var users2 int64
	require.NoError(t, db.Model(&models.User{}).Count(&users2).Error)
	assert.Zero(t, users2)
}
