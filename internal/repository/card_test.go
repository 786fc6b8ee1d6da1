package repository

import (
	"context"
	"testing"

	"flashdeck/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fronts(cards []models.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Front
	}
	return out
}

func TestCardRepository_OrderingNullsLast(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "github|1")
	deck := f.deck(t, owner.ID, "Ordering", models.VisibilityPrivate)

	f.card(t, deck.ID, "three", intPtr(3))
	f.card(t, deck.ID, "one", intPtr(1))
	f.card(t, deck.ID, "none", nil)
	f.card(t, deck.ID, "two", intPtr(2))

	for i := 0; i < 3; i++ {
		cards, err := f.cards.ListForDeck(ctx, deck.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"one", "two", "three", "none"}, fronts(cards))
		assert.Nil(t, cards[3].Position)
	}
}

func TestCardRepository_TiesBrokenByCreation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "github|1")
	deck := f.deck(t, owner.ID, "Ties", models.VisibilityPrivate)

	f.card(t, deck.ID, "first", intPtr(1))
	f.card(t, deck.ID, "second", intPtr(1))
	f.card(t, deck.ID, "late-null", nil)
	f.card(t, deck.ID, "third", intPtr(1))

	cards, err := f.cards.ListForDeck(ctx, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third", "late-null"}, fronts(cards))
}

func TestCardRepository_CreateForMissingDeck(t *testing.T) {
	f := newFixture(t)
	err := f.cards.Create(context.Background(), &models.Card{DeckID: 77, Front: "q", Back: "a"})
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestCardRepository_UpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "github|1")
	deck := f.deck(t, owner.ID, "Edit", models.VisibilityPrivate)
	card := f.card(t, deck.ID, "hola", intPtr(1))

	back := "hi"
	hint := "greeting"
	updated, err := f.cards.Update(ctx, card.ID, models.CardPatch{Back: &back, Hint: &hint, Position: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, "hola", updated.Front)
	assert.Equal(t, "hi", updated.Back)
	assert.Equal(t, "greeting", *updated.Hint)
	assert.Equal(t, 5, *updated.Position)

	_, err = f.cards.Update(ctx, card.ID+50, models.CardPatch{Back: &back})
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	deleted, err := f.cards.Delete(ctx, card.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = f.cards.Delete(ctx, card.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCardRepository_ReplaceAllReconciles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "github|1")
	deck := f.deck(t, owner.ID, "Replace", models.VisibilityPrivate)

	keep := f.card(t, deck.ID, "keep", intPtr(1))
	drop := f.card(t, deck.ID, "drop", intPtr(2))

	result, err := f.cards.ReplaceAllForDeck(ctx, deck.ID, []models.CardDraft{
		{Front: "new first", Back: "b1"},
		{ID: &keep.ID, Front: "keep edited", Back: "b2", Hint: strPtr("h")},
		{Front: "new last", Back: "b3"},
	})
	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, []string{"new first", "keep edited", "new last"}, fronts(result))
	for i, c := range result {
		require.NotNil(t, c.Position)
		assert.Equal(t, i+1, *c.Position)
	}
	assert.Equal(t, keep.ID, result[1].ID)
	assert.Equal(t, "h", *result[1].Hint)

	_, err = f.cards.GetByID(ctx, drop.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	listed, err := f.cards.ListForDeck(ctx, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, fronts(result), fronts(listed))
}

func TestCardRepository_ReplaceAllEmptyClearsDeck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "github|1")
	deck := f.deck(t, owner.ID, "Clear", models.VisibilityPrivate)
	f.card(t, deck.ID, "a", intPtr(1))
	f.card(t, deck.ID, "b", nil)

	result, err := f.cards.ReplaceAllForDeck(ctx, deck.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestCardRepository_ReplaceAllIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "github|1")
	deck := f.deck(t, owner.ID, "Atomic", models.VisibilityPrivate)
	other := f.deck(t, owner.ID, "Other", models.VisibilityPrivate)

	original := f.card(t, deck.ID, "original", intPtr(1))
	foreign := f.card(t, other.ID, "foreign", intPtr(1))

	_, err := f.cards.ReplaceAllForDeck(ctx, deck.ID, []models.CardDraft{
		{Front: "inserted before failure", Back: "x"},
		{ID: &foreign.ID, Front: "steal", Back: "y"},
	})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeValidation))

	cards, err := f.cards.ListForDeck(ctx, deck.ID)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, original.ID, cards[0].ID)
	assert.Equal(t, "original", cards[0].Front)

	untouched, err := f.cards.GetByID(ctx, foreign.ID)
	require.NoError(t, err)
	assert.Equal(t, "foreign", untouched.Front)
	assert.Equal(t, other.ID, untouched.DeckID)
}

func TestCardRepository_ReplaceAllRejectsDuplicateIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "github|1")
	deck := f.deck(t, owner.ID, "Dupes", models.VisibilityPrivate)
	card := f.card(t, deck.ID, "only", intPtr(1))

	_, err := f.cards.ReplaceAllForDeck(ctx, deck.ID, []models.CardDraft{
		{ID: &card.ID, Front: "a", Back: "a"},
		{ID: &card.ID, Front: "b", Back: "b"},
	})
	assert.True(t, models.IsCode(err, models.CodeValidation))

	got, err := f.cards.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "only", got.Front)
}
