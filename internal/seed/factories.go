// Package seed creates demo and fixture data for development databases.
// Everything is written through the service layer so seeded rows obey the same
// validation, ordering and ownership rules as API traffic.
package seed

import (
	"context"
	"fmt"
	"strings"

	"flashdeck/internal/models"
	"flashdeck/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

var categories = []string{
	"Languages", "Science", "History", "Geography", "Programming", "Music", "Art", "Math",
}

// Factory builds users, decks and cards from a gofakeit source.
type Factory struct {
	svc   *Services
	faker *gofakeit.Faker
}

// NewFactory returns a factory; the same seed yields the same sequence of fake values.
func NewFactory(svc *Services, seed int64) *Factory {
	return &Factory{svc: svc, faker: gofakeit.New(seed)}
}

// CreateUser resolves a fresh seed identity into a user row.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.ExternalIdentity)) (*models.User, error) {
	name := f.faker.Name()
	email := f.faker.Email()
	avatar := fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID())
	identity := models.ExternalIdentity{
		Subject:     SubjectPrefix + f.faker.UUID(),
		DisplayName: &name,
		Email:       &email,
		AvatarURL:   &avatar,
	}
	for _, override := range overrides {
		override(&identity)
	}
	return f.svc.Identity.Resolve(ctx, identity)
}

// DeckDraft returns a random deck description without persisting it.
func (f *Factory) DeckDraft() service.CreateDeckInput {
	description := f.faker.Sentence(8)
	category := f.faker.RandomString(categories)
	visibility := models.VisibilityPrivate
	if f.faker.Number(1, 100) <= 60 {
		visibility = models.VisibilityPublic
	}
	return service.CreateDeckInput{
		Title:       titleCase(f.faker.Adjective() + " " + f.faker.Noun()),
		Description: &description,
		Category:    &category,
		Visibility:  string(visibility),
	}
}

// CardDrafts returns n random cards; roughly a third carry a hint.
func (f *Factory) CardDrafts(n int) []service.CardDraftInput {
	drafts := make([]service.CardDraftInput, 0, n)
	for i := 0; i < n; i++ {
		d := service.CardDraftInput{
			Front: f.faker.Question(),
			Back:  f.faker.Sentence(f.faker.Number(2, 6)),
		}
		if f.faker.Number(1, 3) == 1 {
			hint := f.faker.Word()
			d.Hint = &hint
		}
		drafts = append(drafts, d)
	}
	return drafts
}

// CreateDeck persists a random deck for owner with cardCount cards and up to two tags.
func (f *Factory) CreateDeck(ctx context.Context, owner *models.User, cardCount int, overrides ...func(*service.CreateDeckInput)) (*models.Deck, error) {
	in := f.DeckDraft()
	for _, override := range overrides {
		override(&in)
	}

	deck, err := f.svc.Decks.Create(ctx, owner.ID, in)
	if err != nil {
		return nil, fmt.Errorf("create deck: %w", err)
	}
	if cardCount > 0 {
		if _, err := f.svc.Cards.ReplaceAll(ctx, deck.ID, owner.ID, f.CardDrafts(cardCount)); err != nil {
			return nil, fmt.Errorf("fill deck %d: %w", deck.ID, err)
		}
	}

	var tagNames []string
	if in.Category != nil {
		tagNames = append(tagNames, *in.Category)
	}
	if f.faker.Bool() {
		tagNames = append(tagNames, titleCase(f.faker.HipsterWord()))
	}
	for _, name := range tagNames {
		if _, err := f.svc.Tags.Attach(ctx, deck.ID, owner.ID, service.AttachTagInput{Name: name}); err != nil {
			return nil, fmt.Errorf("tag deck %d: %w", deck.ID, err)
		}
	}
	return deck, nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
