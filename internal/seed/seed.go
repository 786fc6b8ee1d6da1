package seed

import (
	"context"
	"fmt"
	"log/slog"

	"flashdeck/internal/middleware"
	"flashdeck/internal/models"
	"flashdeck/internal/repository"
	"flashdeck/internal/service"

	"gorm.io/gorm"
)

// SubjectPrefix marks identities created by the seeder.
const SubjectPrefix = "seed|"

// CuratorSubject owns imported fixture decks.
const CuratorSubject = SubjectPrefix + "curator"

// Options controls the size of a demo run.
type Options struct {
	Users        int
	DecksPerUser int
	CardsPerDeck int
	Seed         int64
}

// Services bundles the use cases the seeder writes through.
type Services struct {
	Identity *service.IdentityService
	Decks    *service.DeckService
	Cards    *service.CardService
	Tags     *service.TagService
}

// NewServices wires the service layer over db.
func NewServices(db *gorm.DB) *Services {
	users := repository.NewUserRepository(db)
	decks := repository.NewDeckRepository(db)
	cards := repository.NewCardRepository(db)
	tags := repository.NewTagRepository(db)
	return &Services{
		Identity: service.NewIdentityService(users),
		Decks:    service.NewDeckService(decks, cards, tags, users),
		Cards:    service.NewCardService(decks, cards),
		Tags:     service.NewTagService(decks, tags),
	}
}

type Seeder struct {
	db     *gorm.DB
	svc    *Services
	logger *slog.Logger
}

func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, svc: NewServices(db), logger: middleware.Logger}
}

// ClearAll removes every user, deck, card and tag, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.DeckTag{}, &models.Card{}, &models.Deck{}, &models.Tag{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}

// Curator resolves the user that owns imported fixture decks.
func (s *Seeder) Curator(ctx context.Context) (*models.User, error) {
	name := "Flashdeck Curator"
	return s.svc.Identity.Resolve(ctx, models.ExternalIdentity{Subject: CuratorSubject, DisplayName: &name})
}

// SeedDemo creates opts.Users fake users, each owning opts.DecksPerUser decks.
func (s *Seeder) SeedDemo(ctx context.Context, opts Options) ([]*models.User, error) {
	factory := NewFactory(s.svc, opts.Seed)

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user, err := factory.CreateUser(ctx)
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		for j := 0; j < opts.DecksPerUser; j++ {
			if _, err := factory.CreateDeck(ctx, user, opts.CardsPerDeck); err != nil {
				return nil, err
			}
		}
		users = append(users, user)
	}

	s.logger.Info("demo data seeded",
		slog.Int("users", len(users)),
		slog.Int("decks", len(users)*opts.DecksPerUser),
	)
	return users, nil
}
