package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"flashdeck/internal/models"
	"flashdeck/internal/service"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/starter.yaml
var starterDecks []byte

// DeckFile is the YAML document accepted by the deck importer.
type DeckFile struct {
	Decks []DeckFixture `yaml:"decks"`
}

type DeckFixture struct {
	Title       string        `yaml:"title"`
	Description *string       `yaml:"description"`
	Category    *string       `yaml:"category"`
	Visibility  string        `yaml:"visibility"`
	Tags        []string      `yaml:"tags"`
	Cards       []CardFixture `yaml:"cards"`
}

type CardFixture struct {
	Front string  `yaml:"front"`
	Back  string  `yaml:"back"`
	Hint  *string `yaml:"hint"`
}

// ParseDecks decodes a deck file. Unknown keys are rejected so typos surface early.
func ParseDecks(r io.Reader) ([]DeckFixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file DeckFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode deck file: %w", err)
	}
	for i, d := range file.Decks {
		if strings.TrimSpace(d.Title) == "" {
			return nil, fmt.Errorf("decks[%d]: title is required", i)
		}
	}
	return file.Decks, nil
}

// StarterDecks returns the decks bundled with the binary.
func StarterDecks() ([]DeckFixture, error) {
	return ParseDecks(bytes.NewReader(starterDecks))
}

// LoadDeckFile parses the deck file at path.
func LoadDeckFile(path string) ([]DeckFixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ParseDecks(f)
}

// ImportDecks creates every fixture as a deck owned by owner and returns the new decks
// in file order. Visibility defaults to PRIVATE.
func (s *Seeder) ImportDecks(ctx context.Context, owner *models.User, fixtures []DeckFixture) ([]*models.Deck, error) {
	out := make([]*models.Deck, 0, len(fixtures))
	for i, fx := range fixtures {
		visibility := fx.Visibility
		if strings.TrimSpace(visibility) == "" {
			visibility = string(models.VisibilityPrivate)
		}

		deck, err := s.svc.Decks.Create(ctx, owner.ID, service.CreateDeckInput{
			Title:       fx.Title,
			Description: fx.Description,
			Category:    fx.Category,
			Visibility:  visibility,
		})
		if err != nil {
			return nil, fmt.Errorf("decks[%d] %q: %w", i, fx.Title, err)
		}

		drafts := make([]service.CardDraftInput, len(fx.Cards))
		for j, c := range fx.Cards {
			drafts[j] = service.CardDraftInput{Front: c.Front, Back: c.Back, Hint: c.Hint}
		}
		if _, err := s.svc.Cards.ReplaceAll(ctx, deck.ID, owner.ID, drafts); err != nil {
			return nil, fmt.Errorf("decks[%d] %q: %w", i, fx.Title, err)
		}

		for _, tag := range fx.Tags {
			if _, err := s.svc.Tags.Attach(ctx, deck.ID, owner.ID, service.AttachTagInput{Name: tag}); err != nil {
				return nil, fmt.Errorf("decks[%d] %q tag %q: %w", i, fx.Title, tag, err)
			}
		}

		s.logger.Info("imported deck", "title", deck.Title, "cards", len(drafts), "tags", len(fx.Tags))
		out = append(out, deck)
	}
	return out, nil
}
