// Command main seeds a development database with demo users and decks.
package main

import (
	"context"
	"flag"
	"log"

	"flashdeck/internal/config"
	"flashdeck/internal/database"
	"flashdeck/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of fake users to create")
	decksPerUser := flag.Int("decks", 3, "Decks per fake user")
	cardsPerDeck := flag.Int("cards", 12, "Cards per fake deck")
	seedValue := flag.Int64("seed", 1, "Random seed for generated content")
	file := flag.String("file", "", "YAML deck file to import (defaults to the bundled starter decks)")
	shouldClean := flag.Bool("clean", false, "Delete all users, decks, cards and tags first")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Env == "production" {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	fixtures, err := seed.StarterDecks()
	if *file != "" {
		fixtures, err = seed.LoadDeckFile(*file)
	}
	if err != nil {
		log.Fatalf("Failed to read decks: %v", err)
	}

	curator, err := s.Curator(ctx)
	if err != nil {
		log.Fatalf("Failed to create curator: %v", err)
	}
	if _, err := s.ImportDecks(ctx, curator, fixtures); err != nil {
		log.Fatalf("Deck import failed: %v", err)
	}

	if _, err := s.SeedDemo(ctx, seed.Options{
		Users:        *numUsers,
		DecksPerUser: *decksPerUser,
		CardsPerDeck: *cardsPerDeck,
		Seed:         *seedValue,
	}); err != nil {
		log.Fatalf("Demo seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
