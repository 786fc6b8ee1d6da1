package database

import "flashdeck/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Deck{},
		&models.Card{},
		&models.Tag{},
		&models.DeckTag{},
	}
}
