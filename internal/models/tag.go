package models

import "time"

// Tag is a free-form label shared across decks.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Slug      *string   `gorm:"size:60" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeckTag associates a deck with a tag.
type DeckTag struct {
	DeckID    uint      `gorm:"primaryKey;autoIncrement:false" json:"deck_id"`
	Deck      *Deck     `gorm:"foreignKey:DeckID;constraint:OnDelete:CASCADE" json:"-"`
	TagID     uint      `gorm:"primaryKey;autoIncrement:false;index" json:"tag_id"`
	Tag       *Tag      `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for DeckTag.
func (DeckTag) TableName() string {
	return "deck_tags"
}
