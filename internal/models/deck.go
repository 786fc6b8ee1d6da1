package models

import (
	"strings"
	"time"
)

// Visibility controls who may read a deck.
type Visibility string

const (
	// VisibilityPublic decks are readable by anyone.
	VisibilityPublic Visibility = "PUBLIC"
	// VisibilityPrivate decks are readable only by their owner.
	VisibilityPrivate Visibility = "PRIVATE"
)

// ParseVisibility accepts PUBLIC or PRIVATE in any letter case.
func ParseVisibility(raw string) (Visibility, bool) {
	switch Visibility(strings.ToUpper(strings.TrimSpace(raw))) {
	case VisibilityPublic:
		return VisibilityPublic, true
	case VisibilityPrivate:
		return VisibilityPrivate, true
	}
	return "", false
}

// Deck is a titled, ordered collection of cards owned by one user.
type Deck struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	OwnerID     uint       `gorm:"not null;index" json:"owner_id"`
	Owner       *User      `gorm:"foreignKey:OwnerID" json:"-"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description"`
	Category    *string    `gorm:"size:100" json:"category"`
	Visibility  Visibility `gorm:"size:10;not null;index" json:"visibility"`
	ShareCode   string     `gorm:"size:21;uniqueIndex;not null" json:"share_code"`
	// CardCount is computed by the owned-deck listing.
	CardCount int64 `gorm:"->;-:migration" json:"card_count,omitempty"`
	// OwnerSummary is filled by the public listing.
	OwnerSummary *UserSummary `gorm:"-" json:"owner,omitempty"`
	CreatedAt    time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// DeckPatch carries the columns of a partial deck update. Nil fields are left untouched.
type DeckPatch struct {
	Title       *string
	Description *string
	Category    *string
	Visibility  *Visibility
}

// IsEmpty reports whether the patch changes nothing.
func (p DeckPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil && p.Visibility == nil
}

// Columns returns the column assignments for the patch.
func (p DeckPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 4)
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Category != nil {
		cols["category"] = *p.Category
	}
	if p.Visibility != nil {
		cols["visibility"] = *p.Visibility
	}
	return cols
}

// DeckDetail is the read view of a single deck.
type DeckDetail struct {
	Deck  *Deck        `json:"deck"`
	Cards []Card       `json:"cards"`
	Tags  []Tag        `json:"tags"`
	Owner *UserSummary `json:"owner"`
}
