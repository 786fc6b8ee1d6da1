package models

import "time"

// Card is a single question/answer unit within a deck.
type Card struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DeckID    uint      `gorm:"not null;index:idx_cards_deck_position,priority:1" json:"deck_id"`
	Deck      *Deck     `gorm:"foreignKey:DeckID;constraint:OnDelete:CASCADE" json:"-"`
	Front     string    `gorm:"type:text;not null" json:"front"`
	Back      string    `gorm:"type:text;not null" json:"back"`
	Hint      *string   `gorm:"type:text" json:"hint"`
	Position  *int      `gorm:"index:idx_cards_deck_position,priority:2" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CardOrder is the canonical card ordering: position ascending with nulls last,
// then creation time, then id.
const CardOrder = "position IS NULL, position ASC, created_at ASC, id ASC"

// CardPatch carries the columns of a partial card update. Nil fields are left untouched.
type CardPatch struct {
	Front    *string
	Back     *string
	Hint     *string
	Position *int
	// ClearHint sets the hint to NULL. It wins over Hint.
	ClearHint bool
	// ClearPosition sets the position to NULL, moving the card to the unordered tail.
	ClearPosition bool
}

// IsEmpty reports whether the patch changes nothing.
func (p CardPatch) IsEmpty() bool {
	return p.Front == nil && p.Back == nil && p.Hint == nil && p.Position == nil && !p.ClearHint && !p.ClearPosition
}

// Columns returns the column assignments for the patch.
func (p CardPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 4)
	if p.Front != nil {
		cols["front"] = *p.Front
	}
	if p.Back != nil {
		cols["back"] = *p.Back
	}
	if p.ClearHint {
		cols["hint"] = nil
	} else if p.Hint != nil {
		cols["hint"] = *p.Hint
	}
	if p.ClearPosition {
		cols["position"] = nil
	} else if p.Position != nil {
		cols["position"] = *p.Position
	}
	return cols
}

// CardDraft is one entry of a bulk replace. A nil ID inserts a new card.
type CardDraft struct {
	ID    *uint
	Front string
	Back  string
	Hint  *string
}
