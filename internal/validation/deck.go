// Package validation holds the input rules applied at the service boundary.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxDeckTitle       = 200
	MaxDeckDescription = 2000
	MaxDeckCategory    = 100
)

// DeckTitle trims raw and checks it is a usable title.
func DeckTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > MaxDeckTitle {
		return "", fmt.Errorf("title must be at most %d characters", MaxDeckTitle)
	}
	return title, nil
}

// DeckDescription trims an optional description. Nil stays nil.
func DeckDescription(raw *string) (*string, error) {
	return optionalText("description", raw, MaxDeckDescription)
}

// DeckCategory trims an optional category. Nil stays nil.
func DeckCategory(raw *string) (*string, error) {
	return optionalText("category", raw, MaxDeckCategory)
}

func optionalText(field string, raw *string, limit int) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*raw)
	if utf8.RuneCountInString(v) > limit {
		return nil, fmt.Errorf("%s must be at most %d characters", field, limit)
	}
	return &v, nil
}
