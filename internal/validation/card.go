package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	MaxCardText = 4000
	MaxCardHint = 1000
)

// Card text may carry light formatting; anything unsafe to render is stripped.
var cardPolicy = bluemonday.UGCPolicy().
	AllowElements("math", "span").
	AllowAttrs("class").OnElements("span")

// SanitizeCardText returns raw with unsafe markup removed and surrounding space trimmed.
func SanitizeCardText(raw string) string {
	return strings.TrimSpace(cardPolicy.Sanitize(raw))
}

func requiredCardText(field, raw string) (string, error) {
	v := SanitizeCardText(raw)
	if v == "" {
		return "", fmt.Errorf("%s is required", field)
	}
	if utf8.RuneCountInString(v) > MaxCardText {
		return "", fmt.Errorf("%s must be at most %d characters", field, MaxCardText)
	}
	return v, nil
}

// CardFront sanitizes and checks the question side of a card.
func CardFront(raw string) (string, error) {
	return requiredCardText("front", raw)
}

// CardBack sanitizes and checks the answer side of a card.
func CardBack(raw string) (string, error) {
	return requiredCardText("back", raw)
}

// CardHint sanitizes an optional hint. A hint that is blank after sanitizing becomes nil.
func CardHint(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	v := SanitizeCardText(*raw)
	if v == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(v) > MaxCardHint {
		return nil, fmt.Errorf("hint must be at most %d characters", MaxCardHint)
	}
	return &v, nil
}
