package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxTagName = 50
	MaxTagSlug = 60
)

var (
	tagSlugRegex  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	slugSeparator = regexp.MustCompile(`[^a-z0-9]+`)
)

// TagName trims raw and checks its length.
func TagName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("tag name is required")
	}
	if utf8.RuneCountInString(name) > MaxTagName {
		return "", fmt.Errorf("tag name must be at most %d characters", MaxTagName)
	}
	return name, nil
}

// ValidateTagSlug checks slug is lowercase words joined by single hyphens.
func ValidateTagSlug(slug string) error {
	if len(slug) > MaxTagSlug {
		return fmt.Errorf("slug must be at most %d characters", MaxTagSlug)
	}
	if !tagSlugRegex.MatchString(slug) {
		return fmt.Errorf("slug must contain only lowercase letters, numbers, and single hyphens")
	}
	return nil
}

// Slugify derives a slug from a tag name. It returns "" when nothing usable remains.
func Slugify(name string) string {
	slug := slugSeparator.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > MaxTagSlug {
		slug = strings.TrimRight(slug[:MaxTagSlug], "-")
	}
	return slug
}
