// Package models contains data structures for the application's domain models.
package models

import "time"

// User is the local account behind a federated identity.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ExternalID  string    `gorm:"size:255;uniqueIndex;not null" json:"external_id"`
	DisplayName *string   `gorm:"size:255" json:"display_name"`
	AvatarURL   *string   `gorm:"type:text" json:"avatar_url"`
	Email       *string   `gorm:"size:320" json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}

// UserSummary is the public projection of a deck owner.
type UserSummary struct {
	ID          uint    `json:"id"`
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

// Summary returns the public projection of u.
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, DisplayName: u.DisplayName, AvatarURL: u.AvatarURL}
}

// ExternalIdentity is a verified assertion from an identity provider.
type ExternalIdentity struct {
	Subject     string
	Email       *string
	DisplayName *string
	AvatarURL   *string
}
