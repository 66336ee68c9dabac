// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// Account represents a registered account.
type Account struct {
	// ID is the unique identifier for the account. Session tokens carry it as the "id" claim.
	ID uint `gorm:"primaryKey"`

	// Username must be unique across all accounts.
	Username string `gorm:"uniqueIndex;size:255;not null"`

	// Email is the account's email address used for login and as the natural key
	// that events store as their creator.
	// It must be unique across all accounts.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt hash of the account's password.
	// This never stores plaintext and is never serialized.
	Password string `gorm:"size:255;not null" json:"-"`

	// ProfilePicture is the URL of the profile image in object storage, or nil.
	ProfilePicture *string `gorm:"size:1024"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the account was last updated.
	UpdatedAt time.Time
}
