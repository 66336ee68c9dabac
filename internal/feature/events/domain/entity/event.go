// Package entity defines the domain entities for the events feature.
package entity

import "time"

// Event represents a scheduled event and its ordered attachments.
type Event struct {
	// ID is the row identifier. Clients address events by EventID.
	ID uint `gorm:"primaryKey" json:"id"`

	// EventID is a uuid v4 assigned at creation. It never changes.
	EventID string `gorm:"uniqueIndex;size:36;not null" json:"event_id"`

	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Date        time.Time `gorm:"not null" json:"date"`
	Location    string    `gorm:"size:255;not null" json:"location"`
	Category    string    `gorm:"size:255;not null" json:"category"`

	// MaxAttendees is always greater than zero.
	MaxAttendees int `gorm:"not null" json:"max_attendees"`

	// Attendees holds account IDs. It is empty at creation and nothing in this service appends to it.
	Attendees []uint `gorm:"serializer:json" json:"attendees"`

	// CreatedBy is the creator's email, copied at creation time.
	CreatedBy string `gorm:"size:255;index;not null" json:"created_by"`

	// DocumentURLs keeps the submission order of the uploaded files.
	DocumentURLs []string `gorm:"serializer:json" json:"document_urls"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Creator is the read-only projection of the account that created an event.
type Creator struct {
	Email    string
	Username string
}

// EventView is an event enriched with its creator. Creator is nil when the
// creator email no longer resolves to an account.
type EventView struct {
	Event
	Creator *Creator
}
