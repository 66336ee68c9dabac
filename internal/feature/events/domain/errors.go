// Package domain defines domain-level errors for the events feature.
package domain

import "errors"

// MaxAttachments is the maximum number of documents an event may carry.
const MaxAttachments = 5

// Domain errors for event operations.
var (
	// ErrEventNotFound indicates that no event matched the given event_id.
	ErrEventNotFound = errors.New("event not found")

	// ErrCreatorNotFound indicates that the creator email does not resolve to an account.
	ErrCreatorNotFound = errors.New("user not found")

	// ErrEmailRequired indicates that a by-creator lookup was requested without an email.
	ErrEmailRequired = errors.New("email parameter is required")

	// ErrTooManyAttachments indicates that more than MaxAttachments files were submitted.
	ErrTooManyAttachments = errors.New("too many attachments")

	// ErrInvalidEvent indicates that a required event field is missing or out of range.
	ErrInvalidEvent = errors.New("invalid event")
)
