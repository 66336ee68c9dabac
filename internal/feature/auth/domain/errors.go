// Package domain defines domain-level errors for the auth feature.
package domain

import "errors"

// Domain errors for account operations.
var (
	// ErrAccountAlreadyExists indicates that the email or username is already taken.
	ErrAccountAlreadyExists = errors.New("user already exists")

	// ErrAccountNotFound indicates that no account matched the given email or ID.
	ErrAccountNotFound = errors.New("user not found")

	// ErrInvalidCredentials indicates that the supplied password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
