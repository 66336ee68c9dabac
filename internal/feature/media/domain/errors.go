// Package domain defines domain-level errors for the media feature.
package domain

import "errors"

var (
	// ErrUploadFailed indicates that a call to the object storage service failed.
	// Both uploads and deletions wrap this error so callers can tell storage faults apart from persistence faults.
	ErrUploadFailed = errors.New("upload failed")

	// ErrEmptyUpload indicates that an upload carried no bytes.
	ErrEmptyUpload = errors.New("upload is empty")

	// ErrInvalidMediaURL indicates that an object key could not be derived from a stored URL.
	ErrInvalidMediaURL = errors.New("invalid media url")
)
