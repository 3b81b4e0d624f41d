package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidStatus is returned when a task status is not one of the
	// known status values.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrInvalidRepositoryName is returned when a repository name contains
	// path separators or traversal sequences. Repository names are used as
	// directory names on disk, so this is a hard requirement.
	ErrInvalidRepositoryName = errors.New("invalid repository name")

	// ErrEmptyTitle is returned when a task is created without a title.
	ErrEmptyTitle = errors.New("task title cannot be empty")
)
