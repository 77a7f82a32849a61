package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrSchema indicates a malformed raw corpus (a post missing its text field)
	ErrSchema = errors.New("schema invalid")

	// ErrValidation indicates a quality assessment precondition failed.
	// Captured into QualityReport.Errors, never raised past Assess.
	ErrValidation = errors.New("validation failed")

	// ErrCollaborator indicates the text-generation call failed or returned
	// unparseable content. Always recovered locally via the identity fallback.
	ErrCollaborator = errors.New("collaborator failed")

	// ErrInvalidProvider indicates an unknown AI provider was specified
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrServiceUnavailable indicates the AI service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")
)
