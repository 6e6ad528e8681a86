// Package apperr defines the error taxonomy shared by every feature and transport.
package apperr

import "errors"

// Sentinel errors for business-level failures.
// Usecases wrap these with context (fmt.Errorf + %w) and transports map them
// to protocol outcomes with errors.Is.
var (
	// ErrNotFound indicates that an entity referenced by id (or unique field) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey indicates a unique-field collision (username, email, category name).
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrReferenceNotFound indicates a dangling foreign id (category, seller) on a write.
	ErrReferenceNotFound = errors.New("reference not found")

	// ErrInvalidInput indicates a malformed field (negative price, blank name, unknown role).
	// Rejected before the input ever reaches the store.
	ErrInvalidInput = errors.New("invalid input")
)
