// Package common defines sentinel errors shared across the server layers.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Storage-level errors.
	// ErrConstraintViolation covers uniqueness and referential violations
	// surfaced by the store, e.g. two embeds with the same embed id in one
	// create call.
	ErrConstraintViolation = errors.New("constraint violation")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")
)
