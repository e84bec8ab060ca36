package query

import "errors"

var (
	// ErrUnparsableDueValue is returned when a due expression cannot be
	// resolved to a filter.
	ErrUnparsableDueValue = errors.New("unparsable due value")

	// ErrInvalidBinding is returned for a malformed user property term
	// binding spec.
	ErrInvalidBinding = errors.New("invalid property term binding")
)
