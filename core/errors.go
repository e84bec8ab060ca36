package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidTask indicates a Task failed validation.
	ErrInvalidTask = errors.New("invalid task")

	// ErrEmptyTaskText indicates the Text field is empty.
	ErrEmptyTaskText = errors.New("task text cannot be empty")

	// ErrInvalidPriority indicates a priority outside 0-4.
	ErrInvalidPriority = errors.New("priority must be 0 (none) or between 1 and 4")

	// ErrInvalidParsedQuery indicates a ParsedQuery failed validation.
	ErrInvalidParsedQuery = errors.New("invalid parsed query")

	// ErrKeywordsNotSubset indicates core keywords missing from the expanded set.
	ErrKeywordsNotSubset = errors.New("core keywords must be a subset of expanded keywords")

	// ErrConflictingTimeResolution indicates a query carrying both a
	// due-date filter and a time context for the same expression.
	ErrConflictingTimeResolution = errors.New("time expression resolved to both due-date filter and time context")

	// ErrInvalidDueDateFilter indicates a malformed due-date filter.
	ErrInvalidDueDateFilter = errors.New("invalid due-date filter")
)
