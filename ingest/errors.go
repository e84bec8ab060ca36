package ingest

import "errors"

var (
	// ErrTaskRepositoryRequired is returned when a nil task repository
	// is passed to NewPipeline.
	ErrTaskRepositoryRequired = errors.New("task repository is required")
)
