package app

import "errors"

var (
	// ErrNotStarted is returned when a run is requested before Start.
	ErrNotStarted = errors.New("service not started")

	// ErrUnknownBatch is returned for an unrecognized batch type.
	ErrUnknownBatch = errors.New("unknown batch type")

	// ErrRubricStoreDisabled is returned when no rubric database is configured.
	ErrRubricStoreDisabled = errors.New("rubric store disabled")
)
