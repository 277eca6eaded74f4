package importer

import "errors"

// Sentinel kinds for importer errors.
var (
	ErrUnknownBatch = errors.New("unknown batch type")
	ErrReadFailed   = errors.New("read batch failed")
)
