package processor

import "errors"

// Sentinel kinds for ingestion errors. All of them are reported before any
// ledger mutation.
var (
	ErrEmptyEventID = errors.New("event id must not be empty")
	ErrKindMismatch = errors.New("event kind differs from the stored kind")
	ErrRowsSkipped  = errors.New("scoreboard has malformed rows")
)
