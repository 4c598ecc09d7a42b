package app

import "errors"

// Sentinel kinds for service errors.
var (
	ErrUnknownCompetitor = errors.New("unknown competitor")
	ErrUnknownEvent      = errors.New("unknown event")
)
