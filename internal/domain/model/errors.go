package model

import "errors"

// Sentinel kinds for model validation errors.
var (
	ErrInvalidKind   = errors.New("invalid event kind")
	ErrInvalidStatus = errors.New("invalid competitor status")
	ErrInvalidConfig = errors.New("invalid scoring config")
)
