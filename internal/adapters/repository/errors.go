package repository

import "errors"

// Sentinel kinds for ledger store errors.
var (
	// ErrNotFound means no ledger file exists yet; callers degrade to an
	// empty ledger with a warning rather than failing.
	ErrNotFound = errors.New("ledger file not found")
	// ErrCorrupt means a file exists but cannot be decoded; callers must not
	// silently discard it.
	ErrCorrupt = errors.New("ledger file is corrupt")
)
