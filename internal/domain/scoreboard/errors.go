package scoreboard

import "errors"

// Sentinel kinds for scoreboard decoding errors.
var (
	ErrBadDocument = errors.New("scoreboard document is not valid JSON")
)
