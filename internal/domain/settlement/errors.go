package settlement

import "errors"

// Sentinel kinds for settlement errors.
var (
	ErrInvalidAmount = errors.New("invalid paid amount")
	ErrUnknownPolicy = errors.New("unknown invalid-amount policy")
)
