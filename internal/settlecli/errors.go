package settlecli

import "errors"

// Sentinel errors returned by the CLI.
var (
	ErrNoFile         = errors.New("snapshot file is required")
	ErrLoadSnapshot   = errors.New("failed to load snapshot")
	ErrRemote         = errors.New("remote settle failed")
	ErrInconsistent   = errors.New("settlement does not balance")
	ErrUnknownPayload = errors.New("unexpected response payload")
)
