package repository

import "errors"

// Sentinel kinds for group store errors.
var (
	ErrNotFound            = errors.New("group not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrCapacity            = errors.New("group store is full")
	ErrTooManyParticipants = errors.New("group has too many participants")
)
