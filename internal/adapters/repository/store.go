// Package repository defines the group store interface and errors.
package repository

import (
	"context"

	"github.com/okian/splitpool/internal/domain/model"
)

// Group is the stored form of a participant snapshot.
type Group = model.Group

// ParticipantPatch carries the fields to change on a participant.
// Nil fields are left untouched.
type ParticipantPatch struct {
	Name *string
	Paid *float64
}

// Store provides read/write access to group snapshots. Every returned Group
// is a copy; callers may modify it freely.
type Store interface {
	// Create adds an empty group and returns it.
	Create(ctx context.Context, name string) (Group, error)

	// Get returns a group by id. Returns ErrNotFound if the group is unknown.
	Get(ctx context.Context, id string) (Group, error)

	// List returns all groups ordered by creation time.
	List(ctx context.Context) ([]Group, error)

	// Delete removes a group. Returns ErrNotFound if the group is unknown.
	Delete(ctx context.Context, id string) error

	// AddParticipant appends a participant with a freshly assigned id.
	AddParticipant(ctx context.Context, groupID, name string, paid float64) (Group, model.Participant, error)

	// UpdateParticipant edits a participant in place, keeping its position.
	UpdateParticipant(ctx context.Context, groupID, participantID string, patch ParticipantPatch) (Group, error)

	// RemoveParticipant drops a participant from a group.
	RemoveParticipant(ctx context.Context, groupID, participantID string) (Group, error)

	// Count returns the number of groups held.
	Count(ctx context.Context) int
}
