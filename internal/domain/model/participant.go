// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strconv"
	"time"
)

// Participant is one contributor to a shared pool.
type Participant struct {
	ID   string  // opaque id, stable for the lifetime of the snapshot
	Name string  // display label, may be empty
	Paid float64 // amount contributed to the pool
}

// Balance extends a participant with its signed position against the fair share.
// Positive means the participant is owed money; negative means they owe.
type Balance struct {
	Participant
	Balance float64
}

// Settlement is a single directed transfer that reduces net imbalance.
type Settlement struct {
	FromID string // debtor id
	From   string // debtor display name
	ToID   string // creditor id
	To     string // creditor display name
	Amount float64
}

// String renders the transfer as "<from> owes <to> <amount>".
func (s Settlement) String() string {
	return fmt.Sprintf("%s owes %s %s", s.From, s.To, strconv.FormatFloat(s.Amount, 'f', 2, 64))
}

// Summary is the result of settling one snapshot.
type Summary struct {
	TotalPaid      float64
	PerPersonShare float64
	Count          int
	Settlements    []Settlement
	Harmony        float64
	MasterSplit    bool
}

// Group is a named, editable snapshot of participants.
type Group struct {
	ID           string
	Name         string
	Participants []Participant
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int64
}

// Clone returns a deep copy of the group.
func (g Group) Clone() Group {
	out := g
	if g.Participants != nil {
		out.Participants = make([]Participant, len(g.Participants))
		copy(out.Participants, g.Participants)
	}
	return out
}
