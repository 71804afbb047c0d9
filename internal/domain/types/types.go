// Package types contains the wire shapes shared by the HTTP API and the CLI.
package types

import (
	"time"

	"github.com/okian/splitpool/internal/domain/model"
)

// Participant is the wire form of a participant.
type Participant struct {
	ID   string  `json:"id,omitempty"`
	Name string  `json:"name"`
	Paid float64 `json:"paid"`
}

// SettleRequest is the body of POST /settle and the layout of a snapshot file.
type SettleRequest struct {
	Participants []Participant `json:"participants"`
	Lang         string        `json:"lang,omitempty"`
}

// Transfer is one suggested payment in a settlement plan.
type Transfer struct {
	FromID string  `json:"from_id,omitempty"`
	From   string  `json:"from"`
	ToID   string  `json:"to_id,omitempty"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
	Text   string  `json:"text"`
}

// Summary is the settlement result for one snapshot.
type Summary struct {
	TotalPaid      float64    `json:"total_paid"`
	PerPersonShare float64    `json:"per_person_share"`
	Count          int        `json:"count"`
	Settlements    []Transfer `json:"settlements"`
	Harmony        float64    `json:"harmony"`
	MasterSplit    bool       `json:"master_split"`
}

// Group is a stored group together with its current settlement.
type Group struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Participants []Participant `json:"participants"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Version      int64         `json:"version"`
	Summary      *Summary      `json:"summary,omitempty"`
}

// CreateGroupRequest is the body of POST /groups.
type CreateGroupRequest struct {
	Name string `json:"name"`
}

// AddParticipantRequest is the body of POST /groups/{id}/participants.
type AddParticipantRequest struct {
	Name string  `json:"name"`
	Paid float64 `json:"paid"`
}

// UpdateParticipantRequest is the body of PATCH /groups/{id}/participants/{pid}.
// Omitted fields are left unchanged.
type UpdateParticipantRequest struct {
	Name *string  `json:"name,omitempty"`
	Paid *float64 `json:"paid,omitempty"`
}

// ParticipantAdded is returned by POST /groups/{id}/participants.
type ParticipantAdded struct {
	Participant Participant `json:"participant"`
	Group       Group       `json:"group"`
}

// ToModel converts wire participants to domain participants.
func ToModel(ps []Participant) []model.Participant {
	out := make([]model.Participant, len(ps))
	for i, p := range ps {
		out[i] = model.Participant{ID: p.ID, Name: p.Name, Paid: p.Paid}
	}
	return out
}

// FromParticipant converts a domain participant to its wire form.
func FromParticipant(p model.Participant) Participant {
	return Participant{ID: p.ID, Name: p.Name, Paid: p.Paid}
}

// FromModel converts domain participants to wire participants.
func FromModel(ps []model.Participant) []Participant {
	out := make([]Participant, len(ps))
	for i, p := range ps {
		out[i] = FromParticipant(p)
	}
	return out
}

// FromSummary converts a domain summary to its wire form. Settlements is
// never nil so it encodes as an empty array.
func FromSummary(s model.Summary) Summary {
	transfers := make([]Transfer, len(s.Settlements))
	for i, st := range s.Settlements {
		transfers[i] = Transfer{
			FromID: st.FromID,
			From:   st.From,
			ToID:   st.ToID,
			To:     st.To,
			Amount: st.Amount,
			Text:   st.String(),
		}
	}
	return Summary{
		TotalPaid:      s.TotalPaid,
		PerPersonShare: s.PerPersonShare,
		Count:          s.Count,
		Settlements:    transfers,
		Harmony:        s.Harmony,
		MasterSplit:    s.MasterSplit,
	}
}

// FromGroup converts a stored group and its summary to the wire form.
func FromGroup(g model.Group, s model.Summary) Group {
	sum := FromSummary(s)
	return Group{
		ID:           g.ID,
		Name:         g.Name,
		Participants: FromModel(g.Participants),
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
		Version:      g.Version,
		Summary:      &sum,
	}
}

// FromGroupHeader converts a group without its summary, for listings.
func FromGroupHeader(g model.Group) Group {
	return Group{
		ID:           g.ID,
		Name:         g.Name,
		Participants: FromModel(g.Participants),
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
		Version:      g.Version,
	}
}
