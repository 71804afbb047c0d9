package settlement

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/splitpool/internal/domain/model"
	"github.com/okian/splitpool/pkg/money"
)

// Policy decides what happens to NaN, infinite or negative paid amounts.
type Policy string

// Supported policies.
const (
	PolicyReject Policy = "reject"
	PolicyCoerce Policy = "coerce"
)

// ParsePolicy maps a config string to a Policy. Empty means reject.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyReject:
		return PolicyReject, nil
	case PolicyCoerce:
		return PolicyCoerce, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// validAmount reports whether v is a finite, non-negative number.
func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// Validate returns ErrInvalidAmount for the first participant whose paid
// amount is NaN, infinite or negative, or when the pool total overflows.
func Validate(participants []model.Participant) error {
	for i, p := range participants {
		if !validAmount(p.Paid) {
			return fmt.Errorf("%w: participant %d (%q) paid %v", ErrInvalidAmount, i, p.ID, p.Paid)
		}
	}
	return ValidateTotal(participants)
}

// ValidateTotal returns ErrInvalidAmount when the amounts, each finite on its
// own, add up to a total that is not.
func ValidateTotal(participants []model.Participant) error {
	paid := make([]float64, len(participants))
	for i, p := range participants {
		paid[i] = p.Paid
	}
	if total := money.Sum(paid); math.IsNaN(total) || math.IsInf(total, 0) {
		return fmt.Errorf("%w: total of %d participants is %v", ErrInvalidAmount, len(participants), total)
	}
	return nil
}

// Coerce returns a copy of participants with invalid paid amounts replaced by 0,
// and the number of replaced values.
func Coerce(participants []model.Participant) ([]model.Participant, int) {
	out := make([]model.Participant, len(participants))
	replaced := 0
	for i, p := range participants {
		if !validAmount(p.Paid) {
			p.Paid = 0
			replaced++
		}
		out[i] = p
	}
	return out, replaced
}

// Apply enforces policy on participants. Reject returns an error for invalid
// input; coerce zeroes bad amounts but still fails on an overflowing total.
func (p Policy) Apply(participants []model.Participant) ([]model.Participant, int, error) {
	if p == PolicyCoerce {
		out, n := Coerce(participants)
		if err := ValidateTotal(out); err != nil {
			return nil, 0, err
		}
		return out, n, nil
	}
	if err := Validate(participants); err != nil {
		return nil, 0, err
	}
	return participants, 0, nil
}

// UnknownLabel returns the placeholder name for a language code.
// Unrecognized codes fall back to English.
func UnknownLabel(lang string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "ar":
		return "مجهول"
	default:
		return DefaultUnknownLabel
	}
}
