package settlecli

import (
	"fmt"

	"github.com/okian/splitpool/internal/domain/settlement"
	"github.com/okian/splitpool/internal/domain/types"
	"github.com/okian/splitpool/pkg/money"
)

// Verify checks a summary against the snapshot it was computed from: the
// total matches, nobody pays themselves, and the transfers cover every debt.
// Each transfer may round by up to one tolerance step and each participant
// may be left with a remainder below it.
func Verify(req types.SettleRequest, sum types.Summary) error {
	participants := types.ToModel(req.Participants)
	pool := settlement.Normalize(participants)

	if !money.WithinTolerance(pool.TotalPaid, sum.TotalPaid, settlement.DefaultTolerance) {
		return fmt.Errorf("%w: total %.2f, expected %.2f", ErrInconsistent, sum.TotalPaid, pool.TotalPaid)
	}

	amounts := make([]float64, 0, len(sum.Settlements))
	for _, t := range sum.Settlements {
		if t.FromID != "" && t.FromID == t.ToID {
			return fmt.Errorf("%w: %s pays themselves", ErrInconsistent, t.From)
		}
		amounts = append(amounts, t.Amount)
	}

	debts := make([]float64, 0, len(participants))
	for _, b := range settlement.ComputeBalances(participants, pool.FairShare) {
		if b.Balance < 0 {
			debts = append(debts, -b.Balance)
		}
	}

	slack := settlement.DefaultTolerance * float64(len(amounts)+len(participants))
	owed, paid := money.Sum(debts), money.Sum(amounts)
	if !money.WithinTolerance(owed, paid, slack) {
		return fmt.Errorf("%w: transfers %.2f, debts %.2f", ErrInconsistent, paid, owed)
	}
	return nil
}
