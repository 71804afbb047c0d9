package settlement

import (
	"sort"

	"github.com/okian/splitpool/internal/domain/model"
	"github.com/okian/splitpool/pkg/money"
)

// ledger is a mutable working copy of one side of the match.
type ledger struct {
	id      string
	name    string
	balance float64
}

// Match pairs debtors with creditors, largest first, and returns the
// transfers that bring every balance to within tolerance of zero.
//
// Creditors are walked in descending and debtors in ascending balance order
// with two cursors. Equal balances keep their input order. Transfers at or
// below the tolerance are dropped as noise. balances is never modified.
func (e *Engine) Match(balances []model.Balance) []model.Settlement {
	creditors := make([]ledger, 0, len(balances))
	debtors := make([]ledger, 0, len(balances))
	for _, b := range balances {
		switch {
		case b.Balance > 0:
			creditors = append(creditors, ledger{id: b.ID, name: b.Name, balance: b.Balance})
		case b.Balance < 0:
			debtors = append(debtors, ledger{id: b.ID, name: b.Name, balance: b.Balance})
		}
	}
	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].balance > creditors[j].balance })
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].balance < debtors[j].balance })

	settlements := make([]model.Settlement, 0, len(debtors))
	c, d := 0, 0
	for c < len(creditors) && d < len(debtors) {
		credit := &creditors[c]
		debt := &debtors[d]

		transferable := credit.balance
		if -debt.balance < transferable {
			transferable = -debt.balance
		}

		if transferable > e.tolerance {
			settlements = append(settlements, model.Settlement{
				FromID: debt.id,
				From:   e.label(debt.name),
				ToID:   credit.id,
				To:     e.label(credit.name),
				Amount: money.Round(transferable, e.precision),
			})
		}

		credit.balance -= transferable
		debt.balance += transferable

		advanced := false
		if credit.balance < e.tolerance {
			c++
			advanced = true
		}
		if money.IsSettled(debt.balance, e.tolerance) {
			d++
			advanced = true
		}
		// Only non-finite balances can stall both cursors.
		if !advanced {
			break
		}
	}
	return settlements
}

func (e *Engine) label(name string) string {
	if name == "" {
		return e.unknownLabel
	}
	return name
}
