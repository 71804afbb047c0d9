package settlement

import (
	"github.com/okian/splitpool/internal/domain/model"
	"github.com/okian/splitpool/pkg/money"
)

// Pool summarizes what a snapshot of participants put in.
type Pool struct {
	TotalPaid float64
	Count     int
	FairShare float64
}

// Normalize computes the total pool and the even per-person share.
// An empty snapshot yields a zero share. The total is summed in decimal so it
// does not depend on participant order.
func Normalize(participants []model.Participant) Pool {
	paid := make([]float64, len(participants))
	for i, p := range participants {
		paid[i] = p.Paid
	}
	total := money.Sum(paid)
	pool := Pool{TotalPaid: total, Count: len(participants)}
	if pool.Count > 0 {
		pool.FairShare = total / float64(pool.Count)
	}
	return pool
}

// ComputeBalances derives each participant's signed balance against fairShare.
// Output order matches input order.
func ComputeBalances(participants []model.Participant, fairShare float64) []model.Balance {
	balances := make([]model.Balance, len(participants))
	for i, p := range participants {
		balances[i] = model.Balance{Participant: p, Balance: p.Paid - fairShare}
	}
	return balances
}
