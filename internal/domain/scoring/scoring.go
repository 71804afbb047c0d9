// Package scoring computes cosmetic fairness indicators for a pool.
// Nothing here feeds back into settlement amounts.
package scoring

import (
	"math"

	"github.com/okian/splitpool/internal/domain/model"
)

// Harmony scoring constants.
const (
	maxHarmony         = 100
	minHarmony         = 0
	dispersionPenalty  = 50
	masterSplitMinimum = 3
)

// Harmony returns a 0..100 score from the dispersion of paid amounts around
// fairShare. Fewer than two participants or an empty pool score 100.
func Harmony(participants []model.Participant, fairShare float64) float64 {
	if len(participants) < 2 {
		return maxHarmony
	}
	var total float64
	for _, p := range participants {
		total += p.Paid
	}
	if total == 0 {
		return maxHarmony
	}

	var sq float64
	for _, p := range participants {
		d := p.Paid - fairShare
		sq += d * d
	}
	stdDev := math.Sqrt(sq / float64(len(participants)))

	denom := fairShare
	if denom == 0 {
		denom = 1
	}
	score := maxHarmony - (stdDev/denom)*dispersionPenalty
	return math.Max(minHarmony, math.Min(maxHarmony, score))
}

// MasterSplit reports whether a split earns the group badge: three or more
// people sharing a non-empty pool.
func MasterSplit(count int, totalPaid float64) bool {
	return count >= masterSplitMinimum && totalPaid > 0
}
