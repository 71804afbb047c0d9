package settlement

import (
	"github.com/okian/splitpool/internal/domain/model"
	"github.com/okian/splitpool/internal/domain/scoring"
	"github.com/okian/splitpool/pkg/money"
)

// Default engine configuration.
const (
	DefaultTolerance    = money.DefaultTolerance
	DefaultPrecision    = money.DefaultPrecision
	DefaultUnknownLabel = "Unknown"
)

// Engine settles participant snapshots. It holds only configuration and is
// safe for concurrent use.
type Engine struct {
	tolerance    float64
	precision    int32
	unknownLabel string
}

// NewEngine creates an engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		tolerance:    DefaultTolerance,
		precision:    DefaultPrecision,
		unknownLabel: DefaultUnknownLabel,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tolerance returns the settled-noise threshold.
func (e *Engine) Tolerance() float64 { return e.tolerance }

// Precision returns the number of decimal places amounts are rounded to.
func (e *Engine) Precision() int32 { return e.precision }

// UnknownLabel returns the placeholder for unnamed participants.
func (e *Engine) UnknownLabel() string { return e.unknownLabel }

// Settle runs normalize, balance, match and harmony over one snapshot.
func (e *Engine) Settle(participants []model.Participant) model.Summary {
	pool := Normalize(participants)
	balances := ComputeBalances(participants, pool.FairShare)
	return model.Summary{
		TotalPaid:      pool.TotalPaid,
		PerPersonShare: pool.FairShare,
		Count:          pool.Count,
		Settlements:    e.Match(balances),
		Harmony:        scoring.Harmony(participants, pool.FairShare),
		MasterSplit:    scoring.MasterSplit(pool.Count, pool.TotalPaid),
	}
}

var defaultEngine = NewEngine()

// Match runs the debt matcher. Without options it uses the default engine.
func Match(balances []model.Balance, opts ...Option) []model.Settlement {
	if len(opts) == 0 {
		return defaultEngine.Match(balances)
	}
	return NewEngine(opts...).Match(balances)
}

// Settle settles a snapshot with default configuration.
func Settle(participants []model.Participant) model.Summary {
	return defaultEngine.Settle(participants)
}
