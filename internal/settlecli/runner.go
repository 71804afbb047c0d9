package settlecli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/okian/splitpool/internal/domain/settlement"
	"github.com/okian/splitpool/internal/domain/types"
	"github.com/okian/splitpool/pkg/logger"
)

// Run loads the snapshot, settles it locally or remotely and writes the
// report to out.
func Run(ctx context.Context, cfg *Config, out io.Writer) error {
	start := time.Now()
	log := logger.Named("settle")

	req, err := LoadSnapshot(cfg.File)
	if err != nil {
		return err
	}
	if cfg.Lang != "" {
		req.Lang = cfg.Lang
	}

	log.Debug(ctx, "snapshot loaded",
		logger.String("file", cfg.File),
		logger.Int("participants", len(req.Participants)),
		logger.String("lang", req.Lang),
		logger.Bool("remote", cfg.BaseURL != ""))

	var sum types.Summary
	if cfg.BaseURL != "" {
		sum, err = NewHTTPClient(cfg.BaseURL, cfg.Timeout).Settle(ctx, req)
		if err != nil {
			return err
		}
		if err := Verify(req, sum); err != nil {
			log.Warn(ctx, "remote settlement failed verification", logger.Error(err))
		}
	} else {
		sum, err = settleLocal(req, cfg.Policy)
		if err != nil {
			return err
		}
	}

	log.Debug(ctx, "settled",
		logger.Int("transfers", len(sum.Settlements)),
		logger.Float64("harmony", sum.Harmony),
		logger.Duration("took", time.Since(start)))

	if cfg.JSON {
		return WriteJSON(out, sum)
	}
	return WriteText(out, sum)
}

// settleLocal validates the snapshot under policy and runs the engine.
func settleLocal(req types.SettleRequest, policy settlement.Policy) (types.Summary, error) {
	if policy == "" {
		policy = DefaultPolicy
	}
	participants, _, err := policy.Apply(types.ToModel(req.Participants))
	if err != nil {
		return types.Summary{}, fmt.Errorf("invalid snapshot: %w", err)
	}
	engine := settlement.NewEngine(settlement.WithUnknownLabel(settlement.UnknownLabel(req.Lang)))
	return types.FromSummary(engine.Settle(participants)), nil
}
