// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load layers an optional YAML file and SPLITPOOL_ env vars on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/splitpool/internal/domain/settlement"
	"github.com/okian/splitpool/pkg/logger"
)

// maxPrecision bounds the rounding precision to what float64 can carry.
const maxPrecision = 8

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text, json or console.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Tolerance is the amount below which a balance counts as settled.
	Tolerance float64 `koanf:"tolerance"`

	// Precision is the number of decimal places transfers are rounded to.
	Precision int `koanf:"precision"`

	// UnknownLabel names participants without a name in settlement output.
	UnknownLabel string `koanf:"unknown_label"`

	// InvalidAmountPolicy is "reject" or "coerce".
	InvalidAmountPolicy string `koanf:"invalid_amount_policy"`

	// MemoSize bounds the settlement memo cache. Zero or less means unbounded.
	MemoSize int `koanf:"memo_size"`

	// ShardCount configures the number of shards in the group store.
	ShardCount int `koanf:"shard_count"`

	// MaxGroups caps the number of stored groups. Zero means unlimited.
	MaxGroups int `koanf:"max_groups"`

	// MaxParticipants caps the participants per group. Zero means unlimited.
	MaxParticipants int `koanf:"max_participants"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           logger.FormatText,
		Addr:                ":9080",
		Tolerance:           settlement.DefaultTolerance,
		Precision:           settlement.DefaultPrecision,
		UnknownLabel:        settlement.DefaultUnknownLabel,
		InvalidAmountPolicy: string(settlement.PolicyReject),
		MemoSize:            10_000,
		ShardCount:          8,
		MaxGroups:           10_000,
		MaxParticipants:     500,
	}
}

// Validate checks that the configuration can build a working service.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if !logger.ValidFormat(c.LogFormat) {
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if math.IsNaN(c.Tolerance) || math.IsInf(c.Tolerance, 0) || c.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be a positive number, got %v", ErrInvalidConfig, c.Tolerance)
	}
	if c.Precision < 0 || c.Precision > maxPrecision {
		return fmt.Errorf("%w: precision must be within [0, %d], got %d", ErrInvalidConfig, maxPrecision, c.Precision)
	}
	if strings.TrimSpace(c.UnknownLabel) == "" {
		return fmt.Errorf("%w: unknown_label must not be empty", ErrInvalidConfig)
	}
	if _, err := settlement.ParsePolicy(c.InvalidAmountPolicy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.ShardCount <= 0 {
		return fmt.Errorf("%w: shard_count must be positive, got %d", ErrInvalidConfig, c.ShardCount)
	}
	if c.MaxGroups < 0 || c.MaxParticipants < 0 {
		return fmt.Errorf("%w: max_groups and max_participants must not be negative", ErrInvalidConfig)
	}
	return nil
}
