package service

import (
	"github.com/okian/splitpool/internal/domain/settlement"
	"github.com/okian/splitpool/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTolerance sets the amount below which a balance counts as settled.
func WithTolerance(tolerance float64) Option {
	return func(s *Service) {
		if tolerance > 0 {
			s.tolerance = tolerance
		}
	}
}

// WithPrecision sets the number of decimal places transfers are rounded to.
func WithPrecision(places int) Option {
	return func(s *Service) {
		if places >= 0 {
			s.precision = places
		}
	}
}

// WithUnknownLabel sets the name used for participants without one when no
// language is requested.
func WithUnknownLabel(label string) Option {
	return func(s *Service) {
		if label != "" {
			s.unknownLabel = label
		}
	}
}

// WithMemoSize bounds the settlement memo. Zero or less means unbounded.
func WithMemoSize(size int) Option {
	return func(s *Service) {
		s.memoSize = size
	}
}

// WithShardCount sets the number of shards in the group store.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithMaxGroups caps the number of stored groups. Zero means unlimited.
func WithMaxGroups(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxGroups = n
		}
	}
}

// WithMaxParticipants caps the participants per group. Zero means unlimited.
func WithMaxParticipants(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxParticipants = n
		}
	}
}

// WithInvalidPolicy selects how NaN, infinite or negative amounts are handled.
func WithInvalidPolicy(p settlement.Policy) Option {
	return func(s *Service) {
		if p == settlement.PolicyReject || p == settlement.PolicyCoerce {
			s.policy = p
		}
	}
}
