// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/splitpool/internal/adapters/repository"
	"github.com/okian/splitpool/internal/domain/memo"
	"github.com/okian/splitpool/internal/domain/model"
	"github.com/okian/splitpool/internal/domain/settlement"
	"github.com/okian/splitpool/pkg/logger"
	"github.com/okian/splitpool/pkg/metrics"
)

// Metric sources for settlements.
const (
	sourceAdhoc = "adhoc"
	sourceGroup = "group"
)

// Service settles ad-hoc snapshots and keeps a workspace of groups whose
// settlement is recomputed on every read after a change.
type Service struct {
	mu sync.RWMutex

	// Core components
	engine *settlement.Engine
	memo   memo.Cache
	groups *repository.MemoryStore

	// Configuration
	tolerance       float64
	precision       int
	unknownLabel    string
	memoSize        int
	shardCount      int
	maxGroups       int
	maxParticipants int
	policy          settlement.Policy

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		tolerance:       settlement.DefaultTolerance,
		precision:       settlement.DefaultPrecision,
		unknownLabel:    settlement.DefaultUnknownLabel,
		memoSize:        10_000,
		shardCount:      8,
		maxGroups:       10_000,
		maxParticipants: 500,
		policy:          settlement.PolicyReject,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting settlement service...")

	s.engine = s.newEngine(s.unknownLabel)
	s.memo = memo.NewInMemoryCache(memo.WithMaxSize(s.memoSize))
	s.groups = repository.NewMemoryStore(ctx,
		repository.WithShardCount(s.shardCount),
		repository.WithMaxGroups(s.maxGroups),
		repository.WithMaxParticipants(s.maxParticipants),
	)

	s.started = true
	s.logger.Info(ctx, "settlement service started",
		logger.Float64("tolerance", s.tolerance),
		logger.Int("precision", s.precision),
		logger.String("policy", string(s.policy)),
		logger.Int("memoSize", s.memoSize),
		logger.Int("shards", s.shardCount),
	)

	return nil
}

// Stop drops the memo and marks the service stopped. A later Start begins
// with an empty group store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping settlement service...")
	s.memo.Purge(context.Background())
	metrics.UpdateMemoSize(0)
	s.started = false
	s.logger.Info(context.Background(), "settlement service stopped")
}

func (s *Service) newEngine(label string) *settlement.Engine {
	return settlement.NewEngine(
		settlement.WithTolerance(s.tolerance),
		settlement.WithPrecision(int32(s.precision)),
		settlement.WithUnknownLabel(label),
	)
}

// components is the set of parts built by Start. Requests work on the set
// captured when they began, so a concurrent Stop/Start does not swap them
// mid-call.
type components struct {
	engine *settlement.Engine
	memo   memo.Cache
	groups *repository.MemoryStore
}

// engineFor returns the engine for a language. An empty lang uses the
// configured unknown label.
func (s *Service) engineFor(c components, lang string) *settlement.Engine {
	if strings.TrimSpace(lang) == "" {
		return c.engine
	}
	label := settlement.UnknownLabel(lang)
	if label == c.engine.UnknownLabel() {
		return c.engine
	}
	return s.newEngine(label)
}

// ready returns the running components or ErrNotStarted.
func (s *Service) ready() (components, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return components{}, ErrNotStarted
	}
	return components{engine: s.engine, memo: s.memo, groups: s.groups}, nil
}

// applyPolicy enforces the invalid-amount policy and records the outcome.
func (s *Service) applyPolicy(ctx context.Context, ps []model.Participant) ([]model.Participant, error) {
	out, coerced, err := s.policy.Apply(ps)
	if err != nil {
		metrics.RecordValidationRejection()
		metrics.RecordErrorByComponent("service", "validation")
		s.logger.Warn(ctx, "rejected participants", logger.Error(err))
		return nil, err
	}
	if coerced > 0 {
		metrics.RecordValidationCoercions(coerced)
		s.logger.Warn(ctx, "coerced invalid amounts to zero", logger.Int("count", coerced))
	}
	return out, nil
}

// checkTotal rejects a group snapshot whose pool total would overflow.
func (s *Service) checkTotal(ctx context.Context, ps []model.Participant) error {
	if err := settlement.ValidateTotal(ps); err != nil {
		metrics.RecordValidationRejection()
		s.logger.Warn(ctx, "rejected group total", logger.Error(err))
		return err
	}
	return nil
}

// summarize settles a group snapshot through the memo.
func (s *Service) summarize(ctx context.Context, c components, source string, ps []model.Participant, lang string) model.Summary {
	engine := s.engineFor(c, lang)
	key := memo.Fingerprint(engine.UnknownLabel(), ps)

	if cached, ok := c.memo.Get(ctx, key); ok {
		metrics.RecordMemoHit()
		return cached
	}
	metrics.RecordMemoMiss()

	summary := s.compute(ctx, source, engine, ps)
	remember(ctx, c.memo, key, summary)
	return summary
}

// compute runs the engine and records metrics for one snapshot.
func (s *Service) compute(ctx context.Context, source string, engine *settlement.Engine, ps []model.Participant) model.Summary {
	start := time.Now()
	summary := engine.Settle(ps)
	metrics.RecordSettleLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.RecordSettlement(source, len(summary.Settlements), summary.Harmony, summary.MasterSplit)

	s.logger.Debug(ctx, "settled snapshot",
		logger.String("source", source),
		logger.Int("participants", summary.Count),
		logger.Int("transfers", len(summary.Settlements)),
		logger.Float64("total", summary.TotalPaid),
	)
	return summary
}

func remember(ctx context.Context, cache memo.Cache, key string, summary model.Summary) {
	cache.Put(ctx, key, summary)
	metrics.UpdateMemoSize(cache.Size())
}

// Settle computes the settlement of an ad-hoc snapshot. Participants without
// an id are assigned one. lang selects the unknown-name label.
func (s *Service) Settle(ctx context.Context, participants []model.Participant, lang string) (model.Summary, error) {
	c, err := s.ready()
	if err != nil {
		return model.Summary{}, err
	}

	ps, err := s.applyPolicy(ctx, participants)
	if err != nil {
		return model.Summary{}, fmt.Errorf("settle: %w", err)
	}

	// The key is taken before ids are assigned so identical anonymous
	// snapshots share one memo entry.
	engine := s.engineFor(c, lang)
	key := memo.Fingerprint(engine.UnknownLabel(), ps)
	if cached, ok := c.memo.Get(ctx, key); ok {
		metrics.RecordMemoHit()
		return cached, nil
	}
	metrics.RecordMemoMiss()

	withIDs := make([]model.Participant, len(ps))
	for i, p := range ps {
		if strings.TrimSpace(p.ID) == "" {
			p.ID = uuid.NewString()
		}
		withIDs[i] = p
	}

	summary := s.compute(ctx, sourceAdhoc, engine, withIDs)
	remember(ctx, c.memo, key, summary)
	return summary, nil
}

// CreateGroup adds an empty group.
func (s *Service) CreateGroup(ctx context.Context, name string) (model.Group, model.Summary, error) {
	c, err := s.ready()
	if err != nil {
		return model.Group{}, model.Summary{}, err
	}

	g, err := c.groups.Create(ctx, strings.TrimSpace(name))
	if err != nil {
		metrics.RecordErrorByComponent("repository", "capacity")
		return model.Group{}, model.Summary{}, err
	}
	s.logger.Info(ctx, "group created", logger.String("group", g.ID), logger.String("name", g.Name))
	return g, s.summarize(ctx, c, sourceGroup, g.Participants, ""), nil
}

// GetGroup returns a group with its current settlement.
func (s *Service) GetGroup(ctx context.Context, id, lang string) (model.Group, model.Summary, error) {
	c, err := s.ready()
	if err != nil {
		return model.Group{}, model.Summary{}, err
	}

	g, err := c.groups.Get(ctx, id)
	if err != nil {
		return model.Group{}, model.Summary{}, err
	}
	return g, s.summarize(ctx, c, sourceGroup, g.Participants, lang), nil
}

// ListGroups returns all groups ordered by creation time.
func (s *Service) ListGroups(ctx context.Context) ([]model.Group, error) {
	c, err := s.ready()
	if err != nil {
		return nil, err
	}
	return c.groups.List(ctx)
}

// DeleteGroup removes a group.
func (s *Service) DeleteGroup(ctx context.Context, id string) error {
	c, err := s.ready()
	if err != nil {
		return err
	}
	if err := c.groups.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "group deleted", logger.String("group", id))
	return nil
}

// AddParticipant appends a participant to a group and returns the new
// participant with the group's recomputed settlement.
func (s *Service) AddParticipant(ctx context.Context, groupID, name string, paid float64) (model.Group, model.Participant, model.Summary, error) {
	c, err := s.ready()
	if err != nil {
		return model.Group{}, model.Participant{}, model.Summary{}, err
	}

	checked, err := s.applyPolicy(ctx, []model.Participant{{Name: name, Paid: paid}})
	if err != nil {
		return model.Group{}, model.Participant{}, model.Summary{}, fmt.Errorf("add participant: %w", err)
	}

	current, err := c.groups.Get(ctx, groupID)
	if err != nil {
		return model.Group{}, model.Participant{}, model.Summary{}, err
	}
	if err := s.checkTotal(ctx, append(current.Participants, checked[0])); err != nil {
		return model.Group{}, model.Participant{}, model.Summary{}, fmt.Errorf("add participant: %w", err)
	}

	g, p, err := c.groups.AddParticipant(ctx, groupID, checked[0].Name, checked[0].Paid)
	if err != nil {
		return model.Group{}, model.Participant{}, model.Summary{}, err
	}
	return g, p, s.summarize(ctx, c, sourceGroup, g.Participants, ""), nil
}

// UpdateParticipant edits a participant's name and/or paid amount.
func (s *Service) UpdateParticipant(ctx context.Context, groupID, participantID string, patch repository.ParticipantPatch) (model.Group, model.Summary, error) {
	c, err := s.ready()
	if err != nil {
		return model.Group{}, model.Summary{}, err
	}

	if patch.Paid != nil {
		checked, err := s.applyPolicy(ctx, []model.Participant{{ID: participantID, Paid: *patch.Paid}})
		if err != nil {
			return model.Group{}, model.Summary{}, fmt.Errorf("update participant: %w", err)
		}
		paid := checked[0].Paid
		patch.Paid = &paid

		current, err := c.groups.Get(ctx, groupID)
		if err != nil {
			return model.Group{}, model.Summary{}, err
		}
		next := current.Participants
		for i := range next {
			if next[i].ID == participantID {
				next[i].Paid = paid
			}
		}
		if err := s.checkTotal(ctx, next); err != nil {
			return model.Group{}, model.Summary{}, fmt.Errorf("update participant: %w", err)
		}
	}

	g, err := c.groups.UpdateParticipant(ctx, groupID, participantID, patch)
	if err != nil {
		return model.Group{}, model.Summary{}, err
	}
	return g, s.summarize(ctx, c, sourceGroup, g.Participants, ""), nil
}

// RemoveParticipant drops a participant from a group.
func (s *Service) RemoveParticipant(ctx context.Context, groupID, participantID string) (model.Group, model.Summary, error) {
	c, err := s.ready()
	if err != nil {
		return model.Group{}, model.Summary{}, err
	}

	g, err := c.groups.RemoveParticipant(ctx, groupID, participantID)
	if err != nil {
		return model.Group{}, model.Summary{}, err
	}
	return g, s.summarize(ctx, c, sourceGroup, g.Participants, ""), nil
}

// GroupSettlement returns the current settlement of a group.
func (s *Service) GroupSettlement(ctx context.Context, groupID, lang string) (model.Summary, error) {
	_, summary, err := s.GetGroup(ctx, groupID, lang)
	return summary, err
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"tolerance":       s.tolerance,
		"precision":       s.precision,
		"unknownLabel":    s.unknownLabel,
		"policy":          string(s.policy),
		"memoSize":        s.memoSize,
		"shardCount":      s.shardCount,
		"maxGroups":       s.maxGroups,
		"maxParticipants": s.maxParticipants,
	}

	if s.started {
		groups := s.groups.Count(ctx)
		participants := s.groups.ParticipantCount()
		memoEntries := s.memo.Size()

		stats["groups"] = groups
		stats["participants"] = participants
		stats["memoEntries"] = memoEntries

		metrics.UpdateGroupsTotal(groups)
		metrics.UpdateParticipantsTotal(participants)
		metrics.UpdateMemoSize(memoEntries)
	}

	return stats
}
