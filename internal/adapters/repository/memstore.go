package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/splitpool/internal/domain/model"
	"github.com/okian/splitpool/pkg/metrics"
)

const defaultShardCount = 8

// shard holds a slice of the groups behind its own lock.
type shard struct {
	mu     sync.RWMutex
	groups map[string]*Group
}

// MemoryStore is an in-memory Store sharded by group id.
type MemoryStore struct {
	shards          []*shard
	shardCount      int
	maxGroups       int
	maxParticipants int
	newID           func() string

	count        atomic.Int64
	participants atomic.Int64
}

// NewMemoryStore creates a sharded in-memory group store.
func NewMemoryStore(_ context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		shardCount: defaultShardCount,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{groups: make(map[string]*Group)}
	}

	metrics.UpdateRepositoryShardCount(s.shardCount)
	metrics.UpdateGroupsTotal(0)
	metrics.UpdateParticipantsTotal(0)
	return s
}

func (s *MemoryStore) shardFor(id string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

// observe records store latency for one operation.
func observe(op string, start time.Time) {
	metrics.RecordRepositoryLatency(op, float64(time.Since(start).Microseconds())/1000)
}

func (s *MemoryStore) Create(_ context.Context, name string) (Group, error) {
	defer observe("create", time.Now())

	if s.maxGroups > 0 {
		if n := s.count.Add(1); n > int64(s.maxGroups) {
			s.count.Add(-1)
			return Group{}, fmt.Errorf("create %q: %w", name, ErrCapacity)
		}
	} else {
		s.count.Add(1)
	}

	now := time.Now().UTC()
	g := &Group{
		ID:           s.newID(),
		Name:         name,
		Participants: []model.Participant{},
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      1,
	}

	sh := s.shardFor(g.ID)
	sh.mu.Lock()
	sh.groups[g.ID] = g
	sh.mu.Unlock()

	metrics.UpdateGroupsTotal(int(s.count.Load()))
	return g.Clone(), nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Group, error) {
	defer observe("get", time.Now())

	sh := s.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	g, ok := sh.groups[id]
	if !ok {
		return Group{}, fmt.Errorf("get %q: %w", id, ErrNotFound)
	}
	return g.Clone(), nil
}

func (s *MemoryStore) List(_ context.Context) ([]Group, error) {
	defer observe("list", time.Now())

	out := make([]Group, 0, s.count.Load())
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, g := range sh.groups {
			out = append(out, g.Clone())
		}
		sh.mu.RUnlock()
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	defer observe("delete", time.Now())

	sh := s.shardFor(id)
	sh.mu.Lock()
	g, ok := sh.groups[id]
	if ok {
		delete(sh.groups, id)
	}
	sh.mu.Unlock()

	if !ok {
		return fmt.Errorf("delete %q: %w", id, ErrNotFound)
	}
	s.count.Add(-1)
	s.participants.Add(-int64(len(g.Participants)))
	metrics.UpdateGroupsTotal(int(s.count.Load()))
	metrics.UpdateParticipantsTotal(int(s.participants.Load()))
	return nil
}

// mutate runs fn on the stored group under the shard lock and bumps its version.
func (s *MemoryStore) mutate(id string, fn func(g *Group) error) (Group, error) {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	g, ok := sh.groups[id]
	if !ok {
		return Group{}, fmt.Errorf("group %q: %w", id, ErrNotFound)
	}
	if err := fn(g); err != nil {
		return Group{}, err
	}
	g.Version++
	g.UpdatedAt = time.Now().UTC()
	return g.Clone(), nil
}

func (s *MemoryStore) AddParticipant(_ context.Context, groupID, name string, paid float64) (Group, model.Participant, error) {
	defer observe("add_participant", time.Now())

	p := model.Participant{ID: s.newID(), Name: name, Paid: paid}
	g, err := s.mutate(groupID, func(g *Group) error {
		if s.maxParticipants > 0 && len(g.Participants) >= s.maxParticipants {
			return fmt.Errorf("group %q: %w", groupID, ErrTooManyParticipants)
		}
		g.Participants = append(g.Participants, p)
		return nil
	})
	if err != nil {
		return Group{}, model.Participant{}, err
	}
	metrics.UpdateParticipantsTotal(int(s.participants.Add(1)))
	return g, p, nil
}

func (s *MemoryStore) UpdateParticipant(_ context.Context, groupID, participantID string, patch ParticipantPatch) (Group, error) {
	defer observe("update_participant", time.Now())

	return s.mutate(groupID, func(g *Group) error {
		i := indexOf(g.Participants, participantID)
		if i < 0 {
			return fmt.Errorf("participant %q in group %q: %w", participantID, groupID, ErrParticipantNotFound)
		}
		if patch.Name != nil {
			g.Participants[i].Name = *patch.Name
		}
		if patch.Paid != nil {
			g.Participants[i].Paid = *patch.Paid
		}
		return nil
	})
}

func (s *MemoryStore) RemoveParticipant(_ context.Context, groupID, participantID string) (Group, error) {
	defer observe("remove_participant", time.Now())

	g, err := s.mutate(groupID, func(g *Group) error {
		i := indexOf(g.Participants, participantID)
		if i < 0 {
			return fmt.Errorf("participant %q in group %q: %w", participantID, groupID, ErrParticipantNotFound)
		}
		g.Participants = append(g.Participants[:i], g.Participants[i+1:]...)
		return nil
	})
	if err != nil {
		return Group{}, err
	}
	metrics.UpdateParticipantsTotal(int(s.participants.Add(-1)))
	return g, nil
}

func (s *MemoryStore) Count(_ context.Context) int {
	return int(s.count.Load())
}

// ParticipantCount returns the number of participants across all groups.
func (s *MemoryStore) ParticipantCount() int {
	return int(s.participants.Load())
}

func indexOf(ps []model.Participant, id string) int {
	for i, p := range ps {
		if p.ID == id {
			return i
		}
	}
	return -1
}
