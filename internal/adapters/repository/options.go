package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithShardCount sets the number of lock shards groups are spread over.
func WithShardCount(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.shardCount = n
		}
	}
}

// WithMaxGroups caps the number of groups held. Zero or negative means unlimited.
func WithMaxGroups(n int) Option {
	return func(s *MemoryStore) {
		s.maxGroups = n
	}
}

// WithMaxParticipants caps the participants per group. Zero or negative means unlimited.
func WithMaxParticipants(n int) Option {
	return func(s *MemoryStore) {
		s.maxParticipants = n
	}
}

// WithIDGenerator overrides how group and participant ids are assigned.
func WithIDGenerator(gen func() string) Option {
	return func(s *MemoryStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}
