// Package memo caches settlement summaries by snapshot fingerprint.
package memo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/okian/splitpool/internal/domain/model"
)

const defaultMaxSize = 1024

// Cache stores summaries keyed by the fingerprint of the snapshot that
// produced them. A changed snapshot has a different key, so stale entries are
// never returned; they age out through eviction.
type Cache interface {
	// Get returns the cached summary for key, if any.
	Get(ctx context.Context, key string) (model.Summary, bool)

	// Put stores summary under key, evicting the oldest entry when full.
	Put(ctx context.Context, key string, summary model.Summary)

	// Purge drops every entry.
	Purge(ctx context.Context)

	Size() int64
}

// node is a cache entry in the insertion-ordered list.
type node struct {
	key     string
	summary model.Summary
	prev    *node // newer
	next    *node // older
}

func (n *node) reset() {
	n.key = ""
	n.summary = model.Summary{}
	n.prev = nil
	n.next = nil
}

// inMemoryCache implements Cache with a map and a doubly linked list whose
// head is the newest entry and tail the oldest.
type inMemoryCache struct {
	mu       sync.RWMutex
	entries  map[string]*node
	head     *node
	tail     *node
	maxSize  int
	size     atomic.Int64
	nodePool sync.Pool
}

// NewInMemoryCache creates a new in-memory cache with configuration options.
func NewInMemoryCache(opts ...Option) Cache {
	c := &inMemoryCache{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = make(map[string]*node)
	c.nodePool = sync.Pool{
		New: func() interface{} {
			return &node{}
		},
	}
	return c
}

// Get returns a copy of the cached summary so callers cannot alias the
// cached settlement slice.
func (c *inMemoryCache) Get(_ context.Context, key string) (model.Summary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n, ok := c.entries[key]
	if !ok {
		return model.Summary{}, false
	}
	return cloneSummary(n.summary), true
}

func (c *inMemoryCache) Put(_ context.Context, key string, summary model.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok {
		n.summary = cloneSummary(summary)
		return
	}

	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	n := c.nodePool.Get().(*node)
	n.key = key
	n.summary = cloneSummary(summary)
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	} else {
		c.tail = n
	}
	c.head = n
	c.entries[key] = n
	c.size.Add(1)
}

func (c *inMemoryCache) Purge(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for n := c.head; n != nil; {
		next := n.next
		n.reset()
		c.nodePool.Put(n)
		n = next
	}
	c.head = nil
	c.tail = nil
	c.entries = make(map[string]*node)
	c.size.Store(0)
}

// evictOldest removes the tail of the list.
// Must be called with c.mu held.
func (c *inMemoryCache) evictOldest() {
	tail := c.tail
	if tail == nil {
		return
	}
	c.tail = tail.prev
	if c.tail != nil {
		c.tail.next = nil
	} else {
		c.head = nil
	}
	delete(c.entries, tail.key)
	tail.reset()
	c.nodePool.Put(tail)
	c.size.Add(-1)
}

func (c *inMemoryCache) Size() int64 {
	return c.size.Load()
}

func cloneSummary(s model.Summary) model.Summary {
	out := s
	out.Settlements = append(make([]model.Settlement, 0, len(s.Settlements)), s.Settlements...)
	return out
}

// Fingerprint derives a cache key from a namespace (e.g. the unknown-name
// label) and the ordered participant snapshot.
func Fingerprint(namespace string, participants []model.Participant) string {
	h := sha256.New()
	buf := make([]byte, 0, 64)
	buf = append(buf, namespace...)
	buf = append(buf, 0)
	_, _ = h.Write(buf)
	for _, p := range participants {
		buf = buf[:0]
		buf = append(buf, p.ID...)
		buf = append(buf, 0x1f)
		buf = append(buf, p.Name...)
		buf = append(buf, 0x1f)
		buf = strconv.AppendFloat(buf, p.Paid, 'g', -1, 64)
		buf = append(buf, 0x1e)
		_, _ = h.Write(buf)
	}
	return hex.EncodeToString(h.Sum(nil))
}
