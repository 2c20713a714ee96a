// Package cache holds the read-through cache that sits in front of the
// fixture client. Entries are keyed by resource path and hold the raw
// payload of the last successful fetch.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/wtstats/wtstats/pkg/metrics"
)

// Entry is a cached payload and the time it was resolved.
type Entry struct {
	Path       string
	Payload    []byte
	ResolvedAt time.Time
}

// Cache maps resource paths to their last resolved payloads.
type Cache interface {
	// Get returns the entry for path. Expired entries are dropped and
	// reported as misses.
	Get(ctx context.Context, path string) (Entry, bool)
	// Put stores payload for path, replacing any previous entry.
	Put(ctx context.Context, path string, payload []byte)
	// Invalidate drops path. It reports whether an entry existed.
	Invalidate(ctx context.Context, path string) bool
	// Purge drops every entry.
	Purge(ctx context.Context)
	Len() int
}

// node is one entry in the insertion-ordered list. head is the newest.
type node struct {
	entry      Entry
	prev, next *node
}

func (n *node) reset() {
	n.entry = Entry{}
	n.prev = nil
	n.next = nil
}

type inMemoryCache struct {
	mu       sync.Mutex
	entries  map[string]*node
	head     *node
	tail     *node
	maxSize  int
	ttl      time.Duration
	now      func() time.Time
	nodePool sync.Pool
}

// New creates an in-memory cache. Defaults to 256 entries and no expiry.
func New(opts ...Option) Cache {
	c := &inMemoryCache{
		maxSize: 256,
		now:     time.Now,
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

func (c *inMemoryCache) Get(_ context.Context, path string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[path]
	if !ok {
		metrics.RecordCacheMiss()
		return Entry{}, false
	}
	if c.ttl > 0 && c.now().Sub(n.entry.ResolvedAt) >= c.ttl {
		c.remove(n)
		metrics.RecordCacheEviction()
		metrics.RecordCacheMiss()
		return Entry{}, false
	}
	metrics.RecordCacheHit()
	return n.entry, true
}

func (c *inMemoryCache) Put(_ context.Context, path string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[path]; ok {
		c.remove(old)
	}
	if c.maxSize > 0 {
		for len(c.entries) >= c.maxSize && c.tail != nil {
			c.remove(c.tail)
			metrics.RecordCacheEviction()
		}
	}

	n := c.nodePool.Get().(*node)
	n.entry = Entry{Path: path, Payload: payload, ResolvedAt: c.now()}
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
	c.entries[path] = n
	metrics.UpdateCacheEntries(len(c.entries))
}

func (c *inMemoryCache) Invalidate(_ context.Context, path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[path]
	if !ok {
		return false
	}
	c.remove(n)
	return true
}

func (c *inMemoryCache) Purge(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.head != nil {
		c.remove(c.head)
	}
}

func (c *inMemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove unlinks n and returns it to the pool. Must be called with c.mu held.
func (c *inMemoryCache) remove(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	delete(c.entries, n.entry.Path)
	n.reset()
	c.nodePool.Put(n)
	metrics.UpdateCacheEntries(len(c.entries))
}
