package eval

import (
	"sync"
	"sync/atomic"

	"github.com/hailam/gameplay/internal/engine"
	"github.com/hailam/gameplay/internal/game"
)

// Hashed is a position with a Zobrist hash and an outcome.
type Hashed interface {
	Hash() uint64
	Outcome() game.Outcome
}

// Number of shards for cache locking (power of 2 for fast modulo)
const cacheShardCount = 64
const cacheShardMask = cacheShardCount - 1

type cacheEntry struct {
	key   uint64
	score float64
	used  bool
}

// Cache memoizes an evaluator by position hash. Decided positions bypass the table, since
// the hash does not cover the clocks and repetitions that decide them. Safe for concurrent
// use when the wrapped evaluator is.
type Cache[P Hashed] struct {
	inner   engine.Evaluator[P]
	entries []cacheEntry
	shards  [cacheShardCount]sync.Mutex
	mask    uint64

	hits   atomic.Uint64
	probes atomic.Uint64
}

// NewCache wraps inner with a table of at least one and at most entries slots, rounded
// down to a power of two.
func NewCache[P Hashed](inner engine.Evaluator[P], entries int) *Cache[P] {
	n := roundDownToPowerOf2(uint64(max(entries, 1)))
	return &Cache[P]{
		inner:   inner,
		entries: make([]cacheEntry, n),
		mask:    n - 1,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Evaluate implements engine.Evaluator.
func (c *Cache[P]) Evaluate(pos P) float64 {
	if pos.Outcome().Over() {
		return c.inner.Evaluate(pos)
	}

	hash := pos.Hash()
	idx := hash & c.mask
	shard := &c.shards[idx&cacheShardMask]

	c.probes.Add(1)
	shard.Lock()
	e := c.entries[idx]
	shard.Unlock()
	if e.used && e.key == hash {
		c.hits.Add(1)
		return e.score
	}

	score := c.inner.Evaluate(pos)

	shard.Lock()
	c.entries[idx] = cacheEntry{key: hash, score: score, used: true}
	shard.Unlock()
	return score
}

// HitRate returns the cache hit rate as a percentage.
func (c *Cache[P]) HitRate() float64 {
	probes := c.probes.Load()
	if probes == 0 {
		return 0
	}
	return float64(c.hits.Load()) / float64(probes) * 100
}

// Size returns the number of slots in the table.
func (c *Cache[P]) Size() int {
	return len(c.entries)
}

// Clear empties the table and resets the statistics.
func (c *Cache[P]) Clear() {
	for i := range c.shards {
		c.shards[i].Lock()
	}
	clear(c.entries)
	for i := range c.shards {
		c.shards[i].Unlock()
	}
	c.hits.Store(0)
	c.probes.Store(0)
}
