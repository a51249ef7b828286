package cache

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/WagdySamih/Trading-Dashboard/pkg/models"
)

// for deterministic testing
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Stats is a read-only snapshot of cache counters.
type Stats struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

type entry struct {
	key       string
	points    []models.HistoricalPoint
	expiresAt time.Time
}

// Cache is an in-memory store for historical series keyed by
// (ticker, window). TTL is tiered by window length and fixed at Set
// time; capacity is bounded with oldest-inserted-first eviction.
type Cache struct {
	logger *zap.Logger
	clock  Clock

	mu         sync.Mutex
	entries    map[string]*entry
	order      []string // insertion order, oldest first
	hits       uint64
	misses     uint64
	maxEntries int

	stopSweep chan struct{}
	closeOnce sync.Once
}

func NewCache(logger *zap.Logger, maxEntries int, sweepInterval time.Duration, clock Clock) *Cache {
	c := &Cache{
		logger:     logger,
		clock:      clock,
		entries:    make(map[string]*entry),
		maxEntries: maxEntries,
		stopSweep:  make(chan struct{}),
	}
	go c.sweepLoop(sweepInterval)
	return c
}

// Get returns the live series for (tickerID, hours), or false on a miss.
// An expired entry is never returned, even before the sweep removes it.
// Exactly one hit or miss is counted per call.
func (c *Cache) Get(tickerID string, hours float64) ([]models.HistoricalPoint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(tickerID, hours)
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if !c.clock.Now().Before(e.expiresAt) {
		c.removeLocked(key)
		c.misses++
		return nil, false
	}

	c.hits++
	return e.points, true
}

// Set stores a series under (tickerID, hours) with the tiered TTL.
// Empty series are rejected: caching them would hide a persistent miss
// behind an empty result until the TTL ran out. Overwriting a live key
// counts as a fresh insertion for eviction order.
func (c *Cache) Set(tickerID string, hours float64, points []models.HistoricalPoint) bool {
	if len(points) == 0 {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(tickerID, hours)
	if _, ok := c.entries[key]; ok {
		c.removeLocked(key)
	}

	if len(c.entries) >= c.maxEntries {
		oldest := c.order[0]
		c.removeLocked(oldest)
		c.logger.Debug("Cache evicted oldest entry", zap.String("key", oldest))
	}

	c.entries[key] = &entry{
		key:       key,
		points:    points,
		expiresAt: c.clock.Now().Add(ttlFor(hours)),
	}
	c.order = append(c.order, key)
	return true
}

// InvalidateAll drops every entry. Hit/miss counters survive the flush.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*entry)
	c.order = nil
	c.logger.Info("Cache flushed")
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Entries: len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
	}
}

// Close stops the background sweep.
func (c *Cache) Close() {
	c.closeOnce.Do(func() { close(c.stopSweep) })
}

func (c *Cache) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopSweep:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Cache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	var expired []string
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			expired = append(expired, key)
		}
	}
	for _, key := range expired {
		c.removeLocked(key)
	}
	if len(expired) > 0 {
		c.logger.Debug("Cache sweep removed expired entries", zap.Int("count", len(expired)))
	}
}

// removeLocked deletes an entry and its insertion-order slot. Caller
// holds c.mu.
func (c *Cache) removeLocked(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func cacheKey(tickerID string, hours float64) string {
	return fmt.Sprintf("history:%s:%sh", tickerID, strconv.FormatFloat(hours, 'f', -1, 64))
}

// ttlFor assigns the freshness tier at insertion time. Shorter windows
// are more volatile relative to their own span and cheaper to
// regenerate, so they are cached the least.
func ttlFor(hours float64) time.Duration {
	switch {
	case hours < 0.5:
		return 5 * time.Second
	case hours <= 1:
		return 300 * time.Second
	case hours <= 24:
		return 480 * time.Second
	default:
		return 600 * time.Second
	}
}
