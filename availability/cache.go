package availability

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"sync"
	"time"
)

// cacheEntry represents one cached grid computation
type cacheEntry struct {
	Slots      []Slot
	ExpiresAt  time.Time
	AccessedAt time.Time
}

// resultCache caches computed availability grids. Busy periods are sourced
// from external calendars and go stale, so entries carry a TTL; a cleanup
// goroutine evicts expired and least-recently-accessed entries.
type resultCache struct {
	entries         map[string]*cacheEntry
	mutex           sync.RWMutex
	ttl             time.Duration
	maxEntries      int
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
}

// CacheConfig holds configuration for the availability result cache
type CacheConfig struct {
	TTL             time.Duration // How long entries stay valid
	MaxEntries      int           // Maximum number of entries before cleanup
	CleanupInterval time.Duration // How often to run cleanup
}

// DefaultCacheConfig provides sensible defaults for grid caching
var DefaultCacheConfig = CacheConfig{
	TTL:             15 * time.Minute,
	MaxEntries:      1000,
	CleanupInterval: 5 * time.Minute,
}

func newResultCache(config CacheConfig) *resultCache {
	cache := &resultCache{
		entries:         make(map[string]*cacheEntry),
		ttl:             config.TTL,
		maxEntries:      config.MaxEntries,
		cleanupInterval: config.CleanupInterval,
		stopCleanup:     make(chan struct{}),
	}

	go cache.cleanupLoop()

	return cache
}

// cacheKey hashes every input that affects the grid. Participants are walked
// in sorted order so two requests with the same content but different map
// iteration order hit the same entry.
func cacheKey(req Request) string {
	hasher := sha256.New()

	hasher.Write([]byte(req.WindowStart.UTC().Format(time.RFC3339Nano)))
	hasher.Write([]byte(req.WindowEnd.UTC().Format(time.RFC3339Nano)))
	hasher.Write([]byte(req.SlotDuration.String()))

	participantIDs := make([]string, 0, len(req.BusyPeriods))
	for id := range req.BusyPeriods {
		participantIDs = append(participantIDs, id)
	}
	sort.Strings(participantIDs)

	for _, id := range participantIDs {
		hasher.Write([]byte(id))
		for _, busy := range req.BusyPeriods[id] {
			hasher.Write([]byte(busy.Start.Format(time.RFC3339Nano)))
			hasher.Write([]byte(busy.End.Format(time.RFC3339Nano)))
		}
	}

	return fmt.Sprintf("%x", hasher.Sum(nil))
}

// Get retrieves a cached grid if it exists and hasn't expired. The returned
// slice is a copy so callers cannot corrupt the cached value.
func (c *resultCache) Get(req Request) ([]Slot, bool) {
	key := cacheKey(req)

	c.mutex.RLock()
	entry, exists := c.entries[key]
	c.mutex.RUnlock()

	if !exists {
		return nil, false
	}

	now := time.Now()
	if now.After(entry.ExpiresAt) {
		c.mutex.Lock()
		delete(c.entries, key)
		c.mutex.Unlock()
		return nil, false
	}

	c.mutex.Lock()
	entry.AccessedAt = now
	slots := make([]Slot, len(entry.Slots))
	copy(slots, entry.Slots)
	c.mutex.Unlock()

	return slots, true
}

// Set stores a computed grid in the cache
func (c *resultCache) Set(req Request, slots []Slot) {
	key := cacheKey(req)
	now := time.Now()

	stored := make([]Slot, len(slots))
	copy(stored, slots)

	entry := &cacheEntry{
		Slots:      stored,
		ExpiresAt:  now.Add(c.ttl),
		AccessedAt: now,
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = entry

	if len(c.entries) > c.maxEntries {
		c.cleanup()
	}
}

// cleanup removes expired entries and oldest entries if over limit.
// Callers must hold the write lock.
func (c *resultCache) cleanup() {
	now := time.Now()

	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
		}
	}

	if len(c.entries) > c.maxEntries {
		type keyAccess struct {
			key        string
			accessedAt time.Time
		}

		keyAccessList := make([]keyAccess, 0, len(c.entries))
		for key, entry := range c.entries {
			keyAccessList = append(keyAccessList, keyAccess{
				key:        key,
				accessedAt: entry.AccessedAt,
			})
		}

		sort.Slice(keyAccessList, func(i, j int) bool {
			return keyAccessList[i].accessedAt.Before(keyAccessList[j].accessedAt)
		})

		entriesToRemove := len(c.entries) - c.maxEntries
		for i := 0; i < entriesToRemove && i < len(keyAccessList); i++ {
			delete(c.entries, keyAccessList[i].key)
		}
	}
}

// cleanupLoop runs periodic cleanup
func (c *resultCache) cleanupLoop() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mutex.Lock()
			c.cleanup()
			c.mutex.Unlock()
		case <-c.stopCleanup:
			return
		}
	}
}

// Close stops the cleanup goroutine and clears the cache
func (c *resultCache) Close() {
	close(c.stopCleanup)
	c.mutex.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mutex.Unlock()
}

// Stats returns cache statistics
func (c *resultCache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entryCount := len(c.entries)
	expiredCount := 0
	now := time.Now()

	for _, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			expiredCount++
		}
	}

	return CacheStats{
		TotalEntries:   entryCount,
		ExpiredEntries: expiredCount,
		ActiveEntries:  entryCount - expiredCount,
	}
}

// CacheStats provides information about cache occupancy
type CacheStats struct {
	TotalEntries   int
	ExpiredEntries int
	ActiveEntries  int
}
