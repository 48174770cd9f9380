package services

import (
	"sync"
	"time"
)

// CacheEntry represents a cached item with expiration.
type CacheEntry struct {
	Data      interface{}
	ExpiresAt time.Time
}

// IsExpired checks if the cache entry has expired.
func (ce *CacheEntry) IsExpired() bool {
	return time.Now().After(ce.ExpiresAt)
}

// CacheService is the fast-cache tier: an in-memory TTL key/value store that holds the
// aggregated offer set between refreshes. Contents do not survive a process restart.
// Reads and writes are atomic with respect to each other; concurrent cache misses that
// both trigger a refresh are an accepted race, converging through the store's
// upsert-by-key semantics.
type CacheService struct {
	cache   map[string]*CacheEntry
	mutex   sync.RWMutex
	maxSize int
}

// NewCacheService creates a cache service with the given size cap.
func NewCacheService(maxSize int) *CacheService {
	cs := &CacheService{
		cache:   make(map[string]*CacheEntry),
		maxSize: maxSize,
	}

	go cs.cleanupExpired()

	return cs
}

// Get retrieves a value from cache. Expired entries read as absent.
func (cs *CacheService) Get(key string) (interface{}, bool) {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()

	entry, exists := cs.cache[key]
	if !exists || entry.IsExpired() {
		return nil, false
	}

	return entry.Data, true
}

// SetWithTTL stores a value in cache with the given TTL.
func (cs *CacheService) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	if len(cs.cache) >= cs.maxSize {
		cs.evictOldest()
	}

	cs.cache[key] = &CacheEntry{
		Data:      value,
		ExpiresAt: time.Now().Add(ttl),
	}
}

// evictOldest removes the entry closest to expiry.
func (cs *CacheService) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range cs.cache {
		if oldestKey == "" || entry.ExpiresAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.ExpiresAt
		}
	}

	if oldestKey != "" {
		delete(cs.cache, oldestKey)
	}
}

// Delete removes a value from cache.
func (cs *CacheService) Delete(key string) {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	delete(cs.cache, key)
}

// Clear removes all values from cache.
func (cs *CacheService) Clear() {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	cs.cache = make(map[string]*CacheEntry)
}

// Size returns the number of items in cache, expired entries included until cleanup.
func (cs *CacheService) Size() int {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()

	return len(cs.cache)
}

// cleanupExpired periodically removes expired entries.
func (cs *CacheService) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cs.mutex.Lock()
		for key, entry := range cs.cache {
			if entry.IsExpired() {
				delete(cs.cache, key)
			}
		}
		cs.mutex.Unlock()
	}
}
