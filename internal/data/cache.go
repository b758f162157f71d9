package data

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"sync"
	"time"
)

type CacheEntry struct {
	Payload   []byte
	ExpiresAt time.Time
}

// ResultCache holds encoded engine results keyed by request hash.
// Engine calls are pure, so an entry never goes stale before its TTL.
type ResultCache struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
	ttl   time.Duration
	now   func() time.Time
}

var globalCache *ResultCache
var cacheOnce sync.Once

// NewResultCache returns an empty cache with the given TTL.
func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		store: make(map[string]*CacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// GetCache returns the process-wide cache, or nil unless
// ENABLE_RESULT_CACHE=true. RESULT_CACHE_TTL overrides the 10m default.
func GetCache() *ResultCache {
	if os.Getenv("ENABLE_RESULT_CACHE") != "true" {
		return nil
	}
	cacheOnce.Do(func() {
		ttl := 10 * time.Minute
		if ttlStr := os.Getenv("RESULT_CACHE_TTL"); ttlStr != "" {
			if parsed, err := time.ParseDuration(ttlStr); err == nil {
				ttl = parsed
			}
		}
		globalCache = NewResultCache(ttl)
	})
	return globalCache
}

func (c *ResultCache) Get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists || c.now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Payload, true
}

// Set stores payload and drops any expired entries.
func (c *ResultCache) Set(key string, payload []byte) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.store {
		if now.After(e.ExpiresAt) {
			delete(c.store, k)
		}
	}
	c.store[key] = &CacheEntry{
		Payload:   payload,
		ExpiresAt: now.Add(c.ttl),
	}
}

func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

func (c *ResultCache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]*CacheEntry)
}

// GenerateCacheKey hashes a route name and its JSON-encoded request.
// encoding/json sorts map keys, so equal requests hash equally.
func GenerateCacheKey(route string, req any) (string, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(append([]byte(route+":"), raw...))
	return hex.EncodeToString(hash[:]), nil
}
