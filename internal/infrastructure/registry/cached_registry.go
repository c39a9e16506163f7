package registry

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/repository"
)

type cacheEntry struct {
	value    interface{}
	expireAt time.Time
}

// CachedRegistry is a read-through TTL cache in front of another registry.
// Concurrent lookups for the same key are collapsed into one backend call.
// Misses (nil results) are cached too so unknown addresses do not hammer the
// backend.
type CachedRegistry struct {
	backend repository.AddressRegistry
	ttl     time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry
	group   singleflight.Group
}

// NewCachedRegistry wraps a registry backend with a TTL cache
func NewCachedRegistry(backend repository.AddressRegistry, ttl time.Duration) *CachedRegistry {
	return &CachedRegistry{
		backend: backend,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// LookupAddress resolves through the cache
func (r *CachedRegistry) LookupAddress(ctx context.Context, address string) (*entity.AddressLabel, error) {
	v, err := r.lookup(ctx, "addr:"+strings.ToLower(address), func() (interface{}, error) {
		return r.backend.LookupAddress(ctx, address)
	})
	if err != nil {
		return nil, err
	}
	label, _ := v.(*entity.AddressLabel)
	return label, nil
}

// LookupToken resolves through the cache
func (r *CachedRegistry) LookupToken(ctx context.Context, contractAddress string) (*entity.TokenInfo, error) {
	v, err := r.lookup(ctx, "token:"+strings.ToLower(contractAddress), func() (interface{}, error) {
		return r.backend.LookupToken(ctx, contractAddress)
	})
	if err != nil {
		return nil, err
	}
	token, _ := v.(*entity.TokenInfo)
	return token, nil
}

func (r *CachedRegistry) lookup(_ context.Context, key string, fetch func() (interface{}, error)) (interface{}, error) {
	r.mu.RLock()
	entry, ok := r.entries[key]
	r.mu.RUnlock()
	if ok && time.Now().Before(entry.expireAt) {
		return entry.value, nil
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		value, err := fetch()
		if err != nil {
			// Failures are not cached; the next lookup retries the backend
			return nil, err
		}
		r.mu.Lock()
		r.entries[key] = cacheEntry{value: value, expireAt: time.Now().Add(r.ttl)}
		r.mu.Unlock()
		return value, nil
	})
	return v, err
}

// Purge drops all cached entries
func (r *CachedRegistry) Purge() {
	r.mu.Lock()
	r.entries = make(map[string]cacheEntry)
	r.mu.Unlock()
}
