// pkg/memcache/photo_cache.go
package mem

import (
	"context"
	"sync"
	"time"
)

// URLCache maps a lookup key to a resolved image URL.
type URLCache interface {
	// Get returns "" and false when the key is missing or expired.
	Get(ctx context.Context, key string) (string, bool)

	// Set stores url for ttl; ttl <= 0 keeps it until Stop or process exit.
	Set(ctx context.Context, key string, url string, ttl time.Duration) error
}

type entry struct {
	url       string
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// LocalURLCache is the process-local tier. A janitor goroutine sweeps expired entries until
// Stop is called.
type LocalURLCache struct {
	mu   sync.RWMutex
	data map[string]entry

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewLocalURLCache(sweepEvery time.Duration) *LocalURLCache {
	c := &LocalURLCache{
		data: make(map[string]entry),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	if sweepEvery <= 0 {
		close(c.done)
		return c
	}
	go c.janitor(sweepEvery)
	return c
}

func (c *LocalURLCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.data[key]
	if !ok || e.expired(time.Now()) {
		return "", false
	}
	return e.url, true
}

func (c *LocalURLCache) Set(_ context.Context, key string, url string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{url: url}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	c.data[key] = e
	return nil
}

func (c *LocalURLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Sweep drops every expired entry and reports how many were removed.
func (c *LocalURLCache) Sweep() int {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.data {
		if e.expired(now) {
			delete(c.data, k)
			removed++
		}
	}
	return removed
}

// Stop ends the janitor and waits for it to exit. Safe to call more than once.
func (c *LocalURLCache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
}

func (c *LocalURLCache) janitor(every time.Duration) {
	defer close(c.done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Sweep()
		case <-c.stop:
			return
		}
	}
}

// TieredURLCache reads the local tier first and backfills it from the shared tier.
type TieredURLCache struct {
	local    URLCache
	shared   URLCache
	localTTL time.Duration
}

// IsShared reports whether c writes through to a shared tier.
func IsShared(c URLCache) bool {
	_, ok := c.(*TieredURLCache)
	return ok
}

func NewTieredURLCache(local, shared URLCache, localTTL time.Duration) *TieredURLCache {
	return &TieredURLCache{local: local, shared: shared, localTTL: localTTL}
}

func (t *TieredURLCache) Get(ctx context.Context, key string) (string, bool) {
	if url, ok := t.local.Get(ctx, key); ok {
		return url, true
	}
	if t.shared == nil {
		return "", false
	}
	url, ok := t.shared.Get(ctx, key)
	if !ok {
		return "", false
	}
	_ = t.local.Set(ctx, key, url, t.localTTL)
	return url, true
}

// Set always fills the local tier; a shared-tier error is returned but the local value stays.
func (t *TieredURLCache) Set(ctx context.Context, key string, url string, ttl time.Duration) error {
	localTTL := t.localTTL
	if ttl > 0 && (localTTL <= 0 || ttl < localTTL) {
		localTTL = ttl
	}
	if err := t.local.Set(ctx, key, url, localTTL); err != nil {
		return err
	}
	if t.shared == nil {
		return nil
	}
	return t.shared.Set(ctx, key, url, ttl)
}
