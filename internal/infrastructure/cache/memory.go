package cache

import (
	"context"
	"sync"
	"time"
)

const (
	defaultMaxEntries      = 10000
	defaultCleanupInterval = 5 * time.Minute
)

// MemoryStore is a bounded in-memory key-value store with expiration
type MemoryStore struct {
	mu         sync.RWMutex
	items      map[string]*memoryItem
	maxEntries int
	now        func() time.Time

	cleanupInterval time.Duration
	stop            chan struct{}
	stopOnce        sync.Once
}

type memoryItem struct {
	value      string
	expireTime time.Time
}

// MemoryOption configures a MemoryStore
type MemoryOption func(*MemoryStore)

// WithMaxEntries bounds the number of live entries
func WithMaxEntries(n int) MemoryOption {
	return func(ms *MemoryStore) {
		if n > 0 {
			ms.maxEntries = n
		}
	}
}

// WithClock replaces time.Now, used by tests to move time forward
func WithClock(now func() time.Time) MemoryOption {
	return func(ms *MemoryStore) {
		if now != nil {
			ms.now = now
		}
	}
}

// WithCleanupInterval sets how often expired items are swept
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(ms *MemoryStore) {
		if d > 0 {
			ms.cleanupInterval = d
		}
	}
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	store := &MemoryStore{
		items:           make(map[string]*memoryItem),
		maxEntries:      defaultMaxEntries,
		now:             time.Now,
		cleanupInterval: defaultCleanupInterval,
		stop:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(store)
	}

	// Start cleanup goroutine to remove expired items
	go store.cleanupExpired()

	return store
}

// Set stores a key-value pair with expiration
func (ms *MemoryStore) Set(_ context.Context, key, value string, expiration time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.items[key]; !exists && len(ms.items) >= ms.maxEntries {
		ms.evictLocked()
	}

	ms.items[key] = &memoryItem{
		value:      value,
		expireTime: ms.now().Add(expiration),
	}
	return nil
}

// Get retrieves a value by key. Expired entries are reported as misses.
func (ms *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	item, exists := ms.items[key]
	if !exists {
		return "", false, nil
	}

	// Check if expired
	if !ms.now().Before(item.expireTime) {
		return "", false, nil
	}

	return item.value, true, nil
}

// Delete removes a key
func (ms *MemoryStore) Delete(_ context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.items, key)
	return nil
}

// Len returns the number of stored entries, expired ones included
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.items)
}

// Close stops the cleanup goroutine
func (ms *MemoryStore) Close() error {
	ms.stopOnce.Do(func() { close(ms.stop) })
	return nil
}

// evictLocked drops expired entries, or the entry closest to expiry when
// nothing has expired yet. Caller must hold the write lock.
func (ms *MemoryStore) evictLocked() {
	now := ms.now()
	var (
		victim    string
		victimExp time.Time
	)
	for key, item := range ms.items {
		if !now.Before(item.expireTime) {
			delete(ms.items, key)
			continue
		}
		if victim == "" || item.expireTime.Before(victimExp) {
			victim, victimExp = key, item.expireTime
		}
	}
	if len(ms.items) >= ms.maxEntries && victim != "" {
		delete(ms.items, victim)
	}
}

// cleanupExpired periodically removes expired items
func (ms *MemoryStore) cleanupExpired() {
	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ms.stop:
			return
		case <-ticker.C:
			ms.mu.Lock()
			now := ms.now()
			for key, item := range ms.items {
				if !now.Before(item.expireTime) {
					delete(ms.items, key)
				}
			}
			ms.mu.Unlock()
		}
	}
}
