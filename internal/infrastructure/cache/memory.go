package cache

import (
	"context"
	"sync"
)

// MemoryLocker is an in-process keyed mutex. Waiters honor context cancellation.
type MemoryLocker struct {
	mu    sync.Mutex
	items map[string]*lockItem
}

type lockItem struct {
	sem  chan struct{}
	refs int
}

// NewMemoryLocker creates a new in-process locker
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		items: make(map[string]*lockItem),
	}
}

// Lock blocks until key is free or ctx is done
func (ml *MemoryLocker) Lock(ctx context.Context, key string) (func(), error) {
	ml.mu.Lock()
	item, exists := ml.items[key]
	if !exists {
		item = &lockItem{sem: make(chan struct{}, 1)}
		ml.items[key] = item
	}
	item.refs++
	ml.mu.Unlock()

	select {
	case item.sem <- struct{}{}:
	case <-ctx.Done():
		ml.release(key, item)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-item.sem
			ml.release(key, item)
		})
	}, nil
}

// release drops a reference and forgets idle keys
func (ml *MemoryLocker) release(key string, item *lockItem) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	item.refs--
	if item.refs == 0 {
		delete(ml.items, key)
	}
}

// Len reports how many keys are held or awaited
func (ml *MemoryLocker) Len() int {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	return len(ml.items)
}
