// Package cache - кэш по ключу с явными состояниями записей: pending, пока значение
// загружается, и resolved, когда оно готово. Параллельные загрузки одного ключа
// схлопываются в одну.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/metrics"
)

type entryState int

const (
	statePending entryState = iota
	stateResolved
)

type entry[V any] struct {
	state     entryState
	done      chan struct{}
	value     V
	err       error
	expiresAt time.Time
}

// Loader загружает значение при промахе кэша.
type Loader[V any] func(ctx context.Context) (V, error)

// Cache хранит значения по ключу. Ошибки загрузки не кэшируются:
// все ожидающие получают ошибку, следующий Get загружает заново.
type Cache[V any] struct {
	name    string
	mu      sync.Mutex
	entries map[string]*entry[V]
	ttl     time.Duration
	now     func() time.Time
	metrics *metrics.Metrics
}

// New создает кэш. name попадает в метрики, ttl <= 0 означает, что записи не устаревают.
func New[V any](name string, ttl time.Duration, m *metrics.Metrics) *Cache[V] {
	return &Cache[V]{
		name:    name,
		entries: make(map[string]*entry[V]),
		ttl:     ttl,
		now:     time.Now,
		metrics: m,
	}
}

func (c *Cache[V]) Get(ctx context.Context, key string, load Loader[V]) (V, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		switch e.state {
		case stateResolved:
			if !c.expired(e) {
				c.mu.Unlock()
				c.metrics.CacheLookup(c.name, "hit")
				return e.value, nil
			}
			delete(c.entries, key)
		case statePending:
			c.mu.Unlock()
			c.metrics.CacheLookup(c.name, "wait")
			return c.wait(ctx, e)
		}
	}

	e := &entry[V]{state: statePending, done: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()
	c.metrics.CacheLookup(c.name, "miss")

	value, err := load(ctx)

	c.mu.Lock()
	if err != nil {
		e.err = err
		if c.entries[key] == e {
			delete(c.entries, key)
		}
	} else {
		e.value = value
		e.state = stateResolved
		e.expiresAt = c.now().Add(c.ttl)
	}
	close(e.done)
	c.mu.Unlock()

	return value, err
}

func (c *Cache[V]) wait(ctx context.Context, e *entry[V]) (V, error) {
	select {
	case <-e.done:
		return e.value, e.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Set записывает готовое значение, заменяя любую текущую запись.
func (c *Cache[V]) Set(key string, value V) {
	done := make(chan struct{})
	close(done)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &entry[V]{
		state:     stateResolved,
		done:      done,
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

func (c *Cache[V]) expired(e *entry[V]) bool {
	if c.ttl <= 0 {
		return false
	}
	return !c.now().Before(e.expiresAt)
}
