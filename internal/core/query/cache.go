// Package query caches backend reads keyed by logical query, shares in-flight
// requests between identical keys and serves stale values while revalidating.
package query

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// DefaultStaleTime applies when neither the cache nor the call sets one
const DefaultStaleTime = 30 * time.Second

type entry struct {
	parts    []string
	value    any
	hasValue bool
	err      error
	// generation of the fetch that produced value
	valueGen uint64
	// last invalidation that matched this entry
	invalidatedAt uint64
	updatedAt     time.Time
	lastUsed      time.Time
}

func (e *entry) invalid() bool {
	return e.invalidatedAt > e.valueGen
}

// Options configures a Cache
type Options struct {
	StaleTime time.Duration
	Logger    logrus.FieldLogger
	Now       func() time.Time
}

// Cache is safe for concurrent use
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	gen     uint64
	group   singleflight.Group

	staleTime time.Duration
	now       func() time.Time
	log       logrus.FieldLogger
}

func New(opts Options) *Cache {
	if opts.StaleTime <= 0 {
		opts.StaleTime = DefaultStaleTime
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Cache{
		entries:   make(map[string]*entry),
		staleTime: opts.StaleTime,
		now:       opts.Now,
		log:       opts.Logger.WithField("component", "query"),
	}
}

// Option tunes a single Fetch
type Option func(*fetchOptions)

type fetchOptions struct {
	staleTime    time.Duration
	requireFresh bool
}

// StaleTime overrides how long a result stays fresh
func StaleTime(d time.Duration) Option {
	return func(o *fetchOptions) { o.staleTime = d }
}

// RequireFresh makes a stale hit block on the refetch instead of returning early
func RequireFresh() Option {
	return func(o *fetchOptions) { o.requireFresh = true }
}

// Fetch returns the cached value for key, loading it with fn when missing,
// invalidated, or stale. A failed load leaves the previous value in place.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (T, error), opts ...Option) (T, error) {
	o := fetchOptions{staleTime: c.staleTime}
	for _, opt := range opts {
		opt(&o)
	}

	id := key.String()
	load := func(ctx context.Context) (any, error) { return fn(ctx) }

	if v, state := c.lookup(id, o.staleTime); state != miss {
		if typed, ok := v.(T); ok {
			switch {
			case state == fresh:
				return typed, nil
			case !o.requireFresh:
				go c.revalidate(ctx, id, key, load)
				return typed, nil
			}
		}
	}

	v, err := c.load(ctx, id, key, load)
	if err != nil {
		var zero T
		return zero, err
	}
	typed, _ := v.(T)
	return typed, nil
}

// Get returns the cached value regardless of freshness
func Get[T any](c *Cache, key Key) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	e, ok := c.entries[key.String()]
	if !ok || !e.hasValue {
		return zero, false
	}
	v, ok := e.value.(T)
	return v, ok
}

// Err returns the error of the last failed load for key, nil after a success
func (c *Cache) Err(key Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key.String()]; ok {
		return e.err
	}
	return nil
}

// Set stores value as the fresh result for key. Loads started earlier will not
// overwrite it.
func (c *Cache) Set(key Key, value any) {
	id := key.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	e := c.entryLocked(id, key)
	e.value = value
	e.hasValue = true
	e.err = nil
	e.valueGen = c.gen
	e.updatedAt = c.now()
	c.group.Forget(id)
}

// Invalidate marks every entry whose key starts with one of the prefixes as
// invalid; the next Fetch blocks on a refetch.
func (c *Cache) Invalidate(prefixes ...Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	n := 0
	for _, prefix := range prefixes {
		pp := prefix.parts()
		for id, e := range c.entries {
			if hasPrefix(e.parts, pp) {
				e.invalidatedAt = c.gen
				c.group.Forget(id)
				n++
			}
		}
	}
	return n
}

// Remove drops every entry whose key starts with prefix
func (c *Cache) Remove(prefix Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	pp := prefix.parts()
	n := 0
	for id, e := range c.entries {
		if hasPrefix(e.parts, pp) {
			delete(c.entries, id)
			c.group.Forget(id)
			n++
		}
	}
	return n
}

// GC evicts entries nobody read for maxIdle
func (c *Cache) GC(maxIdle time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := c.now().Add(-maxIdle)
	n := 0
	for id, e := range c.entries {
		if e.lastUsed.Before(cutoff) {
			delete(c.entries, id)
			n++
		}
	}
	return n
}

// Len reports the number of cached entries
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

type lookupState int

const (
	miss lookupState = iota
	stale
	fresh
)

func (c *Cache) lookup(id string, staleTime time.Duration) (any, lookupState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return nil, miss
	}
	now := c.now()
	e.lastUsed = now
	if !e.hasValue || e.invalid() {
		return nil, miss
	}
	if now.Sub(e.updatedAt) < staleTime {
		return e.value, fresh
	}
	return e.value, stale
}

func (c *Cache) entryLocked(id string, key Key) *entry {
	e, ok := c.entries[id]
	if !ok {
		e = &entry{parts: key.parts(), lastUsed: c.now()}
		c.entries[id] = e
	}
	return e
}

// load runs fn once per key at a time. Waiters may give up on ctx while the
// shared load keeps going with ctx values but without its cancellation.
func (c *Cache) load(ctx context.Context, id string, key Key, fn func(context.Context) (any, error)) (any, error) {
	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(id, func() (any, error) {
		c.mu.Lock()
		startGen := c.gen
		c.entryLocked(id, key)
		c.mu.Unlock()

		v, err := fn(detached)
		c.store(id, key, startGen, v, err)
		return v, err
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) store(id string, key Key, startGen uint64, v any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(id, key)
	if err != nil {
		e.err = err
		return
	}
	if e.hasValue && startGen < e.valueGen {
		// a newer value landed while this load was in flight
		return
	}
	e.value = v
	e.hasValue = true
	e.err = nil
	e.valueGen = startGen
	e.updatedAt = c.now()
}

func (c *Cache) revalidate(ctx context.Context, id string, key Key, fn func(context.Context) (any, error)) {
	if _, err := c.load(context.WithoutCancel(ctx), id, key, fn); err != nil {
		c.log.WithError(err).WithField("key", id).Debug("background revalidation failed")
	}
}
