// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package casecache

import (
	"context"
	"fmt"
	"sync"

	"github.com/apex/log"
	"golang.org/x/sync/singleflight"

	"github.com/staranto/orthoview/internal/orthocase"
)

// DefaultCapacity keeps a single case resident.
const DefaultCapacity = 1

type entry struct {
	path string
	c    orthocase.Case
}

// Cache maps paths to loaded cases. It holds at most capacity entries and
// evicts the least recently used one when a new path is loaded into a full
// cache. All methods are safe for concurrent use.
type Cache struct {
	loader   orthocase.Loader
	capacity int

	mu      sync.Mutex
	entries []entry // most recently used first

	group singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithCapacity sets how many cases stay resident. Values below 1 are
// treated as 1.
func WithCapacity(n int) Option {
	return func(c *Cache) { c.capacity = max(n, 1) }
}

func New(loader orthocase.Loader, opts ...Option) *Cache {
	c := &Cache{
		loader:   loader,
		capacity: DefaultCapacity,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the case for path, loading it on a miss. Concurrent misses for
// the same path share one load. The load is detached from every caller's
// cancellation, so a caller that gives up returns ctx.Err() without failing
// the others, and the finished case is still stored. Failed loads are not
// cached.
func (c *Cache) Get(ctx context.Context, path string) (orthocase.Case, error) {
	if oc, ok := c.lookup(path); ok {
		log.Debugf("case cache hit: %s", path)
		return oc, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to load case %s: %w", path, err)
	}

	ch := c.group.DoChan(path, func() (any, error) {
		// A flight that finished between lookup and DoChan may have stored it.
		if oc, ok := c.lookup(path); ok {
			return oc, nil
		}

		log.Debugf("case cache miss: %s", path)
		oc, err := c.loader.Load(context.WithoutCancel(ctx), path)
		if err != nil {
			return nil, err
		}
		c.store(path, oc)
		return oc, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to load case %s: %w", path, ctx.Err())
	case r := <-ch:
		if r.Err != nil {
			return nil, fmt.Errorf("failed to load case %s: %w", path, r.Err)
		}
		if r.Shared {
			log.Debugf("case load shared: %s", path)
		}
		return r.Val.(orthocase.Case), nil
	}
}

// Current returns the most recently used path.
func (c *Cache) Current() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) == 0 {
		return "", false
	}
	return c.entries[0].path, true
}

// Paths lists the cached paths, most recently used first.
func (c *Cache) Paths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.path
	}
	return out
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) Capacity() int {
	return c.capacity
}

// lookup finds path and moves it to the front.
func (c *Cache) lookup(path string) (orthocase.Case, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, e := range c.entries {
		if e.path == path {
			c.promote(i)
			return e.c, true
		}
	}
	return nil, false
}

func (c *Cache) store(path string, oc orthocase.Case) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, e := range c.entries {
		if e.path == path {
			c.entries[i].c = oc
			c.promote(i)
			return
		}
	}

	c.entries = append([]entry{{path: path, c: oc}}, c.entries...)
	for len(c.entries) > c.capacity {
		evicted := c.entries[len(c.entries)-1]
		c.entries = c.entries[:len(c.entries)-1]
		log.Debugf("evicted case %s", evicted.path)
	}
}

// promote moves entries[i] to the front. Callers hold mu.
func (c *Cache) promote(i int) {
	if i == 0 {
		return
	}
	e := c.entries[i]
	copy(c.entries[1:i+1], c.entries[:i])
	c.entries[0] = e
}
