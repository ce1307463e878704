// Package query caches fetched collections per session and tracks in-flight mutations.
package query

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/trezcool/mediateam/core"
)

// FetchFunc loads a whole collection from the backend.
type FetchFunc func(ctx context.Context) (interface{}, error)

// Client is the collection cache shared by the resource services.
type Client struct {
	cache core.Cache
	group singleflight.Group

	mu       sync.Mutex
	gens     map[string]uint64 // only for keys with a fetch running
	fetching map[string]int
	inflight map[string]struct{}
}

func NewClient(cache core.Cache) *Client {
	return &Client{
		cache:    cache,
		gens:     make(map[string]uint64),
		fetching: make(map[string]int),
		inflight: make(map[string]struct{}),
	}
}

// Key scopes a resource to a session token. The token itself never ends up in a cache key.
func Key(resource, token string) string {
	sum := sha256.Sum256([]byte(token))
	return resource + ":" + hex.EncodeToString(sum[:12])
}

// Fetch decodes the cached collection stored at key into dst.
// On a miss fn is run (once for concurrent callers), its result cached and decoded into dst.
func (c *Client) Fetch(ctx context.Context, key string, dst interface{}, fn FetchFunc) error {
	if data, ok := c.cache.Get(ctx, key); ok {
		if err := json.Unmarshal(data, dst); err == nil {
			return nil
		}
	}
	return c.Refresh(ctx, key, dst, fn)
}

// Refresh always runs fn (once for concurrent callers), caches its result and decodes it into dst.
func (c *Client) Refresh(ctx context.Context, key string, dst interface{}, fn FetchFunc) error {
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		gen := c.startFetch(key)
		defer c.endFetch(key)

		res, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(res)
		if err != nil {
			return nil, errors.Wrap(err, "encoding collection")
		}
		c.store(ctx, key, gen, data)
		return data, nil
	})
	if err != nil {
		return err
	}
	return errors.Wrap(json.Unmarshal(v.([]byte), dst), "decoding collection")
}

// store caches data unless key was invalidated since the fetch started.
// The generation is checked again after the write since an invalidation may land in between.
func (c *Client) store(ctx context.Context, key string, gen uint64, data []byte) {
	if gen != c.generation(key) {
		return
	}
	_ = c.cache.Set(ctx, key, data)
	if gen != c.generation(key) {
		_ = c.cache.Delete(ctx, key)
	}
}

// Invalidate discards the cached collections so the next Fetch hits the backend.
func (c *Client) Invalidate(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	for _, key := range keys {
		if c.fetching[key] > 0 {
			c.gens[key]++
		}
		c.group.Forget(key)
	}
	c.mu.Unlock()
	return errors.Wrap(c.cache.Delete(ctx, keys...), "invalidating collections")
}

// Begin marks the mutation key as in flight. It fails with core.ErrInFlight if it already is.
// done must be called once the mutation settles.
func (c *Client) Begin(key string) (done func(), err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.inflight[key]; ok {
		return nil, core.ErrInFlight
	}
	c.inflight[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.inflight, key)
			c.mu.Unlock()
		})
	}, nil
}

func (c *Client) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[key]
}

func (c *Client) startFetch(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetching[key]++
	return c.gens[key]
}

// endFetch forgets the generation of key once no fetch of it is running.
func (c *Client) endFetch(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fetching[key]--; c.fetching[key] <= 0 {
		delete(c.fetching, key)
		delete(c.gens, key)
	}
}
