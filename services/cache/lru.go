// Package cachesvc provides core.Cache implementations.
package cachesvc

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/trezcool/mediateam/core"
)

const defaultTTL = 30 * time.Second

// LRUCache is the in-process cache. Entries expire after ttl, or defaultTTL when ttl is not positive.
type LRUCache struct {
	lru *expirable.LRU[string, []byte]
}

var _ core.Cache = (*LRUCache)(nil)

func NewLRUCache(size int, ttl time.Duration) *LRUCache {
	if size <= 0 {
		size = 256
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &LRUCache{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (c *LRUCache) Get(_ context.Context, key string) ([]byte, bool) {
	return c.lru.Get(key)
}

func (c *LRUCache) Set(_ context.Context, key string, value []byte) error {
	c.lru.Add(key, value)
	return nil
}

func (c *LRUCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		c.lru.Remove(key)
	}
	return nil
}

func (c *LRUCache) Len() int {
	return c.lru.Len()
}
