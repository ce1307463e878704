// Package limitsvc provides fixed-window core.Limiter implementations.
package limitsvc

import (
	"sync"
	"time"

	"github.com/trezcool/mediateam/core"
)

type bucket struct {
	count     int
	windowEnd time.Time
}

// MemoryLimiter counts hits per key in process.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

var _ core.Limiter = (*MemoryLimiter)(nil)

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{buckets: make(map[string]*bucket), now: time.Now}
}

func (l *MemoryLimiter) Allow(key string, limit int, window time.Duration) bool {
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok || now.After(b.windowEnd) {
		l.buckets[key] = &bucket{count: 1, windowEnd: now.Add(window)}
		l.sweep(now)
		return true
	}
	if b.count >= limit {
		return false
	}
	b.count++
	return true
}

// sweep drops expired buckets. Callers hold l.mu.
func (l *MemoryLimiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.After(b.windowEnd) {
			delete(l.buckets, key)
		}
	}
}
