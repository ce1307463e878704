package limitsvc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryLimiter(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter()
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("1.2.3.4", 3, time.Minute), "hit %d", i+1)
	}
	assert.False(t, l.Allow("1.2.3.4", 3, time.Minute))
	assert.True(t, l.Allow("5.6.7.8", 3, time.Minute), "keys are independent")

	now = now.Add(time.Minute + time.Second)
	assert.True(t, l.Allow("1.2.3.4", 3, time.Minute), "window must reset")
}

func TestMemoryLimiter_disabled(t *testing.T) {
	l := NewMemoryLimiter()
	tests := []struct {
		name   string
		key    string
		limit  int
		window time.Duration
	}{
		{name: "no key", limit: 1, window: time.Minute},
		{name: "no limit", key: "k", window: time.Minute},
		{name: "no window", key: "k", limit: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 5; i++ {
				assert.True(t, l.Allow(tt.key, tt.limit, tt.window))
			}
		})
	}
}
