package core

import (
	"context"
	"strings"
	"time"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

type (
	// Logger is any leveled logger. args may carry errors, maps of extra data or a Person.
	Logger interface {
		Debug(msg string, args ...interface{})
		Info(msg string, args ...interface{})
		Warn(msg string, args ...interface{})
		Error(msg string, args ...interface{})
		Fatal(msg string, args ...interface{})
	}

	// Person identifies the signed-in staff member in error reports.
	Person struct {
		ID    string
		Email string
	}

	// Cache stores encoded collections; Get reports false on miss or expiry.
	Cache interface {
		Get(ctx context.Context, key string) ([]byte, bool)
		Set(ctx context.Context, key string, value []byte) error
		Delete(ctx context.Context, keys ...string) error
	}

	// Limiter allows at most limit hits per key during window.
	Limiter interface {
		Allow(key string, limit int, window time.Duration) bool
	}
)
