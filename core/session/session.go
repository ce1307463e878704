// Package session holds the staff session token and decides access to protected views.
package session

import (
	"context"
	"sync"
)

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

// Holder mediates every read and write of the session token.
type Holder interface {
	Token() string
	SetToken(token string) error
	Clear() error
}

// Decision is the navigation outcome of the gate.
type Decision struct {
	Allow    bool
	Redirect string
	Replace  bool // the protected location must not stay in history
}

// Gate allows any non-empty token. The token is not validated against the backend.
func Gate(token string) Decision {
	if token == "" {
		return Decision{Redirect: LoginPath, Replace: true}
	}
	return Decision{Allow: true}
}

// Check applies Gate to the holder's current token.
func Check(h Holder) Decision {
	if h == nil {
		return Gate("")
	}
	return Gate(h.Token())
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying h.
func NewContext(ctx context.Context, h Holder) context.Context {
	return context.WithValue(ctx, ctxKey{}, h)
}

// FromContext returns the Holder stored in ctx, if any.
func FromContext(ctx context.Context) (Holder, bool) {
	h, ok := ctx.Value(ctxKey{}).(Holder)
	return h, ok
}

// TokenFromContext returns the token of the Holder stored in ctx, or "".
func TokenFromContext(ctx context.Context) string {
	if h, ok := FromContext(ctx); ok {
		return h.Token()
	}
	return ""
}

// MemoryHolder keeps the token in memory.
type MemoryHolder struct {
	mu    sync.RWMutex
	token string
}

var _ Holder = (*MemoryHolder)(nil)

func NewMemoryHolder(token string) *MemoryHolder {
	return &MemoryHolder{token: token}
}

func (h *MemoryHolder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *MemoryHolder) SetToken(token string) error {
	h.mu.Lock()
	h.token = token
	h.mu.Unlock()
	return nil
}

func (h *MemoryHolder) Clear() error {
	return h.SetToken("")
}
