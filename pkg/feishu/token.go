package feishu

import (
	"context"
	"sync"
	"time"
)

// expirySkew is subtracted from the server-reported lifetime so a token is
// never used in its final seconds.
const expirySkew = 3 * time.Second

// Token is an access token together with the instant it stops being usable.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Valid reports whether the token can still be used at now.
func (t Token) Valid(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt)
}

// RefreshFunc obtains a fresh token.
type RefreshFunc func(ctx context.Context) (Token, error)

// TokenCache holds a single access token. It is owned by one Client and is
// not shared across clients, so tokens never leak between unrelated runs.
type TokenCache struct {
	mu    sync.Mutex
	token Token
	now   func() time.Time
}

// NewTokenCache returns an empty cache.
func NewTokenCache() *TokenCache {
	return &TokenCache{now: time.Now}
}

// Get returns the cached token if it is still valid, otherwise it calls
// refresh, stores the result and returns it. Concurrent callers are
// serialized so only one refresh is ever in flight.
func (c *TokenCache) Get(ctx context.Context, refresh RefreshFunc) (Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token.Valid(c.now()) {
		return c.token, nil
	}

	token, err := refresh(ctx)
	if err != nil {
		return Token{}, err
	}
	c.token = token
	return token, nil
}

// Invalidate drops the cached token, the next Get refreshes.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	c.token = Token{}
	c.mu.Unlock()
}
