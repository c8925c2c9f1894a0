package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// WindowStore counts requests per partition key inside fixed,
// non-overlapping windows. Implementations must count atomically per
// key so concurrent requests never undercount.
type WindowStore interface {
	// Allow records one request against key and reports whether it
	// fits within limit for the current window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) bool
}

// Policy binds a store to one limit/window pair under a key prefix, so
// independent policies sharing a store cannot collide.
type Policy struct {
	store  WindowStore
	prefix string
	limit  int
	window time.Duration
}

func NewPolicy(store WindowStore, prefix string, limit int, window time.Duration) *Policy {
	return &Policy{
		store:  store,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

func (p *Policy) Allow(ctx context.Context, key string) bool {
	return p.store.Allow(ctx, fmt.Sprintf("%s:%s", p.prefix, key), p.limit, p.window)
}
