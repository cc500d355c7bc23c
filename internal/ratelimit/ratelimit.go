// Package ratelimit throttles proxied requests per client and endpoint context.
package ratelimit

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"time"
)

const (
	defaultLimit  = 30
	defaultWindow = 300 * time.Second

	keyPrefix = "booking:rate:"
)

// Store is the expiring counter storage behind the limiter. Get returns 0
// for absent or expired keys. Set writes the counter with a fresh TTL.
type Store interface {
	Get(ctx context.Context, key string) (int, error)
	Set(ctx context.Context, key string, count int, ttl time.Duration) error
}

// Limiter counts requests per (context, client) pair in a fixed-length
// window. The TTL is reset on every write, so steady traffic below the
// threshold keeps the same counter alive indefinitely. This is a
// rolling-reset fixed window, not a sliding log.
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
}

// New creates a limiter over the given store. Non-positive limit or window
// fall back to 30 requests per 300 seconds.
func New(store Store, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = defaultLimit
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &Limiter{store: store, limit: limit, window: window}
}

// Allow records one request for the (requestContext, clientID) bucket and
// reports whether it is still within the limit. Store failures fail open:
// the request is allowed and the error returned for logging.
func (l *Limiter) Allow(ctx context.Context, requestContext, clientID string) (bool, error) {
	key := Key(requestContext, clientID)

	count, err := l.store.Get(ctx, key)
	if err != nil {
		return true, err
	}
	count++
	if err := l.store.Set(ctx, key, count, l.window); err != nil {
		return true, err
	}
	return count <= l.limit, nil
}

// Key derives the stable counter key for a context and client identifier.
func Key(requestContext, clientID string) string {
	sum := md5.Sum([]byte(requestContext + "|" + clientID))
	return keyPrefix + hex.EncodeToString(sum[:])
}
