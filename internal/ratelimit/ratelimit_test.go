package ratelimit

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestAllowUpToThreshold(t *testing.T) {
	limiter := New(NewMemoryStore(), 3, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		allowed, err := limiter.Allow(ctx, "services", "10.0.0.1")
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !allowed {
			t.Fatalf("request %d should be within the limit", i)
		}
	}

	allowed, err := limiter.Allow(ctx, "services", "10.0.0.1")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if allowed {
		t.Fatal("request above the threshold should be rejected")
	}
}

func TestContextsAndClientsAreIndependent(t *testing.T) {
	limiter := New(NewMemoryStore(), 1, time.Minute)
	ctx := context.Background()

	if allowed, _ := limiter.Allow(ctx, "services", "10.0.0.1"); !allowed {
		t.Fatal("first request should pass")
	}
	if allowed, _ := limiter.Allow(ctx, "services", "10.0.0.1"); allowed {
		t.Fatal("second request in same bucket should be rejected")
	}
	// Different context, same client.
	if allowed, _ := limiter.Allow(ctx, "staff", "10.0.0.1"); !allowed {
		t.Fatal("different context should have its own bucket")
	}
	// Same context, different client.
	if allowed, _ := limiter.Allow(ctx, "services", "10.0.0.2"); !allowed {
		t.Fatal("different client should have its own bucket")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	current := time.Now()
	store.now = func() time.Time { return current }

	limiter := New(store, 1, time.Minute)
	ctx := context.Background()

	if allowed, _ := limiter.Allow(ctx, "book", "ip"); !allowed {
		t.Fatal("first request should pass")
	}
	if allowed, _ := limiter.Allow(ctx, "book", "ip"); allowed {
		t.Fatal("second request should be rejected")
	}

	current = current.Add(2 * time.Minute)
	if allowed, _ := limiter.Allow(ctx, "book", "ip"); !allowed {
		t.Fatal("counter should reset after the window elapses")
	}
}

func TestRedisStoreCounters(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	limiter := New(NewRedisStore(client), 2, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		if allowed, err := limiter.Allow(ctx, "dates", "ip"); err != nil || !allowed {
			t.Fatalf("request %d: allowed=%v err=%v", i, allowed, err)
		}
	}
	if allowed, _ := limiter.Allow(ctx, "dates", "ip"); allowed {
		t.Fatal("third request should be rejected")
	}

	mr.FastForward(2 * time.Minute)
	if allowed, _ := limiter.Allow(ctx, "dates", "ip"); !allowed {
		t.Fatal("counter should expire with the redis TTL")
	}
}

// The window TTL is refreshed on every request, so a steady trickle below
// the threshold accumulates instead of resetting at a fixed origin.
func TestWindowRollsOnEveryWrite(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	limiter := New(NewRedisStore(client), 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if allowed, _ := limiter.Allow(ctx, "times", "ip"); !allowed {
			t.Fatalf("request %d should pass", i+1)
		}
		// Advance less than the window between requests; each write
		// re-arms the TTL, so the counter never expires.
		mr.FastForward(45 * time.Second)
	}

	if allowed, _ := limiter.Allow(ctx, "times", "ip"); allowed {
		t.Fatal("counter kept alive by rolling TTL should now reject")
	}
}

func TestKeyIsStable(t *testing.T) {
	a := Key("services", "10.0.0.1")
	b := Key("services", "10.0.0.1")
	c := Key("staff", "10.0.0.1")

	if a != b {
		t.Fatal("same inputs must derive the same key")
	}
	if a == c {
		t.Fatal("different contexts must derive different keys")
	}
}
