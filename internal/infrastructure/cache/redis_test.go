package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	interfaces "course-planner/internal/interfaces/infrastructure"

	"github.com/alicebob/miniredis/v2"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCache(mr.Addr(), "", 0)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedisCache_PayloadRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, err := c.GetPayload(ctx, "curriculum", "8606-202010")
	if !errors.Is(err, interfaces.ErrCacheMiss) {
		t.Fatalf("Expected cache miss, got %v", err)
	}

	payload := []any{map[string]any{"codigo": "DCCB-00107", "creditos": float64(6)}}
	if err := c.SetPayload(ctx, "curriculum", "8606-202010", payload, time.Minute); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got, err := c.GetPayload(ctx, "curriculum", "8606-202010")
	if err != nil {
		t.Fatalf("Expected hit, got %v", err)
	}
	items, ok := got.([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("Expected one item, got %#v", got)
	}
	if code := items[0].(map[string]any)["codigo"]; code != "DCCB-00107" {
		t.Errorf("Expected DCCB-00107, got %v", code)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := c.GetPayload(ctx, "curriculum", "8606-202010"); !errors.Is(err, interfaces.ErrCacheMiss) {
		t.Errorf("Expected expired entry to miss, got %v", err)
	}
}

func TestRedisCache_Clear(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if err := c.SetPayload(ctx, "history", key, []any{}, 0); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}
	mr.Set("other:key", "kept")

	if err := c.Clear(ctx, "upstream:history:*"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := c.GetPayload(ctx, "history", "a"); !errors.Is(err, interfaces.ErrCacheMiss) {
		t.Errorf("Expected cleared key to miss, got %v", err)
	}
	if !mr.Exists("other:key") {
		t.Error("Expected keys outside the prefix to survive")
	}
}

func TestRedisCache_Health(t *testing.T) {
	c, mr := newTestCache(t)
	if err := c.Health(context.Background()); err != nil {
		t.Errorf("Expected healthy cache, got %v", err)
	}
	mr.Close()
	if err := c.Health(context.Background()); err == nil {
		t.Error("Expected error once the server is gone")
	}
}
