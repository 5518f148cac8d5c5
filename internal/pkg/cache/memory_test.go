package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCachePutGetPurge(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)

	if err := c.Put(ctx, "a", "preview", []byte("one")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.Put(ctx, "b", "preview", []byte("two")); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := c.Get(ctx, "a", "preview")
	if err != nil || !ok || string(got) != "one" {
		t.Fatalf("get a: %q %v %v", got, ok, err)
	}

	if err := c.Purge(ctx, "a"); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "a", "preview"); ok {
		t.Fatalf("expected session a to be purged")
	}
	if got, ok, _ := c.Get(ctx, "b", "preview"); !ok || string(got) != "two" {
		t.Fatalf("purge of a leaked into b: %q %v", got, ok)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Put(ctx, "a", "k", []byte("v")); err != nil {
		t.Fatalf("put: %v", err)
	}
	now = now.Add(59 * time.Second)
	if _, ok, _ := c.Get(ctx, "a", "k"); !ok {
		t.Fatalf("expected value before expiry")
	}
	now = now.Add(time.Second)
	if _, ok, _ := c.Get(ctx, "a", "k"); ok {
		t.Fatalf("expected value to expire")
	}
}

func TestMemoryCacheCopiesValues(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	buf := []byte("abc")
	_ = c.Put(ctx, "a", "k", buf)
	buf[0] = 'x'

	got, _, _ := c.Get(ctx, "a", "k")
	if string(got) != "abc" {
		t.Fatalf("cache aliased caller buffer: %q", got)
	}
}
