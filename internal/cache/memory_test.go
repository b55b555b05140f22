package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newMemoryTestCache(t *testing.T, size int, ttl time.Duration, onEvict EvictCallback) Cache {
	t.Helper()
	c, err := New("memory", Options{Size: size, TTL: ttl, OnEvict: onEvict})
	if err != nil {
		t.Fatalf("New memory cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemoryCache_GetSet(t *testing.T) {
	c := newMemoryTestCache(t, 10, time.Hour, nil)
	ctx := context.Background()

	val, err := c.Get(ctx, "key1")
	if !errors.Is(err, ErrMiss) {
		t.Fatalf("Expected ErrMiss, got %v", err)
	}
	if val != nil {
		t.Fatalf("Expected nil value on miss, got %v", val)
	}

	_ = c.Set(ctx, "key1", []byte("v1"))
	_ = c.Set(ctx, "key1", []byte("v2"))
	val, err = c.Get(ctx, "key1")
	if err != nil || string(val) != "v2" {
		t.Fatalf("Expected v2, got %q, %v", val, err)
	}
	if n := c.Len(ctx); n != 1 {
		t.Fatalf("Expected Len 1 after overwrite, got %d", n)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	c := newMemoryTestCache(t, 10, time.Hour, nil)
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"))
	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, "a"); !errors.Is(err, ErrMiss) {
		t.Fatalf("Expected ErrMiss after Delete, got %v", err)
	}
	if err := c.Delete(ctx, "absent"); err != nil {
		t.Fatalf("Delete of an absent key: %v", err)
	}
}

func TestMemoryCache_Eviction(t *testing.T) {
	var evicted []string
	c := newMemoryTestCache(t, 2, time.Hour, func(key string, _ []byte) {
		evicted = append(evicted, key)
	})
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"))
	_ = c.Set(ctx, "b", []byte("2"))
	_, _ = c.Get(ctx, "a") // b is now the oldest
	_ = c.Set(ctx, "c", []byte("3"))

	if len(evicted) != 1 || evicted[0] != "b" {
		t.Fatalf("Expected eviction of 'b', got %v", evicted)
	}
	if _, err := c.Get(ctx, "a"); err != nil {
		t.Fatal("Expected 'a' to survive after being read")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := newMemoryTestCache(t, 10, 20*time.Millisecond, nil)
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"))
	time.Sleep(50 * time.Millisecond)

	if _, err := c.Get(ctx, "a"); !errors.Is(err, ErrMiss) {
		t.Fatalf("Expected ErrMiss after TTL, got %v", err)
	}
}
