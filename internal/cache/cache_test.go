// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "posts:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, "")
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestListKeyCanonical(t *testing.T) {
	a := url.Values{}
	a.Set("page", "2")
	a.Set("search", "go")

	b := url.Values{}
	b.Set("search", "go")
	b.Set("page", "2")

	if ListKey(a) != ListKey(b) {
		t.Errorf("equivalent queries got different keys: %q vs %q", ListKey(a), ListKey(b))
	}
	if ListKey(a) == ListKey(url.Values{}) {
		t.Error("distinct queries share a key")
	}
}

func TestListCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	lc := NewListCache(client, 1*time.Minute)

	ctx := context.Background()

	// Miss.
	data, ok := lc.Get(ctx, "page=1")
	if ok || data != nil {
		t.Error("expected cache miss")
	}

	// Set then hit.
	body := []byte(`{"success":true,"data":[]}`)
	lc.Set(ctx, "page=1", body)

	data, ok = lc.Get(ctx, "page=1")
	if !ok {
		t.Error("expected cache hit")
	}
	if string(data) != string(body) {
		t.Errorf("data mismatch: got %q, want %q", data, body)
	}
}

func TestListCacheInvalidate(t *testing.T) {
	client := testValkeyClient(t)
	lc := NewListCache(client, 1*time.Minute)

	ctx := context.Background()

	lc.Set(ctx, "page=1", []byte("a"))
	lc.Set(ctx, "page=2", []byte("b"))
	lc.Set(ctx, "search=go", []byte("c"))

	lc.Invalidate(ctx)

	for _, key := range []string{"page=1", "page=2", "search=go"} {
		if _, ok := lc.Get(ctx, key); ok {
			t.Errorf("expected miss for %q after Invalidate", key)
		}
	}
}

func TestNilListCacheIsNoOp(t *testing.T) {
	var lc *ListCache

	ctx := context.Background()
	lc.Set(ctx, "page=1", []byte("a"))
	if _, ok := lc.Get(ctx, "page=1"); ok {
		t.Error("nil cache reported a hit")
	}
	lc.Invalidate(ctx)
}

func TestNewListCacheDefaultTTL(t *testing.T) {
	client := testValkeyClient(t)

	lc := NewListCache(client, 0)
	if lc.ttl != DefaultListTTL {
		t.Errorf("expected DefaultListTTL (%v), got %v", DefaultListTTL, lc.ttl)
	}
}
