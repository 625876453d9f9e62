package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"ncr-quality-backend/internal/domain/ncr"
)

func sampleEntries() []ncr.Entry {
	return []ncr.Entry{
		{ID: "b", Customer: "MTX", Status: ncr.StatusOpen},
		{ID: "a", Customer: "LGE", Status: ncr.StatusClosed, Attachments: []ncr.Attachment{{Name: "x.png", Data: "AA==", Type: "image/png"}}},
	}
}

func TestRedisList_SetGetInvalidate(t *testing.T) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()

	c := NewRedisList(rdb, time.Minute)

	_, gen, ok, err := c.Get(ctx)
	if err != nil || ok || gen != 0 {
		t.Fatalf("empty cache: gen=%d ok=%v err=%v", gen, ok, err)
	}
	if err := c.Set(ctx, gen, sampleEntries()); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, _, ok, err := c.Get(ctx)
	if err != nil || !ok {
		t.Fatalf("Get after Set: ok=%v err=%v", ok, err)
	}
	if len(got) != 2 || got[0].ID != "b" || got[1].Attachments[0].Name != "x.png" {
		t.Fatalf("got %+v", got)
	}
	if ttl := s.TTL(listKey); ttl != time.Minute {
		t.Fatalf("ttl = %s", ttl)
	}

	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, gen, ok, _ := c.Get(ctx); ok || gen != 1 {
		t.Fatalf("after Invalidate: gen=%d ok=%v", gen, ok)
	}
}

func TestRedisList_SetAfterInvalidateIsDropped(t *testing.T) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()
	c := NewRedisList(rdb, time.Minute)

	_, gen, _, err := c.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if err := c.Set(ctx, gen, sampleEntries()); err != nil {
		t.Fatalf("stale Set: %v", err)
	}
	if s.Exists(listKey) {
		t.Fatal("stale snapshot was stored")
	}

	_, gen, _, _ = c.Get(ctx)
	if err := c.Set(ctx, gen, sampleEntries()); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, _, ok, _ := c.Get(ctx); !ok {
		t.Fatal("current snapshot was not stored")
	}
}

func TestRedisList_UnreadablePayloadIsMiss(t *testing.T) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	_ = s.Set(listKey, "{not json")
	if _, _, ok, err := NewRedisList(rdb, 0).Get(context.Background()); ok || err != nil {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

func TestMemoryList_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryList(time.Minute)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_ = c.Set(ctx, 0, sampleEntries())
	if _, _, ok, _ := c.Get(ctx); !ok {
		t.Fatal("want hit")
	}

	now = now.Add(2 * time.Minute)
	if _, _, ok, _ := c.Get(ctx); ok {
		t.Fatal("want miss after ttl")
	}

	_ = c.Set(ctx, 0, sampleEntries())
	_ = c.Invalidate(ctx)
	if _, _, ok, _ := c.Get(ctx); ok {
		t.Fatal("want miss after Invalidate")
	}
}

func TestMemoryList_SetAfterInvalidateIsDropped(t *testing.T) {
	c := NewMemoryList(time.Minute)
	ctx := context.Background()

	_, gen, _, _ := c.Get(ctx)
	_ = c.Invalidate(ctx)
	_ = c.Set(ctx, gen, sampleEntries())
	if _, _, ok, _ := c.Get(ctx); ok {
		t.Fatal("stale snapshot was stored")
	}

	_, gen, _, _ = c.Get(ctx)
	_ = c.Set(ctx, gen, sampleEntries())
	if _, _, ok, _ := c.Get(ctx); !ok {
		t.Fatal("current snapshot was not stored")
	}
}

func TestMemoryList_EmptyListIsHit(t *testing.T) {
	c := NewMemoryList(0)
	ctx := context.Background()
	_ = c.Set(ctx, 0, nil)
	got, _, ok, _ := c.Get(ctx)
	if !ok || len(got) != 0 {
		t.Fatalf("ok=%v got=%v", ok, got)
	}
}
