package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"ncr-quality-backend/internal/domain/ncr"
)

const (
	listKey = "ncr:entries:all"
	// genKey counts invalidations. A Set carrying an older count is dropped.
	genKey = "ncr:entries:gen"
)

var errStale = errors.New("list generation moved")

// RedisList holds the full newest-first entry list under one key.
type RedisList struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisList(rdb *redis.Client, ttl time.Duration) *RedisList {
	return &RedisList{rdb: rdb, ttl: ttl}
}

// Get reports a miss as ok=false with a nil error, together with the generation
// a following Set has to present.
func (c *RedisList) Get(ctx context.Context) ([]ncr.Entry, int64, bool, error) {
	vals, err := c.rdb.MGet(ctx, listKey, genKey).Result()
	if err != nil {
		return nil, 0, false, err
	}
	var gen int64
	if s, ok := vals[1].(string); ok {
		if gen, err = strconv.ParseInt(s, 10, 64); err != nil {
			return nil, 0, false, fmt.Errorf("parse list generation: %w", err)
		}
	}
	s, ok := vals[0].(string)
	if !ok {
		return nil, gen, false, nil
	}
	var out []ncr.Entry
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		// a payload we cannot read is a miss; the next Set overwrites it
		return nil, gen, false, nil
	}
	return out, gen, true, nil
}

// Set stores entries unless Invalidate ran after gen was read. A dropped write is not an error.
func (c *RedisList) Set(ctx context.Context, gen int64, entries []ncr.Entry) error {
	b, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode entry list: %w", err)
	}
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, listKey, b, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, errStale) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// Invalidate bumps the generation and drops the list in one transaction.
func (c *RedisList) Invalidate(ctx context.Context) error {
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, genKey)
		p.Del(ctx, listKey)
		return nil
	})
	return err
}

// MemoryList is the in-process fallback when no redis is configured.
type MemoryList struct {
	mu      sync.Mutex
	entries []ncr.Entry
	gen     int64
	expires time.Time
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryList(ttl time.Duration) *MemoryList {
	return &MemoryList{ttl: ttl, now: time.Now}
}

func (c *MemoryList) Get(context.Context) ([]ncr.Entry, int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil || (c.ttl > 0 && c.now().After(c.expires)) {
		return nil, c.gen, false, nil
	}
	return append([]ncr.Entry(nil), c.entries...), c.gen, true, nil
}

func (c *MemoryList) Set(_ context.Context, gen int64, entries []ncr.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return nil
	}
	c.entries = append(make([]ncr.Entry, 0, len(entries)), entries...)
	c.expires = c.now().Add(c.ttl)
	return nil
}

func (c *MemoryList) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.entries = nil
	return nil
}
