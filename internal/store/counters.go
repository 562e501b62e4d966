package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Counter names.
const (
	CounterMessagesTaken = "messages_taken"
	CounterMessagesLeft  = "messages_left"
	CounterHearts        = "hearts"
	CounterCandlesLit    = "candles_lit"
	CounterSupportSent   = "support_sent"
)

// Counters are monotonically increasing vault statistics.
type Counters interface {
	Incr(ctx context.Context, name string) (int64, error)
	Get(ctx context.Context, names ...string) (map[string]int64, error)
}

// RedisCounters keeps each counter in its own key under a common prefix.
type RedisCounters struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisCounters(rdb *redis.Client) *RedisCounters {
	return &RedisCounters{rdb: rdb, prefix: "vault:stats:"}
}

func (c *RedisCounters) Incr(ctx context.Context, name string) (int64, error) {
	n, err := c.rdb.Incr(ctx, c.prefix+name).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s: %w", name, err)
	}
	return n, nil
}

// Get reads the named counters in one round trip. Counters that were never
// incremented read as zero.
func (c *RedisCounters) Get(ctx context.Context, names ...string) (map[string]int64, error) {
	out := make(map[string]int64, len(names))
	if len(names) == 0 {
		return out, nil
	}

	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = c.prefix + n
	}

	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read counters: %w", err)
	}
	for i, v := range vals {
		out[names[i]] = toInt64(v)
	}
	return out, nil
}

func toInt64(v interface{}) int64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
