package vision

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "lens:result:"

// Cache keeps provider results keyed by prompt. A nil redis client disables it.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCache(redisClient *redis.Client, ttl time.Duration) *Cache {
	if ttl == 0 {
		ttl = 10 * time.Minute
	}
	return &Cache{
		redis: redisClient,
		ttl:   ttl,
	}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.redis != nil
}

func CacheKey(p Prompt) string {
	h := sha256.New()
	h.Write([]byte(p.Mode))
	h.Write([]byte{'|'})
	h.Write([]byte(p.Language))
	h.Write([]byte{'|'})
	h.Write([]byte(p.Image))
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached result, or nil when there is none.
func (c *Cache) Get(ctx context.Context, p Prompt) (json.RawMessage, error) {
	if !c.Enabled() {
		return nil, nil
	}
	data, err := c.redis.Get(ctx, CacheKey(p)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, nil
	}
	return json.RawMessage(data), nil
}

func (c *Cache) Set(ctx context.Context, p Prompt, result json.RawMessage) error {
	if !c.Enabled() {
		return nil
	}
	return c.redis.Set(ctx, CacheKey(p), []byte(result), c.ttl).Err()
}

func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.redis.Ping(ctx).Err()
}
