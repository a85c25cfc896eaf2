package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdentityCache remembers principals that were recently confirmed against the
// directory. A nil cache is valid and never hits.
type IdentityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdentityCache returns nil when no client is configured.
func NewIdentityCache(client *redis.Client, ttl time.Duration) *IdentityCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &IdentityCache{client: client, ttl: ttl}
}

// Known reports whether identity was confirmed within the TTL.
func (c *IdentityCache) Known(ctx context.Context, identity Identity) (bool, error) {
	if c == nil {
		return false, nil
	}
	n, err := c.client.Exists(ctx, cacheKey(identity)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Remember marks identity as confirmed.
func (c *IdentityCache) Remember(ctx context.Context, identity Identity) error {
	if c == nil {
		return nil
	}
	return c.client.Set(ctx, cacheKey(identity), 1, c.ttl).Err()
}

func cacheKey(identity Identity) string {
	return fmt.Sprintf("identity:%s:%d", identity.Role, identity.ID)
}
