package token

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Blacklist records revoked token signatures until their natural expiry.
type Blacklist interface {
	Revoke(ctx context.Context, signature string, ttl time.Duration) error
	IsRevoked(ctx context.Context, signature string) (bool, error)
}

// MemoryBlacklist keeps revocations in an LRU cache with per-entry TTL.
// Suitable for a single process; use RedisBlacklist when running more than one.
type MemoryBlacklist struct {
	cache *lru.Cache[string, time.Time]
}

func NewMemoryBlacklist(size int) (*MemoryBlacklist, error) {
	c, err := lru.New[string, time.Time](size)
	if err != nil {
		return nil, err
	}
	return &MemoryBlacklist{cache: c}, nil
}

func (b *MemoryBlacklist) Revoke(ctx context.Context, signature string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired, validation rejects it anyway
	}
	b.cache.Add(signature, time.Now().Add(ttl))
	return nil
}

func (b *MemoryBlacklist) IsRevoked(ctx context.Context, signature string) (bool, error) {
	expiresAt, ok := b.cache.Get(signature)
	if !ok {
		return false, nil
	}
	if time.Now().After(expiresAt) {
		b.cache.Remove(signature)
		return false, nil
	}
	return true, nil
}

// RedisBlacklist shares revocations across processes.
type RedisBlacklist struct {
	client *redis.Client
	prefix string
}

func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client, prefix: "token:revoked:"}
}

func (b *RedisBlacklist) Revoke(ctx context.Context, signature string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, b.prefix+signature, 1, ttl).Err()
}

func (b *RedisBlacklist) IsRevoked(ctx context.Context, signature string) (bool, error) {
	n, err := b.client.Exists(ctx, b.prefix+signature).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
