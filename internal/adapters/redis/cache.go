// Package redis implements the AnswerCache port using Redis.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/futuretree/advisor/pkg/domain"
	"github.com/futuretree/advisor/pkg/ports"
)

// Cache stores terminal results in Redis with a TTL.
type Cache struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets the expiration for cached answers.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// New creates a Redis cache with options.
func New(address, password string, db int, opts ...Option) *Cache {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis cache from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Cache {
	cache := &Cache{
		client: client,
		prefix: "advisor:answer:",
		ttl:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

var _ ports.AnswerCache = (*Cache)(nil)

// Get loads a cached result. A missing key maps to ports.ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string) (domain.Result, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		if err == backend.Nil {
			return domain.Result{}, ports.ErrCacheMiss
		}
		return domain.Result{}, fmt.Errorf("redis get: %w", err)
	}

	var result domain.Result
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return domain.Result{}, fmt.Errorf("unmarshal cached result: %w", err)
	}
	return result, nil
}

// Set stores a result with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, result domain.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close closes the redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
