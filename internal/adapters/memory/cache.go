// Package memory provides an in-memory AnswerCache for development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/futuretree/advisor/pkg/domain"
	"github.com/futuretree/advisor/pkg/ports"
)

// Cache is a process-local AnswerCache. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]domain.Result
}

// NewCache creates an empty in-memory cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]domain.Result)}
}

var _ ports.AnswerCache = (*Cache)(nil)

// Get returns the cached result or ports.ErrCacheMiss.
func (c *Cache) Get(_ context.Context, key string) (domain.Result, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result, ok := c.entries[key]
	if !ok {
		return domain.Result{}, ports.ErrCacheMiss
	}
	return result, nil
}

// Set stores a result.
func (c *Cache) Set(_ context.Context, key string, result domain.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = result
	return nil
}
