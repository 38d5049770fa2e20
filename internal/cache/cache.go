// Package cache is the per-visitor record cache that stands in for browser
// local and session storage. Values live in Redis under
// zymo:<scope>:<session>:<key> and expire with the scope's TTL.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Scope selects the lifetime of a cached value.
type Scope string

const (
	// Local values persist across visits, like browser localStorage.
	Local Scope = "local"
	// Session values are short lived, like browser sessionStorage.
	Session Scope = "session"
)

// Well-known keys.
const (
	KeySelectedBlogTitle = "selectedBlogTitle"
	KeyBlogs             = "blogs"
	KeySubmittedEmail    = "careerFormSubmittedEmail"
	KeyFlash             = "flash"
)

// Cache reads and writes visitor-scoped values.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    map[Scope]time.Duration
}

// New builds a cache over client.
func New(client *redis.Client, localTTL, sessionTTL time.Duration) *Cache {
	return &Cache{
		client: client,
		prefix: "zymo",
		ttl:    map[Scope]time.Duration{Local: localTTL, Session: sessionTTL},
	}
}

func (c *Cache) key(scope Scope, sessionID, key string) string {
	return fmt.Sprintf("%s:%s:%s:%s", c.prefix, scope, sessionID, key)
}

// Get returns the value under key; ok is false when it is absent.
func (c *Cache) Get(ctx context.Context, scope Scope, sessionID, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, c.key(scope, sessionID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set stores value under key, refreshing the scope TTL.
func (c *Cache) Set(ctx context.Context, scope Scope, sessionID, key, value string) error {
	return c.client.Set(ctx, c.key(scope, sessionID, key), value, c.ttl[scope]).Err()
}

// Take returns and deletes the value under key.
func (c *Cache) Take(ctx context.Context, scope Scope, sessionID, key string) (string, bool, error) {
	val, err := c.client.GetDel(ctx, c.key(scope, sessionID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// For binds the cache to one visitor scope.
func (c *Cache) For(scope Scope, sessionID string) Scoped {
	return Scoped{cache: c, scope: scope, sessionID: sessionID}
}

// Scoped is a cache view bound to a visitor and scope.
type Scoped struct {
	cache     *Cache
	scope     Scope
	sessionID string
}

// Lookup returns the value under key.
func (s Scoped) Lookup(ctx context.Context, key string) (string, bool, error) {
	return s.cache.Get(ctx, s.scope, s.sessionID, key)
}

// Store writes value under key.
func (s Scoped) Store(ctx context.Context, key, value string) error {
	return s.cache.Set(ctx, s.scope, s.sessionID, key, value)
}
