package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisDial = 2 * time.Second
	defaultRedisIO   = time.Second
)

// RedisOptions selects the visitor cache and queue server.
type RedisOptions struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
	IOTimeout   time.Duration
}

// Redis holds the client shared by the visitor cache and the redis queue.
type Redis struct {
	Client *redis.Client
	addr   string
}

// NewRedis builds a lazily connecting client. Zero timeouts fall back to
// 2s for dialing and 1s for reads and writes.
func NewRedis(opts RedisOptions) *Redis {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultRedisDial
	}
	if opts.IOTimeout <= 0 {
		opts.IOTimeout = defaultRedisIO
	}
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.IOTimeout,
		WriteTimeout: opts.IOTimeout,
	})
	return &Redis{Client: client, addr: opts.Addr}
}

// Addr returns the configured server address.
func (r *Redis) Addr() string {
	if r == nil {
		return ""
	}
	return r.addr
}

// Healthy pings the server.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Close()
}
