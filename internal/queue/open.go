package queue

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNATS   = "nats"
)

// Options select and address a queue backend.
type Options struct {
	Backend string
	// Key is the Redis list key or the NATS subject.
	Key     string
	Redis   *redis.Client
	NATSURL string
}

// Open returns the configured queue and a func releasing its resources.
func Open(opts Options) (Queue, func(), error) {
	switch opts.Backend {
	case BackendMemory:
		return NewInMemory(64), func() {}, nil
	case BackendRedis, "":
		if opts.Redis == nil {
			return nil, nil, fmt.Errorf("queue: redis backend needs a client")
		}
		return NewRedisQueue(opts.Redis, opts.Key), func() {}, nil
	case BackendNATS:
		conn, err := nats.Connect(opts.NATSURL,
			nats.Name("zymo"),
			nats.Timeout(5*time.Second),
			nats.MaxReconnects(-1),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("queue: connect nats: %w", err)
		}
		return NewNATSQueue(conn, opts.Key, "workers"), func() { _ = conn.Drain() }, nil
	default:
		return nil, nil, fmt.Errorf("queue: unknown backend %q", opts.Backend)
	}
}
