// Package store provides SessionStore adapters: Redis for shared
// deployments, an in-memory map for tests and single-node development.
package store

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/redis/go-redis/v9"

	userauth "github.com/goliatone/go-userauth"
)

// DefaultKeyPrefix namespaces session keys in a shared Redis.
const DefaultKeyPrefix = "userauth:session:"

// Redis is a go-redis backed SessionStore. Values expire through Redis TTLs;
// a zero ttl stores the key without expiry.
type Redis struct {
	client *redis.Client
	prefix string
}

var _ userauth.SessionStore = (*Redis)(nil)

// RedisOption configures the Redis store.
type RedisOption func(*Redis)

// WithKeyPrefix overrides DefaultKeyPrefix.
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, opts ...RedisOption) *Redis {
	r := &Redis{
		client: client,
		prefix: DefaultKeyPrefix,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Redis) key(id string) string {
	return r.prefix + id
}

// Get returns the serialized session record, or ErrSessionNotFound when the
// key is absent or expired.
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if goerrors.Is(err, redis.Nil) {
			return "", userauth.ErrSessionNotFound
		}
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "session store read failed")
	}
	return val, nil
}

// Set writes the record, applying ttl when positive.
func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "session store write failed")
	}
	return nil
}

// Delete removes the record. A missing key is not an error.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "session store delete failed")
	}
	return nil
}
