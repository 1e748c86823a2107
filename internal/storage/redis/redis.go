// Package redis provides a Redis-backed implementation of the storage.Store interface.
//
// Every transaction is optimistic: reads WATCH the keys they touch, writes are
// buffered and flushed in a single MULTI/EXEC. If a watched key changes before
// EXEC the whole transaction function is replayed.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mmynk/stash/internal/storage"
)

// Ensure RedisStore implements storage.Store
var _ storage.Store = (*RedisStore)(nil)

const (
	defaultPrefix      = "stash"
	defaultMaxAttempts = 5
)

// Options configures a RedisStore.
type Options struct {
	Addr     string
	Password string
	DB       int

	// Prefix namespaces every key. Defaults to "stash".
	Prefix string

	// MaxAttempts bounds how often a conflicting transaction is replayed.
	MaxAttempts int
}

// RedisStore implements storage.Store using Redis.
type RedisStore struct {
	client      *goredis.Client
	keys        keyspace
	maxAttempts int
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, opts Options) (*RedisStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewWithClient(client, opts), nil
}

// NewWithClient wraps an existing client. The store takes ownership of it.
func NewWithClient(client *goredis.Client, opts Options) *RedisStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	return &RedisStore{
		client:      client,
		keys:        keyspace{prefix: prefix},
		maxAttempts: attempts,
	}
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// WithTx runs fn optimistically and replays it on watched-key conflicts.
func (s *RedisStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) error {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err := s.client.Watch(ctx, func(rtx *goredis.Tx) error {
			tx := newRedisTx(rtx, s.keys)
			if err := fn(ctx, tx); err != nil {
				return err
			}
			return tx.commit(ctx)
		})
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("gave up after %d attempts: %w", s.maxAttempts, storage.ErrConflict)
}
