package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	backend "github.com/redis/go-redis/v9"

	"robot-maze-server/maze"
)

const defaultRedisPrefix = "robotmaze:"

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTTL expires saved layouts after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix. Layouts live under prefix+"layout:" and
// the name index at prefix+"index".
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// RedisStore keeps each layout as a JSON string plus a set of names.
type RedisStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to Redis and checks the connection with PING.
func NewRedisStore(ctx context.Context, addr, password string, db int, opts ...RedisOption) (*RedisStore, error) {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return NewRedisStoreFromClient(client, opts...), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *backend.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: defaultRedisPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(name string) string {
	return s.prefix + "layout:" + name
}

func (s *RedisStore) indexKey() string {
	return s.prefix + "index"
}

func (s *RedisStore) Save(ctx context.Context, l *maze.Layout) error {
	if err := validateLayout(l); err != nil {
		return err
	}
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(l.Name), data, s.ttl)
	pipe.SAdd(ctx, s.indexKey(), l.Name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, name string) (*maze.Layout, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	val, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var l maze.Layout
	if err := json.Unmarshal(val, &l); err != nil {
		return nil, fmt.Errorf("failed to unmarshal layout: %w", err)
	}
	return &l, nil
}

// List returns the indexed names whose key still exists, dropping names
// whose layout expired.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}

	live := names[:0]
	for _, name := range names {
		n, err := s.client.Exists(ctx, s.key(name)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to list layouts: %w", err)
		}
		if n == 0 {
			s.client.SRem(ctx, s.indexKey(), name)
			continue
		}
		live = append(live, name)
	}
	slices.Sort(live)
	return live, nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, s.key(name))
	pipe.SRem(ctx, s.indexKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
