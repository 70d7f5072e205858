/*
Package store persists maze layouts by name.

Every backend stores the same record, maze.Layout, and treats Save as an
upsert. Backends: a directory of JSON or YAML files, process memory, Redis
and MongoDB.
*/
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"robot-maze-server/config"
	"robot-maze-server/maze"
)

var (
	ErrNotFound    = errors.New("layout not found")
	ErrInvalidName = errors.New("invalid layout name")
)

// Store saves and loads maze layouts.
type Store interface {
	Save(ctx context.Context, l *maze.Layout) error
	Load(ctx context.Context, name string) (*maze.Layout, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
	Close() error
}

// ValidateName rejects names that are blank or could escape a directory.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case strings.ContainsAny(name, `/\`), strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func validateLayout(l *maze.Layout) error {
	if l == nil {
		return fmt.Errorf("%w: nil layout", maze.ErrEmptyLayout)
	}
	if err := ValidateName(l.Name); err != nil {
		return err
	}
	return l.Validate()
}

// New opens the backend selected by cfg.StoreBackend.
func New(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case config.StoreFile, "":
		return NewFileStore(cfg.StoreDir, cfg.StoreFormat)
	case config.StoreMemory:
		return NewMemoryStore(), nil
	case config.StoreRedis:
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, WithTTL(cfg.RedisTTL))
	case config.StoreMongo:
		return ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
