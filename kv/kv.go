// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gomodule/redigo/redis"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/miles-for-meals/db"
)

// Store types accepted by Open
const (
	TypeMemory   = "memory"
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypeRedis    = "redis"
)

var ErrNotFound = errors.New("key not found")

// Store is a string-keyed store of JSON values. A single Put is atomic;
// nothing spans more than one key.
type Store interface {
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete succeeds when the key is already absent.
	Delete(ctx context.Context, key string) error
	Close() error
}

type Config struct {
	Type string
	URL  string
	// Prefix namespaces keys on shared backends (redis only).
	Prefix string
}

// Open connects to the configured backend and makes sure it is usable.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Type {
	case TypeMemory:
		return NewMemory(), nil

	case TypeSQLite, TypePostgres:
		if cfg.URL == "" {
			return nil, fmt.Errorf("%s store requires a URL", cfg.Type)
		}
		conn, err := sql.Open(cfg.Type, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", cfg.Type, err)
		}
		if cfg.Type == TypeSQLite {
			// One connection keeps :memory: databases shared and serializes writers.
			conn.SetMaxOpenConns(1)
		}
		if err := conn.PingContext(ctx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("%s ping failed: %w", cfg.Type, err)
		}
		if err := db.CreateSchema(conn, cfg.Type); err != nil {
			conn.Close()
			return nil, err
		}
		slog.Info("kv schema ready", "type", cfg.Type)
		return NewSQL(conn, cfg.Type), nil

	case TypeRedis:
		if cfg.URL == "" {
			return nil, errors.New("redis store requires an address")
		}
		prefix := cfg.Prefix
		if prefix == "" {
			prefix = DefaultRedisPrefix
		}
		pool := NewRedisPool(cfg.URL)
		store := NewRedis(pool, prefix)
		if err := store.Ping(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil
	}

	return nil, fmt.Errorf("unknown store type %q", cfg.Type)
}

// NewRedisPool dials addr, which may be host:port or a redis:// URL.
func NewRedisPool(addr string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:   4,
		Wait:      true,
		MaxActive: 16,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
				return redis.DialURLContext(ctx, addr)
			}
			return redis.DialContext(ctx, "tcp", addr)
		},
	}
}
