// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/gomodule/redigo/redis"
)

const DefaultRedisPrefix = "miles:"

// Redis stores each key as a plain string value under prefix.
type Redis struct {
	pool   *redis.Pool
	prefix string
}

func NewRedis(pool *redis.Pool, prefix string) *Redis {
	return &Redis{pool: pool, prefix: prefix}
}

func (r *Redis) do(ctx context.Context, cmd string, args ...interface{}) (interface{}, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	defer conn.Close()
	return redis.DoContext(conn, ctx, cmd, args...)
}

func (r *Redis) Ping(ctx context.Context) error {
	if _, err := r.do(ctx, "PING"); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := redis.Bytes(r.do(ctx, "GET", r.prefix+key))
	if errors.Is(err, redis.ErrNil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %q: %w", key, err)
	}
	return v, nil
}

func (r *Redis) Put(ctx context.Context, key string, value []byte) error {
	if _, err := r.do(ctx, "SET", r.prefix+key, value); err != nil {
		return fmt.Errorf("failed to put %q: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if _, err := r.do(ctx, "DEL", r.prefix+key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.pool.Close()
}
