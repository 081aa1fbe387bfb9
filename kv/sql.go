// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQL stores each key as a row in the kv table created by db.CreateSchema.
type SQL struct {
	db      *sql.DB
	dialect string

	getQuery    string
	putQuery    string
	deleteQuery string
}

func NewSQL(conn *sql.DB, dialect string) *SQL {
	s := &SQL{db: conn, dialect: dialect}
	if dialect == TypePostgres {
		s.getQuery = `SELECT value FROM kv WHERE key = $1`
		s.putQuery = `
			INSERT INTO kv (key, value, updated_at)
			VALUES ($1, $2::jsonb, $3)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
		s.deleteQuery = `DELETE FROM kv WHERE key = $1`
	} else {
		s.getQuery = `SELECT value FROM kv WHERE key = ?`
		s.putQuery = `
			INSERT INTO kv (key, value, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
		s.deleteQuery = `DELETE FROM kv WHERE key = ?`
	}
	return s
}

func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.getQuery, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %q: %w", key, err)
	}
	return []byte(value), nil
}

func (s *SQL) Put(ctx context.Context, key string, value []byte) error {
	// Values travel as text; lib/pq would send []byte as bytea.
	_, err := s.db.ExecContext(ctx, s.putQuery, key, string(value), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to put %q: %w", key, err)
	}
	return nil
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.deleteQuery, key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

func (s *SQL) Close() error {
	return s.db.Close()
}
