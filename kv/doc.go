// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package kv provides the key-value store behind the progress record.

# Interface

Store is addressed by string key and holds JSON values:

	v, err := store.Get(ctx, "current")     // ErrNotFound when absent
	err = store.Put(ctx, "current", data)
	err = store.Delete(ctx, "backup_2026-01-01") // absent keys are fine

# Backends

Open picks a backend from Config.Type:

  - memory: map guarded by a RWMutex, for tests and local dev
  - sqlite: modernc.org/sqlite, kv table created by db.CreateSchema
  - postgres: lib/pq, same table with a JSONB value column
  - redis: redigo pool, keys namespaced with Config.Prefix

	store, err := kv.Open(ctx, kv.Config{Type: "sqlite", URL: "file:miles.db"})
*/
package kv
