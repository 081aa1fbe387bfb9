// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation for the SQL-backed stores.

# Schema Creation

CreateSchema initializes the kv table for a dialect:

	if err := db.CreateSchema(conn, "sqlite"); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for the table and index.

# Tables

  - kv: key TEXT PRIMARY KEY, value (TEXT on sqlite, JSONB on postgres), updated_at

Keys are "current" and "backup_YYYY-MM-DD"; see package models.
*/
package db
