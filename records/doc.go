// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package records implements the progress record and its backups on top of
a kv.Store, independent of HTTP.

# Operations

	svc := records.NewService(store, auth.NewPINAuthorizer(pin), clock.Real{})

	rec, err := svc.Current(ctx)          // defaults when nothing is stored
	rec, err = svc.Update(ctx, req)       // auth, validate, write, backup, sweep
	list, err := svc.ListBackups(ctx)     // last 8 UTC days, newest first
	rec, err = svc.Restore(ctx, req)      // verbatim copy into "current"
	err = svc.Sweep(ctx, now)             // delete backups 8..30 days old

# Errors

  - ErrUnauthorized: credential rejected by the Authorizer
  - *ValidationError: negative value or malformed backup key
  - ErrNotFound: restore of a backup that does not exist
  - *StoreError: the store failed; wraps the backend error

# Retention

Every successful Update writes backup_<today> (same-day writes overwrite)
and then deletes the keys for 8 through 30 days ago. Backups older than
30 days are never revisited, and nothing is pruned while writes stop;
package retention runs Sweep on a schedule to cover the latter.

# Concurrency

Last write wins. There is no version check on the current record and the
current/backup pair is not written atomically.
*/
package records
