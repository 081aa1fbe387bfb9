// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth decides who may write the progress record.

# Authorizer

Handlers and the record service only see the Authorizer interface:

	type Authorizer interface {
		Authorize(ctx context.Context, credential string) error
	}

so a stronger scheme (signed tokens, per-admin credentials) can replace
the shared PIN without touching the record API.

# Shared PIN

PINAuthorizer accepts exactly one configured PIN:

	a := auth.NewPINAuthorizer(cfg.AdminPIN)
	err := a.Authorize(ctx, pin) // auth.ErrInvalidPIN on mismatch

Both sides are hashed with SHA-256 and compared with hmac.Equal, so the
check is constant time regardless of input length. An empty configured
PIN rejects every credential.
*/
package auth
