// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
)

var ErrInvalidPIN = errors.New("invalid PIN")

// Authorizer decides whether a credential may perform admin writes.
type Authorizer interface {
	Authorize(ctx context.Context, credential string) error
}

// PINAuthorizer accepts exactly one shared PIN. An empty PIN accepts nothing.
type PINAuthorizer struct {
	digest []byte
	empty  bool
}

func NewPINAuthorizer(pin string) *PINAuthorizer {
	return &PINAuthorizer{digest: digest(pin), empty: pin == ""}
}

// Authorize compares digests so the comparison time does not depend on
// where the credential first differs or on its length.
func (a *PINAuthorizer) Authorize(_ context.Context, credential string) error {
	if a.empty || !hmac.Equal(digest(credential), a.digest) {
		return ErrInvalidPIN
	}
	return nil
}

func digest(s string) []byte {
	sum := sha256.Sum256([]byte(s))
	return sum[:]
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(ctx context.Context, credential string) error

func (f AuthorizerFunc) Authorize(ctx context.Context, credential string) error {
	return f(ctx, credential)
}
