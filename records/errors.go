// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package records

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("invalid PIN")
	ErrNotFound     = errors.New("backup not found")
)

// ValidationError rejects a request without touching the store.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StoreError wraps a failure of the underlying key-value store.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
