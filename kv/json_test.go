// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package kv

import (
	"encoding/json"

	"github.com/google/go-cmp/cmp"
)

// jsonEqual compares decoded values; postgres JSONB normalizes whitespace.
func jsonEqual(a, b []byte) bool {
	var va, vb interface{}
	if json.Unmarshal(a, &va) != nil || json.Unmarshal(b, &vb) != nil {
		return false
	}
	return cmp.Equal(va, vb)
}
