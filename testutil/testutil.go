// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/miles-for-meals/auth"
	"github.com/danielhkuo/miles-for-meals/cliparse"
	"github.com/danielhkuo/miles-for-meals/clock"
	"github.com/danielhkuo/miles-for-meals/kv"
	"github.com/danielhkuo/miles-for-meals/models"
	"github.com/danielhkuo/miles-for-meals/records"
)

// TestPIN is the admin PIN used by GetTestConfig and SetupTestService
const TestPIN = "test-pin-2026"

// TestNow is where the manual clock of SetupTestService starts
var TestNow = time.Date(2026, 10, 17, 15, 4, 5, 0, time.UTC)

// TestEnv bundles a service with the store and clock behind it
type TestEnv struct {
	Service *records.Service
	Store   *kv.Memory
	Clock   *clock.Manual
}

// SetupTestService creates a record service over a fresh in-memory store
func SetupTestService(t *testing.T) *TestEnv {
	t.Helper()

	store := kv.NewMemory()
	clk := clock.NewManual(TestNow)
	t.Cleanup(func() { store.Close() })

	return &TestEnv{
		Service: records.NewService(store, auth.NewPINAuthorizer(TestPIN), clk),
		Store:   store,
		Clock:   clk,
	}
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          8787,
		StoreType:     "memory",
		AdminPIN:      TestPIN,
		SweepSchedule: "off",
		RateLimit:     0,
		RateBurst:     cliparse.DefaultRateBurst,
	}
}

// StoredRecord reads and decodes a key straight from the store
func StoredRecord(t *testing.T, store kv.Store, key string) (models.ProgressRecord, bool) {
	t.Helper()

	data, err := store.Get(t.Context(), key)
	if errors.Is(err, kv.ErrNotFound) {
		return models.ProgressRecord{}, false
	}
	if err != nil {
		t.Fatalf("Failed to read %s: %v", key, err)
	}

	var rec models.ProgressRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("Failed to decode %s: %v", key, err)
	}
	return rec, true
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		var jsonBody []byte
		if raw, ok := body.(string); ok {
			jsonBody = []byte(raw)
		} else {
			jsonBody, _ = json.Marshal(body)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
