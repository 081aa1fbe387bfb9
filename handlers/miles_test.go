// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/danielhkuo/miles-for-meals/auth"
	"github.com/danielhkuo/miles-for-meals/clock"
	"github.com/danielhkuo/miles-for-meals/kv"
	"github.com/danielhkuo/miles-for-meals/middleware"
	"github.com/danielhkuo/miles-for-meals/models"
	"github.com/danielhkuo/miles-for-meals/records"
	"github.com/danielhkuo/miles-for-meals/testutil"
)

func TestGetMiles_EmptyStore(t *testing.T) {
	env := testutil.SetupTestService(t)
	handler := NewMilesHandler(env.Service)

	w := httptest.NewRecorder()
	handler.GetMiles(w, testutil.MakeRequest("GET", "/api/miles", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)

	var rec models.ProgressRecord
	testutil.AssertJSON(t, w, &rec)

	want := models.ProgressRecord{TargetMiles: 1000, LastUpdated: "2026-10-17T15:04:05.000Z"}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("GetMiles() mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateMiles(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, resp *models.WriteResponse)
	}{
		{
			name: "valid update",
			requestBody: map[string]interface{}{
				"pin":                 testutil.TestPIN,
				"trainingMiles":       150,
				"raceMiles":           26.2,
				"additionalDonations": 100,
				"targetMiles":         1200,
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *models.WriteResponse) {
				want := models.WriteResponse{
					Success: true,
					Data: models.ProgressRecord{
						TrainingMiles:       150,
						RaceMiles:           26.2,
						AdditionalDonations: 100,
						TargetMiles:         1200,
						LastUpdated:         "2026-10-17T15:04:05.000Z",
					},
				}
				if diff := cmp.Diff(want, *resp); diff != "" {
					t.Errorf("response mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name: "string numbers and missing target",
			requestBody: map[string]interface{}{
				"pin":           testutil.TestPIN,
				"trainingMiles": "12.5",
				"raceMiles":     "oops",
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *models.WriteResponse) {
				if resp.Data.TrainingMiles != 12.5 || resp.Data.RaceMiles != 0 {
					t.Errorf("unexpected coercion: %+v", resp.Data)
				}
				if resp.Data.TargetMiles != 1000 {
					t.Errorf("expected default target, got %v", resp.Data.TargetMiles)
				}
			},
		},
		{
			name:           "wrong pin",
			requestBody:    map[string]interface{}{"pin": "0000", "trainingMiles": 10},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid PIN",
		},
		{
			name:           "missing pin",
			requestBody:    map[string]interface{}{"trainingMiles": 10},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid PIN",
		},
		{
			name:           "negative race miles",
			requestBody:    map[string]interface{}{"pin": testutil.TestPIN, "raceMiles": -1},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative target",
			requestBody:    map[string]interface{}{"pin": testutil.TestPIN, "targetMiles": "-5"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			requestBody:    "invalid json",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.SetupTestService(t)
			handler := NewMilesHandler(env.Service)

			w := httptest.NewRecorder()
			handler.UpdateMiles(w, testutil.MakeRequest("POST", "/api/miles", tt.requestBody, nil))

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus != http.StatusOK {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Error == "" {
					t.Error("Expected non-empty error message")
				}
				if tt.expectedError != "" && resp.Error != tt.expectedError {
					t.Errorf("Expected error '%s', got '%s'", tt.expectedError, resp.Error)
				}

				// Rejected writes leave nothing behind
				if keys := env.Store.Keys(); len(keys) != 0 {
					t.Errorf("Expected empty store after rejected write, got %v", keys)
				}
				return
			}

			var resp models.WriteResponse
			testutil.AssertJSON(t, w, &resp)
			if tt.checkResponse != nil {
				tt.checkResponse(t, &resp)
			}

			stored, ok := testutil.StoredRecord(t, env.Store, "current")
			if !ok {
				t.Fatal("Expected current record in store")
			}
			if diff := cmp.Diff(resp.Data, stored); diff != "" {
				t.Errorf("stored record differs from response (-resp +stored):\n%s", diff)
			}
		})
	}
}

func TestNonStringPIN(t *testing.T) {
	pins := []struct {
		name string
		raw  string
	}{
		{"number", `1234`},
		{"boolean", `true`},
		{"object", `{"pin":"test-pin-2026"}`},
		{"array", `["test-pin-2026"]`},
		{"null", `null`},
	}

	for _, p := range pins {
		t.Run("update "+p.name, func(t *testing.T) {
			env := testutil.SetupTestService(t)
			handler := NewMilesHandler(env.Service)

			body := `{"pin":` + p.raw + `,"trainingMiles":5}`
			w := httptest.NewRecorder()
			handler.UpdateMiles(w, testutil.MakeRequest("POST", "/api/miles", body, nil))

			testutil.AssertStatus(t, w, http.StatusUnauthorized)
			if keys := env.Store.Keys(); len(keys) != 0 {
				t.Errorf("Expected empty store, got %v", keys)
			}
		})

		t.Run("restore "+p.name, func(t *testing.T) {
			env := testutil.SetupTestService(t)
			handler := NewMilesHandler(env.Service)

			body := `{"pin":` + p.raw + `,"backupKey":"backup_2026-10-17"}`
			w := httptest.NewRecorder()
			handler.Restore(w, testutil.MakeRequest("POST", "/api/restore", body, nil))

			testutil.AssertStatus(t, w, http.StatusUnauthorized)
		})
	}
}

func TestOversizedBody(t *testing.T) {
	env := testutil.SetupTestService(t)
	handler := NewMilesHandler(env.Service)

	body := `{"pin":"` + strings.Repeat("9", middleware.MaxBodyBytes) + `"}`

	w := httptest.NewRecorder()
	handler.UpdateMiles(w, testutil.MakeRequest("POST", "/api/miles", body, nil))
	testutil.AssertStatus(t, w, http.StatusRequestEntityTooLarge)

	w = httptest.NewRecorder()
	handler.Restore(w, testutil.MakeRequest("POST", "/api/restore", body, nil))
	testutil.AssertStatus(t, w, http.StatusRequestEntityTooLarge)
}

func TestListBackups_AfterUpdate(t *testing.T) {
	env := testutil.SetupTestService(t)
	handler := NewMilesHandler(env.Service)

	body := map[string]interface{}{"pin": testutil.TestPIN, "trainingMiles": 40, "raceMiles": 13.5}
	w := httptest.NewRecorder()
	handler.UpdateMiles(w, testutil.MakeRequest("POST", "/api/miles", body, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	handler.ListBackups(w, testutil.MakeRequest("GET", "/api/backups", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var backups []models.BackupEntry
	testutil.AssertJSON(t, w, &backups)

	want := []models.BackupEntry{{
		Date:        "2026-10-17",
		Key:         "backup_2026-10-17",
		Miles:       53.5,
		LastUpdated: "2026-10-17T15:04:05.000Z",
	}}
	if diff := cmp.Diff(want, backups); diff != "" {
		t.Errorf("ListBackups() mismatch (-want +got):\n%s", diff)
	}
}

func TestListBackups_EmptyIsArray(t *testing.T) {
	env := testutil.SetupTestService(t)
	handler := NewMilesHandler(env.Service)

	w := httptest.NewRecorder()
	handler.ListBackups(w, testutil.MakeRequest("GET", "/api/backups", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	if body := w.Body.String(); body != "[]\n" {
		t.Errorf("Expected empty JSON array, got %q", body)
	}
}

func TestRestore(t *testing.T) {
	env := testutil.SetupTestService(t)
	handler := NewMilesHandler(env.Service)

	backup := []byte(`{"trainingMiles":75,"raceMiles":10,"additionalDonations":5,"targetMiles":1000,"lastUpdated":"2026-10-14T09:00:00.000Z"}`)
	env.Store.Put(context.Background(), "backup_2026-10-14", backup)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{"wrong pin", models.RestoreRequest{PIN: "bad", BackupKey: "backup_2026-10-14"}, http.StatusUnauthorized},
		{"missing key", models.RestoreRequest{PIN: testutil.TestPIN}, http.StatusBadRequest},
		{"key without prefix", models.RestoreRequest{PIN: testutil.TestPIN, BackupKey: "2026-10-14"}, http.StatusBadRequest},
		{"current is not a backup", models.RestoreRequest{PIN: testutil.TestPIN, BackupKey: "current"}, http.StatusBadRequest},
		{"absent backup", models.RestoreRequest{PIN: testutil.TestPIN, BackupKey: "backup_2026-10-01"}, http.StatusNotFound},
		{"invalid JSON", "{", http.StatusBadRequest},
		{"valid restore", models.RestoreRequest{PIN: testutil.TestPIN, BackupKey: "backup_2026-10-14"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.Restore(w, testutil.MakeRequest("POST", "/api/restore", tt.requestBody, nil))
			testutil.AssertStatus(t, w, tt.expectedStatus)

			current, ok := testutil.StoredRecord(t, env.Store, "current")
			if tt.expectedStatus != http.StatusOK {
				if ok {
					t.Errorf("current written by failed restore: %+v", current)
				}
				return
			}

			var resp models.WriteResponse
			testutil.AssertJSON(t, w, &resp)

			want := models.ProgressRecord{
				TrainingMiles:       75,
				RaceMiles:           10,
				AdditionalDonations: 5,
				TargetMiles:         1000,
				LastUpdated:         "2026-10-14T09:00:00.000Z",
			}
			if !resp.Success {
				t.Error("Expected success true")
			}
			if diff := cmp.Diff(want, resp.Data); diff != "" {
				t.Errorf("response mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(want, current); diff != "" {
				t.Errorf("current mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// brokenStore fails every operation
type brokenStore struct{}

var errBroken = errors.New("disk on fire")

func (brokenStore) Get(context.Context, string) ([]byte, error) { return nil, errBroken }
func (brokenStore) Put(context.Context, string, []byte) error { return errBroken }
func (brokenStore) Delete(context.Context, string) error { return errBroken }
func (brokenStore) Close() error { return nil }

var _ kv.Store = brokenStore{}

func TestStoreErrorsBecome500(t *testing.T) {
	svc := records.NewService(brokenStore{}, auth.NewPINAuthorizer(testutil.TestPIN), clock.NewManual(time.Now()))
	handler := NewMilesHandler(svc)

	tests := []struct {
		name     string
		call     func(w http.ResponseWriter, r *http.Request)
		req      *http.Request
		expected string
	}{
		{"get miles", handler.GetMiles, testutil.MakeRequest("GET", "/api/miles", nil, nil), "Failed to retrieve data"},
		{"update miles", handler.UpdateMiles, testutil.MakeRequest("POST", "/api/miles", map[string]interface{}{"pin": testutil.TestPIN}, nil), "Failed to update data"},
		{"list backups", handler.ListBackups, testutil.MakeRequest("GET", "/api/backups", nil, nil), "Failed to list backups"},
		{"restore", handler.Restore, testutil.MakeRequest("POST", "/api/restore", models.RestoreRequest{PIN: testutil.TestPIN, BackupKey: "backup_2026-10-17"}, nil), "Failed to restore backup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.call(w, tt.req)
			testutil.AssertStatus(t, w, http.StatusInternalServerError)

			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Error != tt.expected {
				t.Errorf("Expected error '%s', got '%s'", tt.expected, resp.Error)
			}
		})
	}
}
