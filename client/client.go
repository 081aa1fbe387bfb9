// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/miles-for-meals/clock"
	"github.com/danielhkuo/miles-for-meals/models"
)

// DefaultRefreshInterval is used by AutoRefresh when no interval is given.
const DefaultRefreshInterval = 5 * time.Minute

// SaveResult reports the outcome of a write. Error holds the server's error
// message, or a description of the transport failure.
type SaveResult struct {
	OK     bool
	Error  string
	Record models.ProgressRecord
}

// Tracker holds a local snapshot of the progress record and syncs it with
// the API. Setters only change the snapshot; Save publishes it.
type Tracker struct {
	baseURL    string
	httpClient *http.Client
	clock      clock.Clock
	logger     *slog.Logger

	mu  sync.RWMutex
	rec models.ProgressRecord
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the clock used for refresh timing and summaries.
func WithClock(clk clock.Clock) Option {
	return func(t *Tracker) {
		if clk != nil {
			t.clock = clk
		}
	}
}

// WithLogger overrides the default slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// New returns a Tracker for the API at baseURL. A nil httpClient uses
// http.DefaultClient.
func New(baseURL string, httpClient *http.Client, opts ...Option) *Tracker {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	t := &Tracker{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		clock:      clock.Real{},
		logger:     slog.Default().With("component", "client"),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.rec = models.DefaultRecord(t.clock.Now())
	return t
}

// Load replaces the snapshot with the server's current record. On failure
// the previous snapshot is kept.
func (t *Tracker) Load(ctx context.Context) error {
	var fields map[string]interface{}
	if err := t.do(ctx, http.MethodGet, "/api/miles", nil, &fields); err != nil {
		t.logger.Warn("load failed, keeping previous snapshot", "error", err)
		return err
	}

	rec := models.RecordFromFields(fields)
	t.mu.Lock()
	t.rec = rec
	t.mu.Unlock()
	return nil
}

// Save publishes the snapshot. On success the snapshot becomes the record
// the server stored.
func (t *Tracker) Save(ctx context.Context, pin string) SaveResult {
	snap := t.Snapshot()
	req := models.UpdateMilesRequest{
		PIN:                 pin,
		TrainingMiles:       snap.TrainingMiles,
		RaceMiles:           snap.RaceMiles,
		AdditionalDonations: snap.AdditionalDonations,
		TargetMiles:         snap.TargetMiles,
	}
	return t.write(ctx, "/api/miles", req)
}

// Restore asks the server to make backupKey the current record.
func (t *Tracker) Restore(ctx context.Context, pin, backupKey string) SaveResult {
	return t.write(ctx, "/api/restore", models.RestoreRequest{PIN: pin, BackupKey: backupKey})
}

// Backups lists the backups the server holds for the past week, newest first.
func (t *Tracker) Backups(ctx context.Context) ([]models.BackupEntry, error) {
	var backups []models.BackupEntry
	if err := t.do(ctx, http.MethodGet, "/api/backups", nil, &backups); err != nil {
		return nil, err
	}
	return backups, nil
}

func (t *Tracker) write(ctx context.Context, path string, body interface{}) SaveResult {
	var resp struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	if err := t.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return SaveResult{Error: err.Error()}
	}
	if !resp.Success {
		return SaveResult{Error: "server did not confirm the write"}
	}

	rec := models.RecordFromFields(resp.Data)
	t.mu.Lock()
	t.rec = rec
	t.mu.Unlock()
	return SaveResult{OK: true, Record: rec}
}

// APIError is a non-2xx response. Message is the server's error field.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

func (t *Tracker) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, t.baseURL+path, http.NoBody)
	}
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr models.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&apiErr) != nil || apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
