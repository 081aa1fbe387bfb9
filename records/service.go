// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/miles-for-meals/auth"
	"github.com/danielhkuo/miles-for-meals/clock"
	"github.com/danielhkuo/miles-for-meals/kv"
	"github.com/danielhkuo/miles-for-meals/metrics"
	"github.com/danielhkuo/miles-for-meals/models"
)

// Backup window, in days relative to now
const (
	// ListDays is how many calendar days ListBackups reports, today included.
	ListDays = 8
	// SweepFrom and SweepTo bound the day offsets a sweep deletes.
	SweepFrom = 8
	SweepTo   = 30
)

// Service owns the current record and its dated backups.
//
// Writers race last-write-wins: there is no version check between reading
// and writing the current record, and the current/backup pair is not
// written atomically.
type Service struct {
	store  kv.Store
	authz  auth.Authorizer
	clock  clock.Clock
	logger *slog.Logger
}

func NewService(store kv.Store, authz auth.Authorizer, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Service{
		store:  store,
		authz:  authz,
		clock:  clk,
		logger: slog.Default().With("component", "records"),
	}
}

// Current returns the stored record, or defaults when nothing has been written.
func (s *Service) Current(ctx context.Context) (models.ProgressRecord, error) {
	data, err := s.store.Get(ctx, models.CurrentKey)
	if errors.Is(err, kv.ErrNotFound) {
		return models.DefaultRecord(s.clock.Now()), nil
	}
	if err != nil {
		return models.ProgressRecord{}, s.storeError("get", models.CurrentKey, err)
	}

	rec, err := decodeRecord(data)
	if err != nil {
		return models.ProgressRecord{}, s.storeError("decode", models.CurrentKey, err)
	}
	return rec, nil
}

// Update authorizes, validates, and persists a new current record, then
// stamps today's backup and sweeps old ones.
func (s *Service) Update(ctx context.Context, req models.UpdateMilesRequest) (models.ProgressRecord, error) {
	if err := s.authorize(ctx, req.PIN); err != nil {
		return models.ProgressRecord{}, err
	}

	now := s.clock.Now()
	rec := models.ProgressRecord{
		TrainingMiles:       models.NumberOr(req.TrainingMiles, 0),
		RaceMiles:           models.NumberOr(req.RaceMiles, 0),
		AdditionalDonations: models.NumberOr(req.AdditionalDonations, 0),
		TargetMiles:         models.NumberOr(req.TargetMiles, models.DefaultTargetMiles),
		LastUpdated:         models.FormatTimestamp(now),
	}
	if field, neg := rec.Negative(); neg {
		return models.ProgressRecord{}, &ValidationError{Message: "Values cannot be negative (" + field + ")"}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return models.ProgressRecord{}, fmt.Errorf("failed to encode record: %w", err)
	}

	if err := s.store.Put(ctx, models.CurrentKey, data); err != nil {
		return models.ProgressRecord{}, s.storeError("put", models.CurrentKey, err)
	}
	backupKey := models.BackupKey(now)
	if err := s.store.Put(ctx, backupKey, data); err != nil {
		return models.ProgressRecord{}, s.storeError("put", backupKey, err)
	}
	metrics.RecordWrites.WithLabelValues("update").Inc()

	s.logger.Info("record updated",
		"training_miles", rec.TrainingMiles,
		"race_miles", rec.RaceMiles,
		"backup", backupKey,
	)

	if err := s.Sweep(ctx, now); err != nil {
		s.logger.Warn("backup sweep incomplete", "error", err)
	}
	metrics.SweepRuns.WithLabelValues("write").Inc()

	return rec, nil
}

// ListBackups reports the backups present for the last ListDays UTC days,
// newest first.
func (s *Service) ListBackups(ctx context.Context) ([]models.BackupEntry, error) {
	now := s.clock.Now()
	found := make([]*models.BackupEntry, ListDays)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < ListDays; i++ {
		day := now.AddDate(0, 0, -i)
		g.Go(func() error {
			key := models.BackupKey(day)
			data, err := s.store.Get(gctx, key)
			if errors.Is(err, kv.ErrNotFound) {
				return nil
			}
			if err != nil {
				return s.storeError("get", key, err)
			}
			rec, err := decodeRecord(data)
			if err != nil {
				return s.storeError("decode", key, err)
			}
			found[i] = &models.BackupEntry{
				Date:        day.UTC().Format(models.BackupLayout),
				Key:         key,
				Miles:       rec.TotalMiles(),
				LastUpdated: rec.LastUpdated,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	backups := []models.BackupEntry{}
	for _, b := range found {
		if b != nil {
			backups = append(backups, *b)
		}
	}
	return backups, nil
}

// Restore copies a backup verbatim into the current record, original
// lastUpdated included. The pre-restore state is not backed up.
func (s *Service) Restore(ctx context.Context, req models.RestoreRequest) (models.ProgressRecord, error) {
	if err := s.authorize(ctx, req.PIN); err != nil {
		return models.ProgressRecord{}, err
	}
	if !strings.HasPrefix(req.BackupKey, models.BackupPrefix) {
		return models.ProgressRecord{}, &ValidationError{Message: "Invalid backup key"}
	}

	data, err := s.store.Get(ctx, req.BackupKey)
	if errors.Is(err, kv.ErrNotFound) {
		return models.ProgressRecord{}, ErrNotFound
	}
	if err != nil {
		return models.ProgressRecord{}, s.storeError("get", req.BackupKey, err)
	}

	rec, err := decodeRecord(data)
	if err != nil {
		return models.ProgressRecord{}, s.storeError("decode", req.BackupKey, err)
	}

	if err := s.store.Put(ctx, models.CurrentKey, data); err != nil {
		return models.ProgressRecord{}, s.storeError("put", models.CurrentKey, err)
	}
	metrics.RecordWrites.WithLabelValues("restore").Inc()

	s.logger.Info("record restored", "backup", req.BackupKey, "last_updated", rec.LastUpdated)
	return rec, nil
}

// Sweep deletes backups SweepFrom..SweepTo days older than now. Absent keys
// are not errors; other failures are collected but never stop the sweep.
func (s *Service) Sweep(ctx context.Context, now time.Time) error {
	var errs []error
	for offset := SweepFrom; offset <= SweepTo; offset++ {
		key := models.BackupKey(now.AddDate(0, 0, -offset))
		if err := s.store.Delete(ctx, key); err != nil {
			metrics.StoreErrors.WithLabelValues("delete").Inc()
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// authorize only hands string PINs to the authorizer
func (s *Service) authorize(ctx context.Context, pin interface{}) error {
	str, ok := pin.(string)
	if !ok {
		metrics.AuthFailures.Inc()
		return ErrUnauthorized
	}
	if err := s.authz.Authorize(ctx, str); err != nil {
		metrics.AuthFailures.Inc()
		return ErrUnauthorized
	}
	return nil
}

func (s *Service) storeError(op, key string, err error) error {
	metrics.StoreErrors.WithLabelValues(op).Inc()
	return &StoreError{Op: op, Key: key, Err: err}
}

func decodeRecord(data []byte) (models.ProgressRecord, error) {
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return models.ProgressRecord{}, err
	}
	return models.RecordFromFields(fields), nil
}
