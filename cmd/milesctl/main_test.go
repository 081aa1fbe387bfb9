// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/miles-for-meals/router"
	"github.com/danielhkuo/miles-for-meals/testutil"
)

func newServer(t *testing.T) (string, *testutil.TestEnv) {
	t.Helper()
	env := testutil.SetupTestService(t)
	srv := httptest.NewServer(router.NewRouter(env.Service, testutil.GetTestConfig()))
	t.Cleanup(srv.Close)
	return srv.URL, env
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, &out)
	return out.String(), err
}

func TestShow(t *testing.T) {
	api, _ := newServer(t)

	out, err := runCmd(t, "-api", api, "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.HasPrefix(out, "0.0 of 1,000 miles (0%), $0.00 raised") {
		t.Errorf("unexpected show output: %q", out)
	}
}

func TestSetAndAdd(t *testing.T) {
	api, env := newServer(t)

	if _, err := runCmd(t, "-api", api, "set", "-training", "100", "-race", "10", "-target", "1200", "-pin", testutil.TestPIN); err != nil {
		t.Fatalf("set: %v", err)
	}

	// Only the given fields change
	if _, err := runCmd(t, "-api", api, "set", "-donations", "50", "-pin", testutil.TestPIN); err != nil {
		t.Fatalf("set donations: %v", err)
	}
	if rec, _ := testutil.StoredRecord(t, env.Store, "current"); rec.TrainingMiles != 100 || rec.RaceMiles != 10 {
		t.Errorf("set -donations changed miles: %+v", rec)
	}

	out, err := runCmd(t, "-api", api, "add", "-training", "5.5", "-pin", testutil.TestPIN)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.HasPrefix(out, "115.5 of 1,200 miles") {
		t.Errorf("unexpected add output: %q", out)
	}

	rec, ok := testutil.StoredRecord(t, env.Store, "current")
	if !ok {
		t.Fatal("no current record after set")
	}
	if rec.TrainingMiles != 105.5 || rec.RaceMiles != 10 || rec.AdditionalDonations != 50 || rec.TargetMiles != 1200 {
		t.Errorf("unexpected stored record: %+v", rec)
	}
}

func TestSetErrors(t *testing.T) {
	api, _ := newServer(t)
	t.Setenv("MILES_PIN", "")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing pin", []string{"-api", api, "set", "-training", "1"}, "PIN is required"},
		{"wrong pin", []string{"-api", api, "set", "-training", "1", "-pin", "nope"}, "Invalid PIN"},
		{"negative", []string{"-api", api, "set", "-race", "-3", "-pin", testutil.TestPIN}, "Values cannot be negative"},
		{"add with target", []string{"-api", api, "add", "-target", "5", "-pin", testutil.TestPIN}, "cannot be used with add"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCmd(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("run() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestBackupsAndRestore(t *testing.T) {
	api, env := newServer(t)

	out, err := runCmd(t, "-api", api, "backups")
	if err != nil {
		t.Fatalf("backups: %v", err)
	}
	if !strings.Contains(out, "no backups") {
		t.Errorf("unexpected empty backups output: %q", out)
	}

	if _, err := runCmd(t, "-api", api, "set", "-training", "1234", "-pin", testutil.TestPIN); err != nil {
		t.Fatalf("set: %v", err)
	}
	env.Clock.Advance(24 * time.Hour)
	if _, err := runCmd(t, "-api", api, "set", "-training", "1300", "-pin", testutil.TestPIN); err != nil {
		t.Fatalf("set: %v", err)
	}

	out, err = runCmd(t, "-api", api, "backups")
	if err != nil {
		t.Fatalf("backups: %v", err)
	}
	if !strings.Contains(out, "backup_2026-10-17") || !strings.Contains(out, "1,234") {
		t.Errorf("unexpected backups output:\n%s", out)
	}

	out, err = runCmd(t, "-api", api, "restore", "-key", "backup_2026-10-17", "-pin", testutil.TestPIN)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !strings.HasPrefix(out, "restored backup_2026-10-17") {
		t.Errorf("unexpected restore output: %q", out)
	}

	rec, _ := testutil.StoredRecord(t, env.Store, "current")
	if rec.TrainingMiles != 1234 {
		t.Errorf("current after restore = %+v", rec)
	}

	if _, err := runCmd(t, "-api", api, "restore", "-key", "backup_2026-10-01", "-pin", testutil.TestPIN); err == nil || !strings.Contains(err.Error(), "Backup not found") {
		t.Errorf("restore absent: %v", err)
	}
}

func TestWatchStopsOnCancel(t *testing.T) {
	api, _ := newServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- run(ctx, []string{"-api", api, "watch", "-every", "1h"}, &out) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop on cancel")
	}
}

func TestUsage(t *testing.T) {
	if _, err := runCmd(t); !errors.Is(err, errUsage) {
		t.Errorf("no command: %v", err)
	}
	if _, err := runCmd(t, "launch"); !errors.Is(err, errUsage) {
		t.Errorf("unknown command: %v", err)
	}
}
