// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command milesctl reads and updates a Miles for Meals server from the terminal.
//
//	milesctl [-api URL] show
//	milesctl [-api URL] watch [-every 5m]
//	milesctl [-api URL] set [-training N] [-race N] [-donations N] [-target N] -pin PIN
//	milesctl [-api URL] add [-training N] [-race N] [-donations N] -pin PIN
//	milesctl [-api URL] backups
//	milesctl [-api URL] restore -key backup_YYYY-MM-DD -pin PIN
//
// The API URL defaults to MILES_API_URL, and the PIN to MILES_PIN.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/miles-for-meals/client"
)

const defaultAPI = "http://localhost:8787"

var errUsage = errors.New("usage: milesctl [-api URL] show|watch|set|add|backups|restore [flags]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Keep client warnings off stdout
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "milesctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("milesctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	api := fs.String("api", envOr("MILES_API_URL", defaultAPI), "API base URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	tr := client.New(*api, nil)
	cmd, rest := fs.Arg(0), fs.Args()[1:]

	switch cmd {
	case "show":
		return show(ctx, tr, out)
	case "watch":
		return watch(ctx, tr, rest, out)
	case "set":
		return set(ctx, tr, rest, out, false)
	case "add":
		return set(ctx, tr, rest, out, true)
	case "backups":
		return backups(ctx, tr, out)
	case "restore":
		return restore(ctx, tr, rest, out)
	}
	return fmt.Errorf("unknown command %q\n%w", cmd, errUsage)
}

func show(ctx context.Context, tr *client.Tracker, out io.Writer) error {
	if err := tr.Load(ctx); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	fmt.Fprintln(out, tr.Summary())
	return nil
}

func watch(ctx context.Context, tr *client.Tracker, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	every := fs.Duration("every", client.DefaultRefreshInterval, "refresh interval")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *every <= 0 {
		return errors.New("-every must be positive")
	}

	ticker := time.NewTicker(*every)
	defer ticker.Stop()

	for {
		if err := tr.Load(ctx); err != nil {
			// Keep showing the last good snapshot
			fmt.Fprintln(out, "refresh failed:", err)
		} else {
			fmt.Fprintln(out, tr.Summary())
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// set loads the current record, applies the flags that were given, and
// saves. With add, values are increments rather than replacements.
func set(ctx context.Context, tr *client.Tracker, args []string, out io.Writer, add bool) error {
	name := "set"
	if add {
		name = "add"
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	training := fs.Float64("training", 0, "training miles")
	race := fs.Float64("race", 0, "race miles")
	donations := fs.Float64("donations", 0, "additional donations in dollars")
	target := fs.Float64("target", 0, "target miles (set only)")
	pin := fs.String("pin", os.Getenv("MILES_PIN"), "admin PIN")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *pin == "" {
		return errors.New("a PIN is required (-pin or MILES_PIN)")
	}

	if err := tr.Load(ctx); err != nil {
		return fmt.Errorf("load: %w", err)
	}

	given := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { given[f.Name] = true })

	if add {
		if given["target"] {
			return errors.New("-target cannot be used with add")
		}
		tr.AddTrainingMiles(*training)
		tr.AddRaceMiles(*race)
		tr.AddAdditionalDonation(*donations)
	} else {
		if given["training"] || given["race"] {
			snap := tr.Snapshot()
			if given["training"] {
				snap.TrainingMiles = *training
			}
			if given["race"] {
				snap.RaceMiles = *race
			}
			tr.SetMiles(snap.TrainingMiles, snap.RaceMiles)
		}
		if given["donations"] {
			tr.SetAdditionalDonations(*donations)
		}
		if given["target"] {
			tr.SetTargetMiles(*target)
		}
	}

	res := tr.Save(ctx, *pin)
	if !res.OK {
		return fmt.Errorf("save: %s", res.Error)
	}
	fmt.Fprintln(out, tr.Summary())
	return nil
}

func backups(ctx context.Context, tr *client.Tracker, out io.Writer) error {
	list, err := tr.Backups(ctx)
	if err != nil {
		return fmt.Errorf("backups: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "no backups in the last week")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tKEY\tMILES\tLAST UPDATED")
	for _, b := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.Date, b.Key, humanize.FormatFloat("#,###.#", b.Miles), b.LastUpdated)
	}
	return tw.Flush()
}

func restore(ctx context.Context, tr *client.Tracker, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	key := fs.String("key", "", "backup key, e.g. backup_2026-10-17")
	pin := fs.String("pin", os.Getenv("MILES_PIN"), "admin PIN")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *key == "" {
		return errors.New("-key is required")
	}
	if *pin == "" {
		return errors.New("a PIN is required (-pin or MILES_PIN)")
	}

	res := tr.Restore(ctx, *pin, *key)
	if !res.OK {
		return fmt.Errorf("restore: %s", res.Error)
	}
	fmt.Fprintf(out, "restored %s\n%s\n", *key, tr.Summary())
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
