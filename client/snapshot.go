// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/miles-for-meals/models"
)

// finite maps NaN and infinities to zero.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func (t *Tracker) update(fn func(rec *models.ProgressRecord)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.rec)
}

func (t *Tracker) SetMiles(training, race float64) {
	t.update(func(rec *models.ProgressRecord) {
		rec.TrainingMiles = finite(training)
		rec.RaceMiles = finite(race)
	})
}

func (t *Tracker) SetAdditionalDonations(amount float64) {
	t.update(func(rec *models.ProgressRecord) {
		rec.AdditionalDonations = finite(amount)
	})
}

func (t *Tracker) SetTargetMiles(target float64) {
	t.update(func(rec *models.ProgressRecord) {
		rec.TargetMiles = finite(target)
	})
}

func (t *Tracker) AddTrainingMiles(miles float64) {
	t.update(func(rec *models.ProgressRecord) {
		rec.TrainingMiles += finite(miles)
	})
}

func (t *Tracker) AddRaceMiles(miles float64) {
	t.update(func(rec *models.ProgressRecord) {
		rec.RaceMiles += finite(miles)
	})
}

func (t *Tracker) AddAdditionalDonation(amount float64) {
	t.update(func(rec *models.ProgressRecord) {
		rec.AdditionalDonations += finite(amount)
	})
}

// Snapshot returns a copy of the local record.
func (t *Tracker) Snapshot() models.ProgressRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rec
}

func (t *Tracker) TotalMiles() float64 {
	rec := t.Snapshot()
	return rec.TotalMiles()
}

func (t *Tracker) TotalDonations() float64 {
	rec := t.Snapshot()
	return rec.TotalDonations()
}

func (t *Tracker) ProgressPercent() float64 {
	rec := t.Snapshot()
	return rec.ProgressPercent()
}

// Summary renders the snapshot for a terminal, e.g.
//
//	1,234.5 of 2,000 miles (62%), $2,345.00 raised, updated 3 minutes ago
func (t *Tracker) Summary() string {
	rec := t.Snapshot()

	updated := "never updated"
	if ts, err := time.Parse(time.RFC3339, rec.LastUpdated); err == nil {
		updated = "updated " + humanize.RelTime(ts, t.clock.Now(), "ago", "from now")
	}

	return fmt.Sprintf("%s of %s miles (%.0f%%), $%s raised, %s",
		humanize.FormatFloat("#,###.#", rec.TotalMiles()),
		humanize.FormatFloat("#,###.", rec.TargetMiles),
		rec.ProgressPercent(),
		humanize.FormatFloat("#,###.##", rec.TotalDonations()),
		updated,
	)
}
