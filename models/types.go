package models

import (
	"math"
	"time"
)

// Defaults and key layout
const (
	DefaultTargetMiles = 1000.0

	CurrentKey   = "current"
	BackupPrefix = "backup_"
	BackupLayout = "2006-01-02"

	// TimestampLayout matches the millisecond ISO-8601 form clients already parse.
	TimestampLayout = "2006-01-02T15:04:05.000Z"
)

// Donation rates in dollars per mile
const (
	TrainingRate = 1.0
	RaceRate     = 2.0
)

// Request types

// Numeric fields are loosely typed so that strings like "12.5" coerce the
// same way a number does. PIN is loose too: only a JSON string can match,
// anything else is a failed authorization rather than a decode error.
type UpdateMilesRequest struct {
	PIN                 interface{} `json:"pin"`
	TrainingMiles       interface{} `json:"trainingMiles"`
	RaceMiles           interface{} `json:"raceMiles"`
	AdditionalDonations interface{} `json:"additionalDonations"`
	TargetMiles         interface{} `json:"targetMiles"`
}

type RestoreRequest struct {
	PIN       interface{} `json:"pin"`
	BackupKey string      `json:"backupKey"`
}

// Response types

type WriteResponse struct {
	Success bool           `json:"success"`
	Data    ProgressRecord `json:"data"`
}

type BackupEntry struct {
	Date        string  `json:"date"`
	Key         string  `json:"key"`
	Miles       float64 `json:"miles"`
	LastUpdated string  `json:"lastUpdated"`
}

// Domain types

type ProgressRecord struct {
	TrainingMiles       float64 `json:"trainingMiles"`
	RaceMiles           float64 `json:"raceMiles"`
	AdditionalDonations float64 `json:"additionalDonations"`
	TargetMiles         float64 `json:"targetMiles"`
	LastUpdated         string  `json:"lastUpdated"`
}

// DefaultRecord is what readers see before anything has been written.
func DefaultRecord(now time.Time) ProgressRecord {
	return ProgressRecord{
		TargetMiles: DefaultTargetMiles,
		LastUpdated: FormatTimestamp(now),
	}
}

func (p ProgressRecord) TotalMiles() float64 {
	return p.TrainingMiles + p.RaceMiles
}

func (p ProgressRecord) TotalDonations() float64 {
	return p.TrainingMiles*TrainingRate + p.RaceMiles*RaceRate + p.AdditionalDonations
}

// ProgressPercent is clamped to [0, 100]. A zero target counts as reached
// once any miles are logged.
func (p ProgressRecord) ProgressPercent() float64 {
	total := p.TotalMiles()
	if p.TargetMiles <= 0 {
		if total > 0 {
			return 100
		}
		return 0
	}
	return math.Min(total/p.TargetMiles*100, 100)
}

// Negative reports the first numeric field below zero, if any.
func (p ProgressRecord) Negative() (string, bool) {
	switch {
	case p.TrainingMiles < 0:
		return "trainingMiles", true
	case p.RaceMiles < 0:
		return "raceMiles", true
	case p.AdditionalDonations < 0:
		return "additionalDonations", true
	case p.TargetMiles < 0:
		return "targetMiles", true
	}
	return "", false
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// BackupKey returns the backup key for the UTC calendar day containing t.
func BackupKey(t time.Time) string {
	return BackupPrefix + t.UTC().Format(BackupLayout)
}

// Error response

type ErrorResponse struct {
	Error string `json:"error"`
}
