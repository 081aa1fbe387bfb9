// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - UpdateMilesRequest: pin, trainingMiles, raceMiles, additionalDonations, targetMiles
  - RestoreRequest: pin, backupKey

# Response Types

  - WriteResponse: success, data
  - BackupEntry: date, key, miles, lastUpdated
  - ErrorResponse: error

# Domain Types

ProgressRecord is the only persisted entity. Derived values are methods
and never stored:

	rec.TotalMiles()       // training + race
	rec.TotalDonations()   // training*1 + race*2 + additional
	rec.ProgressPercent()  // clamped to 100

# Key Layout

	current             → ProgressRecord JSON
	backup_YYYY-MM-DD   → ProgressRecord JSON (UTC date of the write)
*/
package models
