package models

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// leadingNumber matches the decimal number at the start of a string
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// CoerceNumber parses v as a finite number. Numbers succeed, and strings
// yield their leading number ("12abc" is 12, "-5 miles" is -5). nil,
// booleans, strings without a leading number, NaN and infinities fail.
func CoerceNumber(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		return parseLeadingNumber(x)
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseLeadingNumber(s string) (float64, bool) {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// NumberOr returns the coerced value of v, or fallback when v is not a number.
func NumberOr(v interface{}, fallback float64) float64 {
	if f, ok := CoerceNumber(v); ok {
		return f
	}
	return fallback
}

// RecordFromFields builds a record from loosely typed fields, as decoded
// from JSON into a map. Missing or junk numbers become 0; the target
// falls back to DefaultTargetMiles.
func RecordFromFields(fields map[string]interface{}) ProgressRecord {
	return ProgressRecord{
		TrainingMiles:       NumberOr(fields["trainingMiles"], 0),
		RaceMiles:           NumberOr(fields["raceMiles"], 0),
		AdditionalDonations: NumberOr(fields["additionalDonations"], 0),
		TargetMiles:         NumberOr(fields["targetMiles"], DefaultTargetMiles),
		LastUpdated:         cast.ToString(fields["lastUpdated"]),
	}
}
