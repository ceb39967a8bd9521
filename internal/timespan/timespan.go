// Package timespan converts free-form duration strings such as "45 minutes",
// "2 hrs" or "1:30:00" into time.Duration values and back.
package timespan

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrParse is returned when a string matches none of the recognised forms.
var ErrParse = errors.New("cannot parse time string")

// Parse converts s into a duration. Forms are checked in this order:
//
//	contains "minute"/"min" -> all digits in s as minutes
//	contains "hour"/"hr"    -> all digits in s as hours
//	contains ":"            -> h:m:s or h:m
//	otherwise               -> the whole string as integer minutes
//
// Matching is case-insensitive. Note that digit extraction concatenates every
// digit, so "2 hours 30 minutes" is read as 230 minutes. Values outside the
// range of time.Duration are rejected with ErrParse. In clock form a leading
// "-" negates the whole value, so "-0:45" is minus 45 minutes.
func Parse(s string) (time.Duration, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))

	switch {
	case strings.Contains(normalized, "minute") || strings.Contains(normalized, "min"):
		minutes, err := digitsOf(normalized)
		if err != nil {
			return 0, parseError(s)
		}
		return scaled(s, minutes, time.Minute)
	case strings.Contains(normalized, "hour") || strings.Contains(normalized, "hr"):
		hours, err := digitsOf(normalized)
		if err != nil {
			return 0, parseError(s)
		}
		return scaled(s, hours, time.Hour)
	case strings.Contains(normalized, ":"):
		return parseClock(s, strings.Split(normalized, ":"))
	}

	minutes, err := strconv.ParseInt(normalized, 10, 64)
	if err != nil {
		return 0, parseError(s)
	}
	return scaled(s, minutes, time.Minute)
}

// ParseBestEffort is the lenient variant used for optional fields: empty input
// or any parse failure yields nil instead of an error.
func ParseBestEffort(s string) *time.Duration {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	d, err := Parse(s)
	if err != nil {
		return nil
	}
	return &d
}

// Format renders d as H:MM:SS. Hours are not folded into days so the result
// always parses back to the same value.
func Format(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%s%d:%02d:%02d", sign, hours, minutes, seconds)
}

func parseClock(raw string, parts []string) (time.Duration, error) {
	if len(parts) != 2 && len(parts) != 3 {
		return 0, parseError(raw)
	}

	negative := false
	parts[0] = strings.TrimSpace(parts[0])
	if strings.HasPrefix(parts[0], "-") {
		negative = true
		parts[0] = parts[0][1:]
		if strings.HasPrefix(parts[0], "-") || strings.HasPrefix(parts[0], "+") {
			return 0, parseError(raw)
		}
	}

	units := []time.Duration{time.Hour, time.Minute, time.Second}
	var total time.Duration
	for i, part := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return 0, parseError(raw)
		}
		d, err := scaled(raw, v, units[i])
		if err != nil {
			return 0, err
		}
		if (d > 0 && total > math.MaxInt64-d) || (d < 0 && total < math.MinInt64-d) {
			return 0, parseError(raw)
		}
		total += d
	}
	if negative {
		if total == math.MinInt64 {
			return 0, parseError(raw)
		}
		total = -total
	}
	return total, nil
}

// scaled returns n units, or ErrParse when the product does not fit.
func scaled(raw string, n int64, unit time.Duration) (time.Duration, error) {
	limit := math.MaxInt64 / int64(unit)
	if n > limit || n < -limit {
		return 0, parseError(raw)
	}
	return time.Duration(n) * unit, nil
}

func digitsOf(s string) (int64, error) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return strconv.ParseInt(b.String(), 10, 64)
}

func parseError(raw string) error {
	return fmt.Errorf("%w: %q", ErrParse, raw)
}
