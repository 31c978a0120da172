// Package worktime computes billable hours from clock times.
//
// A work span is a calendar day plus two HH:MM clock times. An end time at
// or before the start time is interpreted as ending on the following day
// (night shifts), except for a zero-length span, which is rejected.
package worktime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidTimeFormat reports a clock time that is not HH:MM (24-hour).
	ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:MM")
	// ErrNonPositiveDuration reports a span whose duration is not strictly
	// positive after the overnight adjustment (start == end).
	ErrNonPositiveDuration = errors.New("non-positive duration")
)

const minutesPerDay = 24 * 60

// ComputeHours returns the billable hours between start and end on the given
// date, rounded to two decimal places. Seconds in the input are truncated.
// Pure: the date only anchors the span, the duration depends on the clock
// times alone.
func ComputeHours(_ time.Time, start, end string) (decimal.Decimal, error) {
	startMin, err := parseClockMinutes(start)
	if err != nil {
		return decimal.Zero, err
	}
	endMin, err := parseClockMinutes(end)
	if err != nil {
		return decimal.Zero, err
	}

	if startMin == endMin {
		return decimal.Zero, ErrNonPositiveDuration
	}
	minutes := endMin - startMin
	if minutes < 0 {
		// End before start: the span crosses midnight.
		minutes += minutesPerDay
	}

	return decimal.NewFromInt(int64(minutes)).
		Div(decimal.NewFromInt(60)).
		Round(2), nil
}

// NormalizeClock validates a clock time and returns its canonical "HH:MM"
// form, dropping seconds when present.
func NormalizeClock(s string) (string, error) {
	min, err := parseClockMinutes(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", min/60, min%60), nil
}

// parseClockMinutes parses "HH:MM" (optionally "HH:MM:SS", seconds dropped)
// into minutes since midnight.
func parseClockMinutes(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, ErrInvalidTimeFormat
	}
	hh, mm := parts[0], parts[1]
	if len(hh) != 2 || len(mm) != 2 {
		return 0, ErrInvalidTimeFormat
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, ErrInvalidTimeFormat
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, ErrInvalidTimeFormat
	}
	if len(parts) == 3 {
		if _, err := strconv.Atoi(parts[2]); err != nil {
			return 0, ErrInvalidTimeFormat
		}
	}
	return h*60 + m, nil
}
