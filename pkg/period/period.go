// Package period computes exact calendar bucket boundaries for reporting.
package period

import (
	"errors"
	"time"
)

type Kind string

const (
	Day   Kind = "day"
	Week  Kind = "week"
	Month Kind = "month"
	Year  Kind = "year"
)

var ErrUnknownKind = errors.New("unknown period kind")

// Range is an inclusive [Start, End] window. End sits at 23:59:59.999 of the
// bucket's last day.
type Range struct {
	Start time.Time
	End   time.Time
}

// endOfDay returns t's date at 23:59:59.999.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999e6, t.Location())
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Bucket returns the calendar bucket of kind containing t. Weeks start on
// Monday.
func Bucket(t time.Time, kind Kind) (Range, error) {
	switch kind {
	case Day:
		return Range{Start: startOfDay(t), End: endOfDay(t)}, nil
	case Week:
		// Monday = day 0 of the week.
		offset := (int(t.Weekday()) + 6) % 7
		start := startOfDay(t.AddDate(0, 0, -offset))
		return Range{Start: start, End: endOfDay(start.AddDate(0, 0, 6))}, nil
	case Month:
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		return Range{Start: start, End: endOfDay(start.AddDate(0, 1, -1))}, nil
	case Year:
		start := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
		return Range{Start: start, End: endOfDay(time.Date(t.Year(), 12, 31, 0, 0, 0, 0, t.Location()))}, nil
	default:
		return Range{}, ErrUnknownKind
	}
}

// MonthWindow returns the half-open [start, next-month-start) window of one
// calendar month, the form aggregation queries want.
func MonthWindow(year, month int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// PreviousMonth returns the year and month of the calendar month before t.
func PreviousMonth(t time.Time) (int, int) {
	prev := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, -1, 0)
	return prev.Year(), int(prev.Month())
}
