package period

import (
	"errors"
	"testing"
	"time"
)

func ts(y int, m time.Month, d, hh, mm, ss, ms int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, ms*1e6, time.UTC)
}

func TestBucket(t *testing.T) {
	tests := []struct {
		name      string
		at        time.Time
		kind      Kind
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "day",
			at:        ts(2026, time.March, 15, 14, 30, 0, 0),
			kind:      Day,
			wantStart: ts(2026, time.March, 15, 0, 0, 0, 0),
			wantEnd:   ts(2026, time.March, 15, 23, 59, 59, 999),
		},
		{
			// 2026-03-18 is a Wednesday; its week runs Mon 16th to Sun 22nd
			name:      "week starts monday",
			at:        ts(2026, time.March, 18, 9, 0, 0, 0),
			kind:      Week,
			wantStart: ts(2026, time.March, 16, 0, 0, 0, 0),
			wantEnd:   ts(2026, time.March, 22, 23, 59, 59, 999),
		},
		{
			// a Sunday belongs to the week that began the previous Monday
			name:      "sunday closes the week",
			at:        ts(2026, time.March, 22, 23, 0, 0, 0),
			kind:      Week,
			wantStart: ts(2026, time.March, 16, 0, 0, 0, 0),
			wantEnd:   ts(2026, time.March, 22, 23, 59, 59, 999),
		},
		{
			name:      "monday starts its own week",
			at:        ts(2026, time.March, 16, 0, 0, 0, 0),
			kind:      Week,
			wantStart: ts(2026, time.March, 16, 0, 0, 0, 0),
			wantEnd:   ts(2026, time.March, 22, 23, 59, 59, 999),
		},
		{
			name:      "week spanning a month boundary",
			at:        ts(2026, time.April, 1, 12, 0, 0, 0),
			kind:      Week,
			wantStart: ts(2026, time.March, 30, 0, 0, 0, 0),
			wantEnd:   ts(2026, time.April, 5, 23, 59, 59, 999),
		},
		{
			name:      "february of a non-leap year",
			at:        ts(2026, time.February, 10, 0, 0, 0, 0),
			kind:      Month,
			wantStart: ts(2026, time.February, 1, 0, 0, 0, 0),
			wantEnd:   ts(2026, time.February, 28, 23, 59, 59, 999),
		},
		{
			name:      "february of a leap year",
			at:        ts(2028, time.February, 10, 0, 0, 0, 0),
			kind:      Month,
			wantStart: ts(2028, time.February, 1, 0, 0, 0, 0),
			wantEnd:   ts(2028, time.February, 29, 23, 59, 59, 999),
		},
		{
			name:      "year",
			at:        ts(2026, time.July, 4, 8, 0, 0, 0),
			kind:      Year,
			wantStart: ts(2026, time.January, 1, 0, 0, 0, 0),
			wantEnd:   ts(2026, time.December, 31, 23, 59, 59, 999),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Bucket(tc.at, tc.kind)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Start.Equal(tc.wantStart) || !got.End.Equal(tc.wantEnd) {
				t.Fatalf("got [%s, %s], want [%s, %s]", got.Start, got.End, tc.wantStart, tc.wantEnd)
			}
		})
	}

	t.Run("unknown kind", func(t *testing.T) {
		if _, err := Bucket(time.Now(), Kind("quarter")); !errors.Is(err, ErrUnknownKind) {
			t.Fatalf("got %v", err)
		}
	})
}

func TestMonthWindow(t *testing.T) {
	from, to := MonthWindow(2025, 12, time.UTC)
	if !from.Equal(ts(2025, time.December, 1, 0, 0, 0, 0)) {
		t.Fatalf("from %s", from)
	}
	if !to.Equal(ts(2026, time.January, 1, 0, 0, 0, 0)) {
		t.Fatalf("to %s", to)
	}
}

func TestPreviousMonth(t *testing.T) {
	tests := []struct {
		at        time.Time
		wantYear  int
		wantMonth int
	}{
		{ts(2026, time.March, 15, 0, 0, 0, 0), 2026, 2},
		{ts(2026, time.January, 1, 0, 0, 0, 0), 2025, 12},
	}
	for _, tc := range tests {
		y, m := PreviousMonth(tc.at)
		if y != tc.wantYear || m != tc.wantMonth {
			t.Fatalf("%s: got %d-%02d, want %d-%02d", tc.at, y, m, tc.wantYear, tc.wantMonth)
		}
	}
}
