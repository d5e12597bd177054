package core

import (
	"fmt"
	"math"
	"time"
)

// NoDuration is returned by formatters for input they cannot represent.
const NoDuration = "—"

// FormatElapsed renders elapsed seconds as zero-padded "HH:MM:SS". Values are
// floored, never rounded up; negative or non-finite input renders as zero.
func FormatElapsed(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	total := int(math.Floor(seconds))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatDurationMinutes renders minutes as "Xh Ym", "Xh" or "Ym". Minutes are
// rounded to the nearest integer; a round up to 60 carries into the hours.
// Negative or NaN input renders as NoDuration.
func FormatDurationMinutes(totalMinutes float64) string {
	if math.IsNaN(totalMinutes) || totalMinutes < 0 {
		return NoDuration
	}
	h := int(math.Floor(totalMinutes / 60))
	m := int(math.Round(totalMinutes - float64(h)*60))
	if m >= 60 {
		m = 0
		h++
	}
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// MonthKey derives the "YYYY-MM" key of a point in time.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// MonthLabel expands a "YYYY-MM" key into "January 2026". Invalid keys pass
// through unchanged.
func MonthLabel(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return fmt.Sprintf("%s %d", t.Month().String(), t.Year())
}

// WorkingDaysInMonth counts the Monday–Friday days of the month containing t.
func WorkingDaysInMonth(t time.Time) int {
	year, month := t.Year(), t.Month()
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, t.Location()).Day()
	count := 0
	for day := 1; day <= last; day++ {
		wd := time.Date(year, month, day, 0, 0, 0, 0, t.Location()).Weekday()
		if wd >= time.Monday && wd <= time.Friday {
			count++
		}
	}
	return count
}

// DayWindow returns the inclusive local-time bounds of the calendar day
// containing now.
func DayWindow(now time.Time) (start, end time.Time) {
	start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end = start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}

// WeekWindow returns the inclusive local-time bounds of the ISO week
// (Monday start) containing now.
func WeekWindow(now time.Time) (start, end time.Time) {
	offset := (int(now.Weekday()) + 6) % 7
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start = day.AddDate(0, 0, -offset)
	end = start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return start, end
}

// Within reports whether t falls inside [start, end].
func Within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
