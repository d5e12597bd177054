package tracker

import (
	"context"
	"time"

	"winner/internal/core"
)

const workingDaysPerWeek = 5

// TodayEarnings sums earnings over sessions that started today, local time.
func (t *Tracker) TodayEarnings() float64 {
	start, end := core.DayWindow(t.now())
	return t.earningsWithin(start, end)
}

// WeekEarnings sums earnings over sessions in the current Monday-start week.
func (t *Tracker) WeekEarnings() float64 {
	start, end := core.WeekWindow(t.now())
	return t.earningsWithin(start, end)
}

func (t *Tracker) earningsWithin(start, end time.Time) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	total := 0.0
	for _, s := range t.sessions {
		if core.Within(s.SortKey(), start, end) {
			total += s.Earning
		}
	}
	return core.Round2(total)
}

func (t *Tracker) todayWorkedHours() float64 {
	start, end := core.DayWindow(t.now())
	t.mu.Lock()
	defer t.mu.Unlock()
	minutes := 0.0
	for _, s := range t.sessions {
		if core.Within(s.SortKey(), start, end) {
			minutes += s.TotalMinutes
		}
	}
	return minutes / 60
}

// PaceProjection extrapolates the logged work history into day, week and
// month earnings estimates. The average is taken over the calendar days
// spanned by the history, today included, so sparse logging dilutes the
// pace instead of inflating it. When today has worked hours the effective
// rate comes from today's actuals, otherwise from the configured rate.
func (t *Tracker) PaceProjection(ctx context.Context) (core.Pace, error) {
	settings, err := t.rates.Load(ctx)
	if err != nil {
		return core.Pace{}, err
	}

	t.mu.Lock()
	var totalMinutes float64
	var earliest, latest time.Time
	for _, s := range t.sessions {
		totalMinutes += s.TotalMinutes
		key := s.SortKey()
		if key.IsZero() {
			continue
		}
		if earliest.IsZero() || key.Before(earliest) {
			earliest = key
		}
		if latest.IsZero() || key.After(latest) {
			latest = key
		}
	}
	t.mu.Unlock()

	if totalMinutes <= 0 || earliest.IsZero() {
		return core.Pace{}, nil
	}

	now := t.now()
	if now.After(latest) {
		latest = now
	}
	firstDay, _ := core.DayWindow(earliest)
	lastDay, _ := core.DayWindow(latest)
	daysSpanned := int(lastDay.Sub(firstDay).Hours()/24) + 1
	if daysSpanned < 1 {
		daysSpanned = 1
	}
	avgHoursPerDay := totalMinutes / 60 / float64(daysSpanned)

	effectiveRate := settings.HourlyRate
	if hours := t.todayWorkedHours(); hours > 0 {
		effectiveRate = t.TodayEarnings() / hours
	}

	day := avgHoursPerDay * effectiveRate
	return core.Pace{
		Day:   core.Round2(day),
		Week:  core.Round2(day * workingDaysPerWeek),
		Month: core.Round2(day * float64(core.WorkingDaysInMonth(now))),
	}, nil
}
