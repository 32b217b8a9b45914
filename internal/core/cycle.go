package core

import "time"

// Schedule describes the billing-cycle calendar: a fixed reset day under the
// old regime, a one-time change date, one oversized transition cycle, and a
// new reset day afterwards. All four values come from configuration; the
// resolver itself is a pure function of "today".
type Schedule struct {
	OldResetDay   int
	NewResetDay   int
	ChangeDate    time.Time // first day of the transition cycle
	TransitionEnd time.Time // last day of the transition cycle, inclusive
}

// ResetDayFor returns the reset day in force on the given date.
func (s Schedule) ResetDayFor(d time.Time) int {
	if !DateOnly(d).Before(DateOnly(s.ChangeDate)) {
		return s.NewResetDay
	}
	return s.OldResetDay
}

// inTransition reports whether d falls inside the transition cycle.
func (s Schedule) inTransition(d time.Time) bool {
	return !d.Before(DateOnly(s.ChangeDate)) && !d.After(DateOnly(s.TransitionEnd))
}

// CycleStart returns the first day of the billing cycle containing today.
func (s Schedule) CycleStart(today time.Time) time.Time {
	d := DateOnly(today)

	if s.inTransition(d) {
		return DateOnly(s.ChangeDate)
	}

	resetDay := s.OldResetDay
	if d.After(DateOnly(s.TransitionEnd)) {
		resetDay = s.NewResetDay
	}

	if d.Day() >= resetDay {
		return time.Date(d.Year(), d.Month(), resetDay, 0, 0, 0, 0, time.UTC)
	}
	prev := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return time.Date(prev.Year(), prev.Month(), resetDay, 0, 0, 0, 0, time.UTC)
}

// CurrentAndPrevious resolves the cycle containing today and the one before
// it. The cycle right after the transition reports the transition cycle as
// its previous, not a synthetic one-month-back window.
func (s Schedule) CurrentAndPrevious(today time.Time) (current, previous Cycle) {
	d := DateOnly(today)
	change := DateOnly(s.ChangeDate)
	transitionEnd := DateOnly(s.TransitionEnd)

	if s.inTransition(d) {
		current = Cycle{Start: change, End: transitionEnd}
		prevEnd := change.AddDate(0, 0, -1)
		previous = Cycle{Start: AddMonthsClamped(prevEnd, -1).AddDate(0, 0, 1), End: prevEnd}
		return current, previous
	}

	resetDay := s.OldResetDay
	if d.After(transitionEnd) {
		resetDay = s.NewResetDay
	}

	anchor := time.Date(d.Year(), d.Month(), resetDay, 0, 0, 0, 0, time.UTC)
	var end time.Time
	if d.Day() < resetDay {
		end = anchor.AddDate(0, 0, -1)
	} else {
		end = AddMonthsClamped(anchor, 1).AddDate(0, 0, -1)
	}
	start := AddMonthsClamped(end.AddDate(0, 0, 1), -1)
	current = Cycle{Start: start, End: end}

	if d.After(transitionEnd) && start.Equal(transitionEnd.AddDate(0, 0, 1)) {
		previous = Cycle{Start: change, End: transitionEnd}
	} else {
		previous = Cycle{Start: AddMonthsClamped(start, -1), End: AddMonthsClamped(end, -1)}
	}
	return current, previous
}

// AddMonthsClamped advances t by whole calendar months, clamping to the last
// day of the target month instead of normalizing (Jan 31 +1 month is Feb 28,
// not Mar 3). Time of day is preserved.
func AddMonthsClamped(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	day := t.Day()
	if last := daysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
