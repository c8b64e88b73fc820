package obligation

import "time"

var periodicityMonths = map[Periodicity]int{
	PeriodicityMonthly:    1,
	PeriodicityQuarterly:  3,
	PeriodicitySemiannual: 6,
	PeriodicityAnnual:     12,
}

// NextDueDate returns the due date one period after d. The day of month is
// preserved unless the target month is shorter, in which case it is clamped
// to the last day of that month. An unrecognized periodicity returns d
// unchanged; callers must treat that as a no-progress signal.
func NextDueDate(d time.Time, p Periodicity) time.Time {
	months, ok := periodicityMonths[p]
	if !ok {
		return d
	}

	year, month, day := d.Date()
	target := month + time.Month(months)
	if last := lastDayOfMonth(year, target); day > last {
		day = last
	}
	return time.Date(year, target, day, 0, 0, 0, 0, d.Location())
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day zero of the following month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
