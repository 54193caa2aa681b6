package schedule

import "time"

// The engine runs on a 5-day working calendar: weekends are skipped when
// mapping working-day offsets to dates. Dates are normalized to UTC midnight.

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isWorkday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// NextWorkday returns d if d falls on a workday, the following Monday otherwise.
func NextWorkday(d time.Time) time.Time {
	d = dateOnly(d)
	for !isWorkday(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// AddWorkdays returns the workday n working days after d (n may be negative).
// d is normalized to a workday first.
func AddWorkdays(d time.Time, n int) time.Time {
	d = NextWorkday(d)
	step := 1
	if n < 0 {
		step = -1
		n = -n
	}
	for ; n > 0; n-- {
		d = d.AddDate(0, 0, step)
		for !isWorkday(d) {
			d = d.AddDate(0, 0, step)
		}
	}
	return d
}

// WorkdaysBetween returns the signed number of working days from a to b
// (zero when both normalize to the same workday).
func WorkdaysBetween(a, b time.Time) int {
	a = NextWorkday(a)
	b = NextWorkday(b)

	sign := 1
	if b.Before(a) {
		a, b = b, a
		sign = -1
	}
	var n int
	for d := a; d.Before(b); d = d.AddDate(0, 0, 1) {
		if isWorkday(d) {
			n++
		}
	}
	return sign * n
}
