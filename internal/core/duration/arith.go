package duration

import (
	"fmt"
	"time"

	"github.com/lodestar-lab/temporal-engine/internal/core/resolution"
	"github.com/lodestar-lab/temporal-engine/internal/core/timezone"
)

// Year range representable in int64 nanoseconds since the epoch. Calendar
// stepping outside it is an overflow, same as the physical additions.
const (
	minYear = 1678
	maxYear = 2261
)

// AddTo applies the duration to a physical timestamp at the given
// resolution. A nil resolver means the timestamp is naive (or UTC, which
// behaves identically).
//
// The ordered steps make results deterministic and match calendar
// intuition: localize, add months with day-of-month clamping, add whole
// calendar days, re-localize under the ambiguous/nonexistent policies,
// then add the physical nanosecond component in UTC. A negative duration
// inverts the net effect by running the exact reverse order, so clamping
// composes the way a human undoing the addition would expect.
//
// The bool result is false only when re-localization hits a nonexistent
// local time under NonexistentPolicy NullResult.
func (d Duration) AddTo(ts int64, res resolution.Resolution, tz *timezone.Resolver, amb timezone.AmbiguousPolicy, non timezone.NonexistentPolicy) (int64, bool, error) {
	ns, err := resolution.Convert(ts, res, resolution.Nanosecond)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrOverflow, err)
	}

	cur := ns
	valid := true
	if d.negative {
		// Reverse of the forward order: physical part first, then days,
		// then months.
		if cur, err = addNsChecked(cur, -d.nsecs); err != nil {
			return 0, false, err
		}
		if d.IsCalendar() {
			cur, valid, err = d.applyCalendar(cur, res, tz, amb, non, -1)
			if err != nil || !valid {
				return 0, false, err
			}
		}
	} else {
		if d.IsCalendar() {
			cur, valid, err = d.applyCalendar(cur, res, tz, amb, non, +1)
			if err != nil || !valid {
				return 0, false, err
			}
		}
		if cur, err = addNsChecked(cur, d.nsecs); err != nil {
			return 0, false, err
		}
	}

	out, err := resolution.Convert(cur, resolution.Nanosecond, res)
	if err != nil {
		return 0, false, err
	}
	return out, true, nil
}

// applyCalendar runs the calendar-dependent part (months and whole days)
// in local naive time. sign is +1 for forward, -1 for inverted; the
// month/day order flips with it.
func (d Duration) applyCalendar(utcNs int64, res resolution.Resolution, tz *timezone.Resolver, amb timezone.AmbiguousPolicy, non timezone.NonexistentPolicy, sign int64) (int64, bool, error) {
	local := utcNs
	if tz != nil {
		local = tz.UtcToLocal(utcNs)
	}

	wholeDays, err := mulNoOverflow(d.weeks*7+d.days, nsPerDay)
	if err != nil {
		return 0, false, err
	}

	if sign > 0 {
		if local, err = addMonths(local, d.months); err != nil {
			return 0, false, err
		}
		if local, err = addNsChecked(local, wholeDays); err != nil {
			return 0, false, err
		}
	} else {
		if local, err = addNsChecked(local, -wholeDays); err != nil {
			return 0, false, err
		}
		if local, err = addMonths(local, -d.months); err != nil {
			return 0, false, err
		}
	}

	if tz == nil {
		return local, true, nil
	}
	return tz.LocalToUtc(local, amb, non, res.NsPerUnit())
}

// addMonths advances the civil date by whole months, clamping the
// day-of-month to the last valid day of the target month. Jan 31 plus one
// month is Feb 28 (or 29), never Mar 3. The time of day is untouched.
func addMonths(localNs, months int64) (int64, error) {
	if months == 0 {
		return localNs, nil
	}
	t := time.Unix(0, localNs).UTC()
	year, month, day := t.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).UnixNano()
	timeOfDay := localNs - midnight

	total := int64(year)*12 + int64(month) - 1 + months
	newYear := floorDiv(total, 12)
	newMonth := time.Month(total-newYear*12) + 1
	if newYear < minYear || newYear > maxYear {
		return 0, fmt.Errorf("%w: month arithmetic reaches year %d", ErrOverflow, newYear)
	}
	if last := daysInMonth(int(newYear), newMonth); day > last {
		day = last
	}
	return time.Date(int(newYear), newMonth, day, 0, 0, 0, 0, time.UTC).UnixNano() + timeOfDay, nil
}

// daysInMonth uses the day-zero normalization of time.Date: day 0 of the
// next month is the last day of this one.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Truncate rounds a timestamp down to the nearest multiple of the
// duration. Only positive fixed durations qualify: "nearest multiple of a
// month" is ill-defined without an anchor convention, so calendar
// durations are rejected rather than approximated.
func (d Duration) Truncate(ts int64, res resolution.Resolution) (int64, error) {
	if d.IsCalendar() {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedTruncation, d)
	}
	if d.nsecs == 0 || d.negative {
		return 0, fmt.Errorf("%w: truncation requires a positive duration, got %s", ErrInvalidDuration, d)
	}
	ns, err := resolution.Convert(ts, res, resolution.Nanosecond)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrOverflow, err)
	}
	floored := floorDiv(ns, d.nsecs) * d.nsecs
	return resolution.Convert(floored, resolution.Nanosecond, res)
}

func addNsChecked(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, fmt.Errorf("%w: %d + %d", ErrOverflow, a, b)
	}
	return sum, nil
}

// floorDiv divides rounding toward negative infinity, so pre-epoch
// timestamps truncate downward, not toward zero.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
