// Package duration implements the mixed calendar/physical offset model.
//
// A Duration keeps its calendar components (months, weeks, days) separate
// from its physical component (nanoseconds) instead of normalizing
// everything to nanoseconds up front. Normalizing early is the classic
// correctness bug: "1mo" is 28 to 31 days depending on the anchor date,
// and "1d" is 23 to 25 physical hours when a DST transition sits inside
// it. The split is only collapsed at application time, against a concrete
// anchor timestamp and (optionally) timezone.
package duration

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidDuration reports input that does not match the
	// -?(<uint><unit>)+ grammar.
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrOverflow reports arithmetic past the representable timestamp range.
	ErrOverflow = errors.New("timestamp overflow")
	// ErrUnsupportedTruncation reports truncation by a calendar-dependent
	// duration, which has no anchor-free meaning.
	ErrUnsupportedTruncation = errors.New("cannot truncate by a calendar-dependent duration")
)

// Duration is an immutable mixed offset. All magnitude fields are
// non-negative; the sign lives once in negative, so negation and addition
// stay unambiguous.
type Duration struct {
	months   int64
	weeks    int64
	days     int64
	nsecs    int64
	negative bool
}

const (
	nsPerUs   = int64(1_000)
	nsPerMs   = int64(1_000_000)
	nsPerSec  = int64(1_000_000_000)
	nsPerMin  = 60 * nsPerSec
	nsPerHour = 60 * nsPerMin
	nsPerDay  = 24 * nsPerHour
)

// unitScales maps fixed units to their nanosecond multiplier. Calendar
// units (mo, y, w, d) are handled separately in Parse; they must not be
// collapsed to nanoseconds.
var unitScales = map[string]int64{
	"ns": 1,
	"us": nsPerUs,
	"ms": nsPerMs,
	"s":  nsPerSec,
	"m":  nsPerMin,
	"h":  nsPerHour,
}

// Parse builds a Duration from the compact grammar: an optional leading
// '-', then one or more <digits><unit> tokens with no separators, unit one
// of ns, us, ms, s, m, h, d, w, mo, y. Repeated units accumulate.
// Parsing never consults an anchor or timezone.
func Parse(text string) (Duration, error) {
	s := text
	var d Duration
	if strings.HasPrefix(s, "-") {
		d.negative = true
		s = s[1:]
	}
	if s == "" {
		return Duration{}, fmt.Errorf("%w: empty input", ErrInvalidDuration)
	}

	for len(s) > 0 {
		// digits
		i := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == 0 {
			return Duration{}, fmt.Errorf("%w %q: expected digits at %q", ErrInvalidDuration, text, s)
		}
		var n int64
		for _, c := range s[:i] {
			digit := int64(c - '0')
			if n > (1<<63-1-digit)/10 {
				return Duration{}, fmt.Errorf("%w %q: magnitude %q too large", ErrInvalidDuration, text, s[:i])
			}
			n = n*10 + digit
		}

		// unit: the full run of letters following the digits
		j := i
		for j < len(s) && isUnitByte(s[j]) {
			j++
		}
		unit := s[i:j]
		if unit == "" {
			return Duration{}, fmt.Errorf("%w %q: number %q has no unit", ErrInvalidDuration, text, s[:i])
		}

		switch unit {
		case "y":
			d.months += 12 * n
		case "mo":
			d.months += n
		case "w":
			d.weeks += n
		case "d":
			d.days += n
		default:
			scale, ok := unitScales[unit]
			if !ok {
				return Duration{}, fmt.Errorf("%w %q: unknown unit %q", ErrInvalidDuration, text, unit)
			}
			prod, err := mulNoOverflow(n, scale)
			if err != nil {
				return Duration{}, fmt.Errorf("%w %q: token %q overflows", ErrInvalidDuration, text, s[:j])
			}
			if d.nsecs > (1<<63-1)-prod {
				return Duration{}, fmt.Errorf("%w %q: total overflows", ErrInvalidDuration, text)
			}
			d.nsecs += prod
		}
		s = s[j:]
	}
	return d, nil
}

func isUnitByte(b byte) bool {
	return b >= 'a' && b <= 'z'
}

// MustParse is Parse for compile-time-constant inputs; it panics on error.
func MustParse(text string) Duration {
	d, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero reports whether the duration has no effect at all.
func (d Duration) IsZero() bool {
	return d.months == 0 && d.weeks == 0 && d.days == 0 && d.nsecs == 0
}

// IsCalendar reports whether the duration's physical length depends on
// the anchor date (and, under a timezone, on DST). A pure-nanosecond
// duration is a fixed physical delta.
func (d Duration) IsCalendar() bool {
	return d.months != 0 || d.weeks != 0 || d.days != 0
}

// IsNegative reports the sign.
func (d Duration) IsNegative() bool { return d.negative }

// Magnitude accessors. All are non-negative; the sign lives in IsNegative.

func (d Duration) Months() int64      { return d.months }
func (d Duration) Weeks() int64       { return d.weeks }
func (d Duration) Days() int64        { return d.days }
func (d Duration) Nanoseconds() int64 { return d.nsecs }

// Negate flips the sign. Magnitude fields are untouched; application
// inverts the whole effect, not each field.
func (d Duration) Negate() Duration {
	if d.IsZero() {
		return d
	}
	d.negative = !d.negative
	return d
}

// FixedNs returns the physical nanosecond length, valid only when
// !IsCalendar().
func (d Duration) FixedNs() int64 {
	if d.negative {
		return -d.nsecs
	}
	return d.nsecs
}

// String renders the duration back into the compact grammar. Fixed
// nanoseconds decompose greedily into the largest units; the output
// re-parses to an equal Duration.
func (d Duration) String() string {
	if d.IsZero() {
		return "0ns"
	}
	var b strings.Builder
	if d.negative {
		b.WriteByte('-')
	}
	writePart := func(n int64, unit string) {
		if n != 0 {
			fmt.Fprintf(&b, "%d%s", n, unit)
		}
	}
	writePart(d.months/12, "y")
	writePart(d.months%12, "mo")
	writePart(d.weeks, "w")
	writePart(d.days, "d")

	ns := d.nsecs
	writePart(ns/nsPerHour, "h")
	ns %= nsPerHour
	writePart(ns/nsPerMin, "m")
	ns %= nsPerMin
	writePart(ns/nsPerSec, "s")
	ns %= nsPerSec
	writePart(ns/nsPerMs, "ms")
	ns %= nsPerMs
	writePart(ns/nsPerUs, "us")
	ns %= nsPerUs
	writePart(ns, "ns")
	return b.String()
}

func mulNoOverflow(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	prod := a * b
	if prod/b != a {
		return 0, ErrOverflow
	}
	return prod, nil
}
