package resolution

import "fmt"

// Resolution is the physical granularity of an integer timestamp column.
// A raw int64 is meaningless without one: 86_400_000 is a day in
// milliseconds and roughly 236 millennia in days.
type Resolution int

const (
	Nanosecond Resolution = iota
	Microsecond
	Millisecond
	// DayCount is a whole-day counter (Date columns). It has no sub-day
	// precision, so conversions to or from the sub-day resolutions are
	// only valid when the value lands exactly on a day boundary.
	DayCount
)

// Nanoseconds per unit for the sub-day resolutions.
const (
	NsPerUs  = 1_000
	NsPerMs  = 1_000_000
	NsPerSec = 1_000_000_000
	NsPerDay = 24 * 60 * 60 * NsPerSec
)

// ErrLossyConversion is returned when a resolution conversion would drop
// precision. Values are never silently truncated.
var ErrLossyConversion = fmt.Errorf("lossy resolution conversion")

// ErrOverflow is returned when a conversion would exceed the int64 range.
var ErrOverflow = fmt.Errorf("timestamp overflow")

func (r Resolution) String() string {
	switch r {
	case Nanosecond:
		return "ns"
	case Microsecond:
		return "us"
	case Millisecond:
		return "ms"
	case DayCount:
		return "d"
	}
	return fmt.Sprintf("Resolution(%d)", int(r))
}

// Parse maps the wire tokens {"ns","us","ms","d"} back to a Resolution.
func Parse(s string) (Resolution, error) {
	switch s {
	case "ns":
		return Nanosecond, nil
	case "us":
		return Microsecond, nil
	case "ms":
		return Millisecond, nil
	case "d":
		return DayCount, nil
	}
	return 0, fmt.Errorf("unknown resolution %q", s)
}

// NsPerUnit returns how many nanoseconds one tick of r represents.
func (r Resolution) NsPerUnit() int64 {
	switch r {
	case Nanosecond:
		return 1
	case Microsecond:
		return NsPerUs
	case Millisecond:
		return NsPerMs
	case DayCount:
		return NsPerDay
	}
	panic("unreachable resolution")
}

// Convert rescales v from resolution `from` to resolution `to`.
// Upscaling (coarser to finer) is an exact multiplication, checked for
// int64 overflow. Downscaling divides and fails with ErrLossyConversion
// if the value does not land exactly on a boundary of the target unit.
func Convert(v int64, from, to Resolution) (int64, error) {
	if from == to {
		return v, nil
	}
	fromNs, toNs := from.NsPerUnit(), to.NsPerUnit()
	if fromNs > toNs {
		factor := fromNs / toNs
		out := v * factor
		if out/factor != v {
			return 0, fmt.Errorf("%w: %d %s to %s", ErrOverflow, v, from, to)
		}
		return out, nil
	}
	factor := toNs / fromNs
	if v%factor != 0 {
		return 0, fmt.Errorf("%w: %d %s is not a whole number of %s", ErrLossyConversion, v, from, to)
	}
	return v / factor, nil
}

// ToNanoseconds converts v to a nanosecond count, the common unit for
// duration arithmetic. Fails on overflow for large DayCount values.
func ToNanoseconds(v int64, from Resolution) (int64, error) {
	return Convert(v, from, Nanosecond)
}
