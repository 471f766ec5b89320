// Package timezone resolves naive local timestamps against the IANA
// timezone database: naive-to-UTC with explicit policies for the
// DST-ambiguous and DST-nonexistent cases, UTC-to-naive, and zone-to-zone
// conversion (which never changes the underlying instant).
//
// The database is the embedded tzdata copy, so IANA names resolve even on
// hosts without /usr/share/zoneinfo. All arithmetic is on int64 nanosecond
// counts since the Unix epoch; a naive value is the same count read as
// wall-clock digits instead of an instant.
package timezone

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata" // bundled IANA database
)

var (
	// ErrAmbiguousTime reports a local time covered twice by a fall-back
	// transition, under AmbiguousPolicy Raise.
	ErrAmbiguousTime = errors.New("ambiguous local time")
	// ErrNonexistentTime reports a local time skipped by a spring-forward
	// transition, under NonexistentPolicy Raise.
	ErrNonexistentTime = errors.New("nonexistent local time")
)

// Locator loads named timezones. The production implementation wraps the
// embedded database; tests inject fixed or failing locators.
type Locator interface {
	Load(name string) (*time.Location, error)
}

// StdLocator resolves names through the process timezone database.
// "" and "UTC" are always valid, database or not.
type StdLocator struct{}

func (StdLocator) Load(name string) (*time.Location, error) {
	if name == "" || name == "UTC" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}

// Resolver converts between naive local nanosecond timestamps and UTC
// nanosecond timestamps for one timezone. It is stateless after
// construction and safe for unsynchronized concurrent use.
type Resolver struct {
	name string
	loc  *time.Location
}

// NewResolver resolves name once through the locator. A nil locator uses
// the embedded database.
func NewResolver(name string, locator Locator) (*Resolver, error) {
	if locator == nil {
		locator = StdLocator{}
	}
	loc, err := locator.Load(name)
	if err != nil {
		return nil, err
	}
	return &Resolver{name: name, loc: loc}, nil
}

func (r *Resolver) Name() string { return r.name }

// offsetAt returns the zone's UTC offset, in seconds, in effect at the
// given UTC instant.
func (r *Resolver) offsetAt(utcNs int64) int64 {
	_, off := time.Unix(0, utcNs).In(r.loc).Zone()
	return int64(off)
}

// UtcToLocal reinterprets a UTC instant as the zone's wall-clock digits.
// Every instant has exactly one local representation, so this never fails.
func (r *Resolver) UtcToLocal(utcNs int64) int64 {
	return utcNs + r.offsetAt(utcNs)*nsPerSec
}

const nsPerSec = int64(time.Second)

// probe distance when collecting candidate offsets. One day on either
// side covers every real transition step (offsets never exceed 14h).
const probeNs = 24 * 60 * 60 * nsPerSec

// LocalToUtc resolves a naive local timestamp to the UTC instant it
// denotes. tick is the physical unit of the caller's column in
// nanoseconds (1 for ns columns); ShiftBackward lands on the last valid
// instant representable at that unit so the result survives the
// conversion back without loss.
//
// The bool result is false only under NonexistentPolicy NullResult, in
// which case the element is null and the int64 is meaningless.
func (r *Resolver) LocalToUtc(naiveNs int64, amb AmbiguousPolicy, non NonexistentPolicy, tick int64) (int64, bool, error) {
	if tick <= 0 {
		tick = 1
	}

	// Candidate UTC instants are naive - offset for each offset the zone
	// uses near this time. An offset is genuine if re-reading the zone at
	// the candidate instant yields that same offset.
	var candidates []int64
	for _, guess := range [...]int64{naiveNs - probeNs, naiveNs, naiveNs + probeNs} {
		off := r.offsetAt(guess)
		utc := naiveNs - off*nsPerSec
		if r.offsetAt(utc) == off && !contains(candidates, utc) {
			candidates = append(candidates, utc)
		}
	}

	switch len(candidates) {
	case 1:
		return candidates[0], true, nil

	case 0:
		// Spring-forward gap. Locate the transition instant by bisecting
		// between the two wrong interpretations of the naive time.
		lo := naiveNs - r.offsetAt(naiveNs+probeNs)*nsPerSec // before the transition
		hi := naiveNs - r.offsetAt(naiveNs-probeNs)*nsPerSec // at or after it
		if lo > hi {
			lo, hi = hi, lo
		}
		transition := r.findTransition(lo, hi)

		switch non {
		case ShiftForward:
			return transition, true, nil
		case ShiftBackward:
			return transition - tick, true, nil
		case NullResult:
			return 0, false, nil
		case RaiseNonexistent:
			return 0, false, fmt.Errorf("%w: %s in %s", ErrNonexistentTime, formatNaive(naiveNs), r.name)
		}
		return 0, false, fmt.Errorf("unknown nonexistent policy %d", int(non))

	default:
		// Fall-back overlap: two instants share these wall-clock digits.
		earliest, latest := candidates[0], candidates[0]
		for _, c := range candidates[1:] {
			if c < earliest {
				earliest = c
			}
			if c > latest {
				latest = c
			}
		}
		switch amb {
		case Earliest:
			return earliest, true, nil
		case Latest:
			return latest, true, nil
		case RaiseAmbiguous:
			return 0, false, fmt.Errorf("%w: %s in %s", ErrAmbiguousTime, formatNaive(naiveNs), r.name)
		}
		return 0, false, fmt.Errorf("unknown ambiguous policy %d", int(amb))
	}
}

// findTransition bisects [lo, hi] for the first UTC instant carrying the
// post-transition offset.
func (r *Resolver) findTransition(lo, hi int64) int64 {
	after := r.offsetAt(hi)
	for lo < hi {
		mid := lo + (hi-lo)/2
		if r.offsetAt(mid) == after {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// Convert moves a timestamp from one display zone to another. The
// physical instant is unchanged; only the dtype's zone annotation moves.
// Kept explicit so callers do not reach for local round-trip arithmetic,
// which breaks for ambiguous times.
func Convert(utcNs int64, from, to *Resolver) int64 {
	_ = from
	_ = to
	return utcNs
}

func contains(s []int64, v int64) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func formatNaive(naiveNs int64) string {
	return time.Unix(0, naiveNs).UTC().Format("2006-01-02 15:04:05.999999999")
}
