// Package parsing converts arrays of date/time strings into the physical
// integer representation of a target temporal dtype. Failures are
// per-element: a string that does not match the chosen format marks its
// element invalid and increments a failure count; it never aborts the
// array. The caller decides whether an elevated failure rate should
// abort the surrounding query.
package parsing

import (
	"time"

	"github.com/lodestar-lab/temporal-engine/internal/core/dtype"
	"github.com/lodestar-lab/temporal-engine/internal/core/duration"
	"github.com/lodestar-lab/temporal-engine/internal/core/resolution"
	"github.com/lodestar-lab/temporal-engine/internal/core/series"
	"github.com/lodestar-lab/temporal-engine/internal/core/timezone"
)

// DefaultSampleSize bounds how many non-empty entries the format guesser
// inspects when no explicit format is given.
const DefaultSampleSize = 16

// FormatGuesser selects one candidate pattern from a small sample. The
// chosen pattern is then applied uniformly to the whole array; there is
// no per-element fallback guessing.
type FormatGuesser interface {
	Guess(sample []string, target dtype.DataType) (string, error)
}

// Options tunes ParseArray. The zero value means: infer the format with
// the built-in guesser, bounded sample, earliest/forward DST policies.
type Options struct {
	// Format, when non-empty, is the explicit Go layout every element
	// must match.
	Format string
	// SampleSize bounds the inference sample; 0 means DefaultSampleSize.
	SampleSize int
	// Guesser overrides the built-in pattern table.
	Guesser FormatGuesser
	// Ambiguous and Nonexistent apply when the target dtype carries a
	// timezone and a parsed wall time hits a DST transition.
	Ambiguous   timezone.AmbiguousPolicy
	Nonexistent timezone.NonexistentPolicy
	// Locator resolves the target dtype's zone name; nil uses the
	// embedded database.
	Locator timezone.Locator
}

// Result is the parsed column plus the aggregate failure count. Empty
// input strings become nulls without counting as failures; mismatches
// count.
type Result struct {
	Series   series.Series
	Failures int
}

// ParseArray parses every element of values into target's physical
// representation. The output resolution is fixed by the dtype.
func ParseArray(values []string, target dtype.DataType, opts Options) (Result, error) {
	if err := target.Validate(); err != nil {
		return Result{}, err
	}

	var tz *timezone.Resolver
	if target.Kind == dtype.Datetime && target.Zone != "" {
		var err error
		tz, err = timezone.NewResolver(target.Zone, opts.Locator)
		if err != nil {
			return Result{}, err
		}
	}

	format := opts.Format
	if format == "" && target.Kind != dtype.Duration {
		guesser := opts.Guesser
		if guesser == nil {
			guesser = DefaultGuesser()
		}
		sample := sampleOf(values, opts.SampleSize)
		if len(sample) == 0 {
			// All-null column; nothing to infer and nothing to parse.
			return allNullResult(values, target), nil
		}
		var err error
		format, err = guesser.Guess(sample, target)
		if err != nil {
			return Result{}, err
		}
	}

	res := target.Resolution()
	out := series.Series{
		Values:   make([]int64, len(values)),
		Validity: make([]bool, len(values)),
		Res:      res,
	}
	failures := 0

	for i, s := range values {
		if s == "" {
			continue // null in, null out
		}
		v, ok := parseOne(s, target, format, res, tz, opts)
		if !ok {
			failures++
			continue
		}
		out.Values[i] = v
		out.Validity[i] = true
	}
	return Result{Series: out, Failures: failures}, nil
}

// parseOne converts a single string. ok=false marks the element invalid.
func parseOne(s string, target dtype.DataType, format string, res resolution.Resolution, tz *timezone.Resolver, opts Options) (int64, bool) {
	if target.Kind == dtype.Duration {
		d, err := duration.Parse(s)
		if err != nil || d.IsCalendar() {
			// Calendar components have no fixed physical length, so they
			// cannot land in a duration column.
			return 0, false
		}
		v, err := resolution.Convert(d.FixedNs(), resolution.Nanosecond, res)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	t, err := time.ParseInLocation(format, s, time.UTC)
	if err != nil {
		return 0, false
	}

	switch target.Kind {
	case dtype.Date:
		return floorDiv(t.Unix(), 24*60*60), true

	case dtype.Time:
		ns := int64(t.Hour())*int64(time.Hour) +
			int64(t.Minute())*int64(time.Minute) +
			int64(t.Second())*int64(time.Second) +
			int64(t.Nanosecond())
		return ns, true

	case dtype.Datetime:
		wallNs := t.UnixNano()
		if tz != nil {
			utc, valid, err := tz.LocalToUtc(wallNs, opts.Ambiguous, opts.Nonexistent, res.NsPerUnit())
			if err != nil || !valid {
				return 0, false
			}
			wallNs = utc
		}
		// The format defines the precision; digits finer than the target
		// resolution floor away rather than failing.
		return floorDiv(wallNs, res.NsPerUnit()), true
	}
	return 0, false
}

func allNullResult(values []string, target dtype.DataType) Result {
	return Result{Series: series.Series{
		Values:   make([]int64, len(values)),
		Validity: make([]bool, len(values)),
		Res:      target.Resolution(),
	}}
}

// sampleOf gathers up to n non-empty entries from the head of the array.
func sampleOf(values []string, n int) []string {
	if n <= 0 {
		n = DefaultSampleSize
	}
	var sample []string
	for _, s := range values {
		if s == "" {
			continue
		}
		sample = append(sample, s)
		if len(sample) == n {
			break
		}
	}
	return sample
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
