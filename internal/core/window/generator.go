// Package window generates the ordered (start, end) boundary sequence
// that rolling and dynamic group-by operations reduce over.
//
// Boundaries for calendar-dependent specs are stepped by applying the
// duration to the previous boundary, never by adding an averaged fixed
// width, so month-length variation and DST transitions are honored per
// window. Each emitted window carries the [Lo, Hi) index range into the
// sorted input; both index cursors only move forward, which bounds the
// total work at O(n + w) over n input points and w windows.
package window

import (
	"fmt"
	"time"

	"github.com/lodestar-lab/temporal-engine/internal/core/duration"
	"github.com/lodestar-lab/temporal-engine/internal/core/resolution"
	"github.com/lodestar-lab/temporal-engine/internal/core/timezone"
)

// Generator lazily walks the window sequence over one sorted timestamp
// slice. It is single-use: restarting means constructing a new one. The
// input slice must not be mutated while generation is in progress.
type Generator struct {
	values []int64
	res    resolution.Resolution
	spec   Spec
	period duration.Duration
	tz     *timezone.Resolver
	amb    timezone.AmbiguousPolicy
	non    timezone.NonexistentPolicy

	start int64
	lo    int
	hi    int
	done  bool
}

// NewGenerator validates the window parameters and positions the first boundary
// according to the anchor policy. values must be sorted non-decreasing
// and null-free; tz may be nil for naive columns.
func NewGenerator(values []int64, res resolution.Resolution, spec Spec, anchor AnchorPolicy, tz *timezone.Resolver, amb timezone.AmbiguousPolicy, non timezone.NonexistentPolicy) (*Generator, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	g := &Generator{
		values: values,
		res:    res,
		spec:   spec,
		period: spec.EffectivePeriod(),
		tz:     tz,
		amb:    amb,
		non:    non,
	}
	if len(values) == 0 {
		g.done = true
		return g, nil
	}

	var start int64
	var err error
	switch anchor {
	case AnchorFirst:
		start = values[0]
	case AnchorEpoch:
		start, err = g.epochAnchor(values[0])
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown anchor policy %d", int(anchor))
	}

	if !spec.Offset.IsZero() {
		start, err = g.shift(start, spec.Offset)
		if err != nil {
			return nil, err
		}
	}

	// An offset (or a right-closed boundary) can leave the first input
	// point below the first window; back up whole steps until the tiling
	// covers it. Each step is one `every`, so the loop is bounded by the
	// offset magnitude.
	for g.belowLower(values[0], start) {
		prev, err := g.shift(start, spec.Every.Negate())
		if err != nil {
			return nil, err
		}
		if prev >= start {
			return nil, fmt.Errorf("window every %s does not advance boundaries", spec.Every)
		}
		start = prev
	}
	g.start = start
	return g, nil
}

// belowLower reports whether ts falls below the window at start, under
// the closed policy's lower endpoint.
func (g *Generator) belowLower(ts, start int64) bool {
	if g.spec.Closed.includesStart() {
		return ts < start
	}
	return ts <= start
}

// shift applies d to a boundary timestamp under the generator's zone and
// policies. Null results are impossible here because the generator never
// uses the NullResult policy for boundaries.
func (g *Generator) shift(ts int64, d duration.Duration) (int64, error) {
	out, valid, err := d.AddTo(ts, g.res, g.tz, g.amb, g.non)
	if err != nil {
		return 0, fmt.Errorf("window boundary: %w", err)
	}
	if !valid {
		return 0, fmt.Errorf("window boundary resolved to null at %d", ts)
	}
	return out, nil
}

// Next produces the next window, or ok=false when the sequence is
// exhausted. The sequence is finite: it stops once the window's lower
// endpoint passes the last input timestamp.
func (g *Generator) Next() (Window, bool, error) {
	if g.done {
		return Window{}, false, nil
	}
	last := g.values[len(g.values)-1]
	if g.belowLast(last, g.start) {
		g.done = true
		return Window{}, false, nil
	}

	end, err := g.shift(g.start, g.period)
	if err != nil {
		return Window{}, false, err
	}

	w := Window{Start: g.start, End: end}

	// Advance the forward-only cursors. Lower bounds of successive
	// windows never decrease, so neither cursor ever re-scans a
	// consumed prefix.
	for g.lo < len(g.values) && g.belowLower(g.values[g.lo], w.Start) {
		g.lo++
	}
	if g.hi < g.lo {
		g.hi = g.lo
	}
	for g.hi < len(g.values) && !g.aboveUpper(g.values[g.hi], w.End) {
		g.hi++
	}
	w.Lo, w.Hi = g.lo, g.hi

	next, err := g.shift(g.start, g.spec.Every)
	if err != nil {
		return Window{}, false, err
	}
	if next <= g.start {
		return Window{}, false, fmt.Errorf("window every %s does not advance boundaries", g.spec.Every)
	}
	g.start = next
	return w, true, nil
}

// belowLast reports whether the window starting at start can no longer
// reach the last input point.
func (g *Generator) belowLast(last, start int64) bool {
	if g.spec.Closed.includesStart() {
		return start > last
	}
	return start >= last
}

// aboveUpper reports whether ts falls beyond the window's upper endpoint.
func (g *Generator) aboveUpper(ts, end int64) bool {
	if g.spec.Closed.includesEnd() {
		return ts > end
	}
	return ts >= end
}

// Collect drains the generator. Convenience for callers that want the
// whole finite sequence at once.
func (g *Generator) Collect() ([]Window, error) {
	var out []Window
	for {
		w, ok, err := g.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, w)
	}
}

// epochAnchor aligns the first boundary to a multiple of `every` counted
// from the Unix epoch, in local time when a zone is attached. Closed
// forms exist for the three pure shapes of `every`; a spec that mixes
// months with days or nanoseconds has no well-defined epoch grid and is
// rejected.
func (g *Generator) epochAnchor(first int64) (int64, error) {
	e := g.spec.Every
	firstNs, err := resolution.Convert(first, g.res, resolution.Nanosecond)
	if err != nil {
		return 0, err
	}
	local := firstNs
	if g.tz != nil {
		local = g.tz.UtcToLocal(firstNs)
	}

	const nsPerDay = 24 * int64(time.Hour)

	var anchorLocal int64
	switch {
	case e.Months() > 0 && e.Weeks() == 0 && e.Days() == 0 && e.Nanoseconds() == 0:
		t := time.Unix(0, local).UTC()
		monthsSinceEpoch := int64(t.Year()-1970)*12 + int64(t.Month()) - 1
		aligned := floorDiv(monthsSinceEpoch, e.Months()) * e.Months()
		year := 1970 + int(floorDiv(aligned, 12))
		month := time.Month(aligned-floorDiv(aligned, 12)*12) + 1
		anchorLocal = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).UnixNano()

	case e.Months() == 0 && e.Nanoseconds() == 0:
		step := (e.Weeks()*7 + e.Days()) * nsPerDay
		anchorLocal = floorDiv(local, step) * step

	case e.Months() == 0 && e.Weeks() == 0 && e.Days() == 0:
		anchorLocal = floorDiv(local, e.Nanoseconds()) * e.Nanoseconds()

	default:
		return 0, fmt.Errorf("epoch anchoring is undefined for %s: months cannot mix with smaller units", e)
	}

	anchorNs := anchorLocal
	if g.tz != nil {
		utc, valid, err := g.tz.LocalToUtc(anchorLocal, g.amb, g.non, g.res.NsPerUnit())
		if err != nil {
			return 0, fmt.Errorf("window anchor: %w", err)
		}
		if !valid {
			return 0, fmt.Errorf("window anchor resolved to null")
		}
		anchorNs = utc
	}
	return resolution.Convert(anchorNs, resolution.Nanosecond, g.res)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
