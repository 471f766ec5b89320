// Package bulk runs the per-element engine operations over whole columns.
// Work is split into contiguous chunks across workers; chunks write
// disjoint slices of the output, so there is no shared mutable state
// beyond the read-only zone and unit tables.
//
// Failure isolation follows the columnar propagation policy: an element
// that cannot be computed (overflow, lossy landing, nonexistent local
// time) becomes a null in the output and bumps the aggregate failure
// count. The caller decides whether an elevated count aborts the query.
package bulk

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/lodestar-lab/temporal-engine/internal/core/duration"
	"github.com/lodestar-lab/temporal-engine/internal/core/resolution"
	"github.com/lodestar-lab/temporal-engine/internal/core/series"
	"github.com/lodestar-lab/temporal-engine/internal/core/timezone"
	"golang.org/x/sync/errgroup"
)

// minChunk keeps tiny columns on a single worker; fan-out overhead beats
// the work below this size.
const minChunk = 2048

// Options configures a bulk run.
type Options struct {
	// Workers caps the fan-out; 0 means GOMAXPROCS.
	Workers int
	// Ambiguous and Nonexistent are handed to the timezone resolver for
	// elements that hit a DST transition.
	Ambiguous   timezone.AmbiguousPolicy
	Nonexistent timezone.NonexistentPolicy
}

func (o Options) workers(n int) int {
	w := o.Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	if max := (n + minChunk - 1) / minChunk; w > max {
		w = max
	}
	if w < 1 {
		w = 1
	}
	return w
}

// AddDuration applies d to every valid element of s. tz may be nil for
// naive columns. Returns the shifted column and the failure count.
func AddDuration(ctx context.Context, s series.Series, d duration.Duration, tz *timezone.Resolver, opts Options) (series.Series, int, error) {
	out := series.EmptyLike(s, s.Res)
	failures := forEachChunk(ctx, s.Len(), opts.workers(s.Len()), func(i int) bool {
		if !s.Valid(i) {
			out.Validity[i] = false
			return true
		}
		v, valid, err := d.AddTo(s.Values[i], s.Res, tz, opts.Ambiguous, opts.Nonexistent)
		if err != nil || !valid {
			out.Validity[i] = false
			return false
		}
		out.Values[i] = v
		return true
	})
	if err := ctx.Err(); err != nil {
		return series.Series{}, 0, err
	}
	return out, failures, nil
}

// LocalToUtc resolves every valid element of a naive column against the
// zone. Nulls from the NullResult policy and policy failures both count.
func LocalToUtc(ctx context.Context, s series.Series, tz *timezone.Resolver, opts Options) (series.Series, int, error) {
	tick := s.Res.NsPerUnit()
	out := series.EmptyLike(s, s.Res)
	failures := forEachChunk(ctx, s.Len(), opts.workers(s.Len()), func(i int) bool {
		if !s.Valid(i) {
			out.Validity[i] = false
			return true
		}
		ns, err := resolution.Convert(s.Values[i], s.Res, resolution.Nanosecond)
		if err != nil {
			out.Validity[i] = false
			return false
		}
		utc, valid, err := tz.LocalToUtc(ns, opts.Ambiguous, opts.Nonexistent, tick)
		if err != nil || !valid {
			out.Validity[i] = false
			return false
		}
		out.Values[i] = floorDiv(utc, tick)
		return true
	})
	if err := ctx.Err(); err != nil {
		return series.Series{}, 0, err
	}
	return out, failures, nil
}

// UtcToLocal reinterprets every valid element as the zone's wall-clock
// digits. Resolution in this direction is total, so the only failures
// are unit overflows.
func UtcToLocal(ctx context.Context, s series.Series, tz *timezone.Resolver, opts Options) (series.Series, int, error) {
	tick := s.Res.NsPerUnit()
	out := series.EmptyLike(s, s.Res)
	failures := forEachChunk(ctx, s.Len(), opts.workers(s.Len()), func(i int) bool {
		if !s.Valid(i) {
			out.Validity[i] = false
			return true
		}
		ns, err := resolution.Convert(s.Values[i], s.Res, resolution.Nanosecond)
		if err != nil {
			out.Validity[i] = false
			return false
		}
		local := tz.UtcToLocal(ns)
		out.Values[i] = floorDiv(local, tick)
		return true
	})
	if err := ctx.Err(); err != nil {
		return series.Series{}, 0, err
	}
	return out, failures, nil
}

// forEachChunk fans the index range across workers and sums failures.
// fn returns false when the element failed and was nulled.
func forEachChunk(ctx context.Context, n, workers int, fn func(i int) bool) int {
	if n == 0 {
		return 0
	}
	var failures atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, lo+chunk
		if hi > n {
			hi = n
		}
		g.Go(func() error {
			local := 0
			for i := lo; i < hi; i++ {
				if i%1024 == 0 && ctx.Err() != nil {
					return ctx.Err()
				}
				if !fn(i) {
					local++
				}
			}
			failures.Add(int64(local))
			return nil
		})
	}
	// Workers only fail on cancellation, which the callers surface via
	// ctx.Err; per-element failures never abort the group.
	_ = g.Wait()
	return int(failures.Load())
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
