package window

import (
	"fmt"

	"github.com/lodestar-lab/temporal-engine/internal/core/duration"
)

// Closed selects which of a window's two boundary endpoints are
// inclusive for membership.
type Closed int

const (
	// ClosedLeft includes start, excludes end. The default for dynamic
	// group-by.
	ClosedLeft Closed = iota
	// ClosedRight excludes start, includes end.
	ClosedRight
	// ClosedBoth includes both endpoints.
	ClosedBoth
	// ClosedNone excludes both endpoints.
	ClosedNone
)

// ParseClosed maps the wire tokens {"left","right","both","none"}.
func ParseClosed(s string) (Closed, error) {
	switch s {
	case "left", "":
		return ClosedLeft, nil
	case "right":
		return ClosedRight, nil
	case "both":
		return ClosedBoth, nil
	case "none":
		return ClosedNone, nil
	}
	return 0, fmt.Errorf("unknown closed token %q", s)
}

func (c Closed) String() string {
	switch c {
	case ClosedLeft:
		return "left"
	case ClosedRight:
		return "right"
	case ClosedBoth:
		return "both"
	case ClosedNone:
		return "none"
	}
	return fmt.Sprintf("Closed(%d)", int(c))
}

// includesStart reports whether the lower endpoint is inclusive.
func (c Closed) includesStart() bool { return c == ClosedLeft || c == ClosedBoth }

// includesEnd reports whether the upper endpoint is inclusive.
func (c Closed) includesEnd() bool { return c == ClosedRight || c == ClosedBoth }

// AnchorPolicy selects where the first window boundary aligns.
type AnchorPolicy int

const (
	// AnchorFirst starts the first window at the first input timestamp
	// (plus offset).
	AnchorFirst AnchorPolicy = iota
	// AnchorEpoch aligns window starts to multiples of `every` counted
	// from the Unix epoch (plus offset), matching truncation semantics.
	AnchorEpoch
)

// ParseAnchorPolicy maps the wire tokens {"first","epoch"}.
func ParseAnchorPolicy(s string) (AnchorPolicy, error) {
	switch s {
	case "first", "":
		return AnchorFirst, nil
	case "epoch":
		return AnchorEpoch, nil
	}
	return 0, fmt.Errorf("unknown anchor policy %q", s)
}

// Spec describes a rolling or dynamic window request. Period defaults to
// Every when left zero, which is the partitioning (dynamic group-by)
// configuration.
type Spec struct {
	Every  duration.Duration
	Period duration.Duration
	Offset duration.Duration
	Closed Closed
}

// EffectivePeriod resolves the Period default.
func (s Spec) EffectivePeriod() duration.Duration {
	if s.Period.IsZero() {
		return s.Every
	}
	return s.Period
}

// Validate checks that every is positive and period is not negative.
func (s Spec) Validate() error {
	if s.Every.IsZero() {
		return fmt.Errorf("window every must not be zero")
	}
	if s.Every.IsNegative() {
		return fmt.Errorf("window every must be positive, got %s", s.Every)
	}
	if s.Period.IsNegative() {
		return fmt.Errorf("window period must not be negative, got %s", s.Period)
	}
	return nil
}

// Window is one generated boundary pair plus the index range [Lo, Hi)
// of the sorted input it covers. Start and End are in the input's
// resolution.
type Window struct {
	Start int64
	End   int64
	Lo    int
	Hi    int
}

// Contains applies the closed-boundary membership test.
func (w Window) Contains(ts int64, closed Closed) bool {
	lowerOK := ts > w.Start
	if closed.includesStart() {
		lowerOK = ts >= w.Start
	}
	upperOK := ts < w.End
	if closed.includesEnd() {
		upperOK = ts <= w.End
	}
	return lowerOK && upperOK
}
