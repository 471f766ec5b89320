package timezone

import "fmt"

// AmbiguousPolicy selects which UTC instant an ambiguous local time
// (repeated hour of a fall-back transition) resolves to.
type AmbiguousPolicy int

const (
	// Earliest picks the first of the two instants (pre-transition offset).
	Earliest AmbiguousPolicy = iota
	// Latest picks the second of the two instants (post-transition offset).
	Latest
	// RaiseAmbiguous fails the resolution with ErrAmbiguousTime.
	RaiseAmbiguous
)

// NonexistentPolicy decides what to do with a local time that falls in the
// skipped hour of a spring-forward transition.
type NonexistentPolicy int

const (
	// ShiftForward advances to the first valid instant after the gap.
	ShiftForward NonexistentPolicy = iota
	// ShiftBackward rewinds to the last valid instant before the gap.
	ShiftBackward
	// NullResult reports the element as null instead of failing. Used by
	// bulk columnar conversion where one bad element must not abort the
	// whole array.
	NullResult
	// RaiseNonexistent fails the resolution with ErrNonexistentTime.
	RaiseNonexistent
)

// ParseAmbiguousPolicy maps the wire tokens {"earliest","latest","raise"}.
func ParseAmbiguousPolicy(s string) (AmbiguousPolicy, error) {
	switch s {
	case "earliest", "":
		return Earliest, nil
	case "latest":
		return Latest, nil
	case "raise":
		return RaiseAmbiguous, nil
	}
	return 0, fmt.Errorf("unknown ambiguous policy %q", s)
}

// ParseNonexistentPolicy maps the wire tokens {"forward","backward","null","raise"}.
func ParseNonexistentPolicy(s string) (NonexistentPolicy, error) {
	switch s {
	case "forward", "":
		return ShiftForward, nil
	case "backward":
		return ShiftBackward, nil
	case "null":
		return NullResult, nil
	case "raise":
		return RaiseNonexistent, nil
	}
	return 0, fmt.Errorf("unknown nonexistent policy %q", s)
}

func (p AmbiguousPolicy) String() string {
	switch p {
	case Earliest:
		return "earliest"
	case Latest:
		return "latest"
	case RaiseAmbiguous:
		return "raise"
	}
	return fmt.Sprintf("AmbiguousPolicy(%d)", int(p))
}

func (p NonexistentPolicy) String() string {
	switch p {
	case ShiftForward:
		return "forward"
	case ShiftBackward:
		return "backward"
	case NullResult:
		return "null"
	case RaiseNonexistent:
		return "raise"
	}
	return fmt.Sprintf("NonexistentPolicy(%d)", int(p))
}
