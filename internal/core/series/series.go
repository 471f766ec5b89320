// Package series carries the input contract from the array-storage
// collaborator: a flat slice of physical int64 values, a validity mask,
// and the Resolution that gives the values meaning. The engine transforms
// values into same-shape outputs and never grows or re-allocates the
// storage tier on the caller's behalf.
package series

import (
	"fmt"
	"sort"

	"github.com/lodestar-lab/temporal-engine/internal/core/resolution"
)

// Series is one physical timestamp column. A nil Validity means every
// element is valid; otherwise Validity has the same length as Values and
// false marks a null.
type Series struct {
	Values   []int64
	Validity []bool
	Res      resolution.Resolution
}

func New(values []int64, validity []bool, res resolution.Resolution) (Series, error) {
	if validity != nil && len(validity) != len(values) {
		return Series{}, fmt.Errorf("validity length %d does not match values length %d", len(validity), len(values))
	}
	return Series{Values: values, Validity: validity, Res: res}, nil
}

func (s Series) Len() int { return len(s.Values) }

// Valid reports whether element i is non-null.
func (s Series) Valid(i int) bool {
	return s.Validity == nil || s.Validity[i]
}

// NullCount counts the null elements.
func (s Series) NullCount() int {
	if s.Validity == nil {
		return 0
	}
	n := 0
	for _, v := range s.Validity {
		if !v {
			n++
		}
	}
	return n
}

// IsSorted reports whether the valid values are non-decreasing. Null
// elements are skipped; window generation requires a sorted index.
func (s Series) IsSorted() bool {
	prev, seen := int64(0), false
	for i, v := range s.Values {
		if !s.Valid(i) {
			continue
		}
		if seen && v < prev {
			return false
		}
		prev, seen = v, true
	}
	return true
}

// EmptyLike returns an output series shaped like s: same length and
// resolution, all elements valid until marked otherwise.
func EmptyLike(s Series, res resolution.Resolution) Series {
	validity := make([]bool, len(s.Values))
	for i := range validity {
		validity[i] = true
	}
	return Series{
		Values:   make([]int64, len(s.Values)),
		Validity: validity,
		Res:      res,
	}
}

// SearchValues returns the first index whose value is >= target,
// considering only valid elements is the caller's concern: columns fed to
// the window generator are dense and sorted.
func (s Series) SearchValues(target int64) int {
	return sort.Search(len(s.Values), func(i int) bool { return s.Values[i] >= target })
}
