// Package agg reduces generated windows over a physical column. Sums and
// means accumulate in decimal so a long window of large int64 timestamps
// or deltas cannot silently wrap.
package agg

import (
	"fmt"

	"github.com/lodestar-lab/temporal-engine/internal/core/series"
	"github.com/lodestar-lab/temporal-engine/internal/core/window"
	"github.com/shopspring/decimal"
)

// Supported window operators.
const (
	OpCount = "count"
	OpSum   = "sum"
	OpMin   = "min"
	OpMax   = "max"
	OpMean  = "mean"
)

// meanDivisionPrecision bounds the quotient digits for mean.
const meanDivisionPrecision = 12

// Aggregator defines the reduce semantics of one operator. Adding an
// operator means implementing this interface and registering it in
// Operators; the reduce loop is a map lookup, no switch.
type Aggregator interface {
	// Initial returns the state after the first valid element.
	Initial(v decimal.Decimal) decimal.Decimal

	// Apply folds one more valid element into the state.
	Apply(cur, v decimal.Decimal) decimal.Decimal

	// Finalize turns the folded state and the element count into the
	// window's result.
	Finalize(cur decimal.Decimal, count int64) decimal.Decimal
}

// Operators is the registry of window operators.
var Operators = map[string]Aggregator{
	OpCount: countAgg{},
	OpSum:   sumAgg{},
	OpMin:   minAgg{},
	OpMax:   maxAgg{},
	OpMean:  meanAgg{},
}

// ValidOperator reports whether op is registered.
func ValidOperator(op string) bool {
	_, ok := Operators[op]
	return ok
}

// WindowValue is one reduced window. Valid is false when the window
// contained no valid elements; its Value is then meaningless.
type WindowValue struct {
	Start int64
	End   int64
	Count int64
	Value decimal.Decimal
	Valid bool
}

// Reduce folds every window's index range over the column. Null elements
// inside a range are skipped; they contribute neither to the value nor
// to Count.
func Reduce(s series.Series, windows []window.Window, op string) ([]WindowValue, error) {
	agg, ok := Operators[op]
	if !ok {
		return nil, fmt.Errorf("unknown window operator %q", op)
	}

	out := make([]WindowValue, 0, len(windows))
	for _, w := range windows {
		wv := WindowValue{Start: w.Start, End: w.End}
		var cur decimal.Decimal
		for i := w.Lo; i < w.Hi; i++ {
			if !s.Valid(i) {
				continue
			}
			v := decimal.NewFromInt(s.Values[i])
			if wv.Count == 0 {
				cur = agg.Initial(v)
			} else {
				cur = agg.Apply(cur, v)
			}
			wv.Count++
		}
		if wv.Count > 0 {
			wv.Value = agg.Finalize(cur, wv.Count)
			wv.Valid = true
		}
		out = append(out, wv)
	}
	return out, nil
}

type countAgg struct{}

func (countAgg) Initial(_ decimal.Decimal) decimal.Decimal             { return decimal.NewFromInt(1) }
func (countAgg) Apply(cur, _ decimal.Decimal) decimal.Decimal          { return cur.Add(decimal.NewFromInt(1)) }
func (countAgg) Finalize(cur decimal.Decimal, _ int64) decimal.Decimal { return cur }

type sumAgg struct{}

func (sumAgg) Initial(v decimal.Decimal) decimal.Decimal             { return v }
func (sumAgg) Apply(cur, v decimal.Decimal) decimal.Decimal          { return cur.Add(v) }
func (sumAgg) Finalize(cur decimal.Decimal, _ int64) decimal.Decimal { return cur }

type minAgg struct{}

func (minAgg) Initial(v decimal.Decimal) decimal.Decimal { return v }
func (minAgg) Apply(cur, v decimal.Decimal) decimal.Decimal {
	if v.LessThan(cur) {
		return v
	}
	return cur
}
func (minAgg) Finalize(cur decimal.Decimal, _ int64) decimal.Decimal { return cur }

type maxAgg struct{}

func (maxAgg) Initial(v decimal.Decimal) decimal.Decimal { return v }
func (maxAgg) Apply(cur, v decimal.Decimal) decimal.Decimal {
	if v.GreaterThan(cur) {
		return v
	}
	return cur
}
func (maxAgg) Finalize(cur decimal.Decimal, _ int64) decimal.Decimal { return cur }

// meanAgg folds the sum and divides at the end.
type meanAgg struct{}

func (meanAgg) Initial(v decimal.Decimal) decimal.Decimal    { return v }
func (meanAgg) Apply(cur, v decimal.Decimal) decimal.Decimal { return cur.Add(v) }
func (meanAgg) Finalize(cur decimal.Decimal, count int64) decimal.Decimal {
	return cur.DivRound(decimal.NewFromInt(count), meanDivisionPrecision)
}
