// Package dtype defines the closed set of temporal logical types that share
// the physical int64 representation. Every boundary that receives a column
// switches exhaustively over Kind; there are no runtime type assertions.
package dtype

import (
	"fmt"
	"strings"

	"github.com/lodestar-lab/temporal-engine/internal/core/resolution"
)

// Kind discriminates the temporal logical types.
type Kind int

const (
	// Date is a whole calendar day, physically a DayCount since 1970-01-01.
	Date Kind = iota
	// Datetime is an instant at a sub-day Resolution, optionally bound to a
	// named timezone for display; naive when Zone is empty.
	Datetime
	// Time is a clock time without a date, physically nanoseconds since
	// midnight in [0, 24h).
	Time
	// Duration is a signed physical time delta at a sub-day Resolution.
	Duration
)

// DataType pairs a Kind with the Resolution and zone it carries.
// Date and Time have fixed physical units; Resolution is only meaningful
// for Datetime and Duration, Zone only for Datetime.
type DataType struct {
	Kind Kind
	Res  resolution.Resolution
	Zone string
}

func NewDate() DataType { return DataType{Kind: Date, Res: resolution.DayCount} }

func NewDatetime(res resolution.Resolution, zone string) DataType {
	return DataType{Kind: Datetime, Res: res, Zone: zone}
}

func NewTime() DataType { return DataType{Kind: Time, Res: resolution.Nanosecond} }

func NewDuration(res resolution.Resolution) DataType {
	return DataType{Kind: Duration, Res: res}
}

// Resolution returns the physical unit of the column values.
func (d DataType) Resolution() resolution.Resolution {
	switch d.Kind {
	case Date:
		return resolution.DayCount
	case Time:
		return resolution.Nanosecond
	case Datetime, Duration:
		return d.Res
	}
	panic("unreachable dtype kind")
}

// Validate rejects combinations the physical layer cannot represent.
func (d DataType) Validate() error {
	switch d.Kind {
	case Date:
		if d.Zone != "" {
			return fmt.Errorf("date dtype cannot carry a timezone")
		}
	case Time:
		if d.Zone != "" {
			return fmt.Errorf("time dtype cannot carry a timezone")
		}
	case Datetime, Duration:
		if d.Res == resolution.DayCount {
			return fmt.Errorf("%s dtype requires a sub-day resolution", d.Kind)
		}
		if d.Kind == Duration && d.Zone != "" {
			return fmt.Errorf("duration dtype cannot carry a timezone")
		}
	default:
		return fmt.Errorf("unknown dtype kind %d", int(d.Kind))
	}
	return nil
}

func (k Kind) String() string {
	switch k {
	case Date:
		return "date"
	case Datetime:
		return "datetime"
	case Time:
		return "time"
	case Duration:
		return "duration"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// String renders the wire form: "date", "time", "datetime[ms]",
// "datetime[us, Europe/Amsterdam]", "duration[ns]".
func (d DataType) String() string {
	switch d.Kind {
	case Date, Time:
		return d.Kind.String()
	case Datetime:
		if d.Zone != "" {
			return fmt.Sprintf("datetime[%s, %s]", d.Res, d.Zone)
		}
		return fmt.Sprintf("datetime[%s]", d.Res)
	case Duration:
		return fmt.Sprintf("duration[%s]", d.Res)
	}
	return fmt.Sprintf("DataType(%d)", int(d.Kind))
}

// Parse is the inverse of String. It accepts the bare kinds "date" and
// "time", and the bracketed forms for datetime and duration.
func Parse(s string) (DataType, error) {
	switch s {
	case "date":
		return NewDate(), nil
	case "time":
		return NewTime(), nil
	}

	open := strings.IndexByte(s, '[')
	if open < 0 || !strings.HasSuffix(s, "]") {
		return DataType{}, fmt.Errorf("invalid dtype %q", s)
	}
	kind, args := s[:open], s[open+1:len(s)-1]

	switch kind {
	case "datetime":
		res, zone := args, ""
		if comma := strings.IndexByte(args, ','); comma >= 0 {
			res, zone = args[:comma], strings.TrimSpace(args[comma+1:])
		}
		r, err := resolution.Parse(res)
		if err != nil {
			return DataType{}, fmt.Errorf("invalid dtype %q: %w", s, err)
		}
		d := NewDatetime(r, zone)
		if err := d.Validate(); err != nil {
			return DataType{}, fmt.Errorf("invalid dtype %q: %w", s, err)
		}
		return d, nil
	case "duration":
		r, err := resolution.Parse(args)
		if err != nil {
			return DataType{}, fmt.Errorf("invalid dtype %q: %w", s, err)
		}
		d := NewDuration(r)
		if err := d.Validate(); err != nil {
			return DataType{}, fmt.Errorf("invalid dtype %q: %w", s, err)
		}
		return d, nil
	}
	return DataType{}, fmt.Errorf("invalid dtype %q", s)
}
