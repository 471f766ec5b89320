package v1

import (
	"fmt"
	"time"
)

// Column is a stored physical temporal column: the engine's persisted
// unit of work. Values are raw int64 at the dtype's resolution; Validity
// marks nulls, including elements that failed to parse on upload.
type Column struct {
	// ID is the engine-assigned identifier (UUID).
	ID string `json:"id"`

	// Name is the caller's label for the column. Not unique; queries go
	// through the ID.
	Name string `json:"name"`

	// Dtype is the wire-form logical type, e.g. "datetime[ms, Europe/Amsterdam]".
	Dtype string `json:"dtype"`

	// Values and Validity are the physical representation produced by
	// parsing. They always have equal length.
	Values   []int64 `json:"values"`
	Validity []bool  `json:"validity"`

	// ParseFailures counts elements that did not match the parse format
	// on upload. They are nulls in Validity; the count is kept so later
	// readers can judge the column's quality.
	ParseFailures int `json:"parse_failures"`

	// CreatedAt is when the engine stored the column.
	CreatedAt time.Time `json:"created_at"`
}

// UploadColumnRequest is the body of POST /v1/columns: raw strings plus
// the target dtype and optional parse controls.
type UploadColumnRequest struct {
	Name   string   `json:"name"`
	Dtype  string   `json:"dtype"`
	Values []string `json:"values"`

	// Format, when set, is the explicit pattern every element must
	// match; otherwise the format is inferred from a sample.
	Format string `json:"format,omitempty"`

	// Ambiguous and Nonexistent select the DST policies for
	// zone-annotated datetime dtypes. Tokens: earliest|latest|raise and
	// forward|backward|null|raise.
	Ambiguous   string `json:"ambiguous,omitempty"`
	Nonexistent string `json:"nonexistent,omitempty"`
}

// Validate checks the request's required fields. Dtype and policy token
// validity is the engine's concern; this only guards shape.
func (r *UploadColumnRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Dtype == "" {
		return fmt.Errorf("dtype is required")
	}
	if len(r.Values) == 0 {
		return fmt.Errorf("values must not be empty")
	}
	return nil
}

// ShiftRequest is the body of POST /v1/columns/:id/shift: apply a
// duration to every element.
type ShiftRequest struct {
	Duration    string `json:"duration"`
	Timezone    string `json:"timezone,omitempty"`
	Ambiguous   string `json:"ambiguous,omitempty"`
	Nonexistent string `json:"nonexistent,omitempty"`
}

func (r *ShiftRequest) Validate() error {
	if r.Duration == "" {
		return fmt.Errorf("duration is required")
	}
	return nil
}

// LocalizeRequest is the body of POST /v1/columns/:id/localize:
// naive-to-UTC or UTC-to-naive conversion of the whole column.
type LocalizeRequest struct {
	// Direction is "local_to_utc" or "utc_to_local".
	Direction   string `json:"direction"`
	Timezone    string `json:"timezone"`
	Ambiguous   string `json:"ambiguous,omitempty"`
	Nonexistent string `json:"nonexistent,omitempty"`
}

func (r *LocalizeRequest) Validate() error {
	if r.Direction != "local_to_utc" && r.Direction != "utc_to_local" {
		return fmt.Errorf("direction must be local_to_utc or utc_to_local, got %q", r.Direction)
	}
	if r.Timezone == "" {
		return fmt.Errorf("timezone is required")
	}
	return nil
}

// TruncateRequest is the body of POST /v1/columns/:id/truncate: floor
// every element to a multiple of a fixed duration.
type TruncateRequest struct {
	Duration string `json:"duration"`
}

func (r *TruncateRequest) Validate() error {
	if r.Duration == "" {
		return fmt.Errorf("duration is required")
	}
	return nil
}

// CastRequest is the body of POST /v1/columns/:id/cast: reinterpret the
// column at a different resolution or zone annotation. Zone changes are
// free; resolution changes rescale values and reject lossy conversions.
type CastRequest struct {
	Dtype string `json:"dtype"`
}

func (r *CastRequest) Validate() error {
	if r.Dtype == "" {
		return fmt.Errorf("dtype is required")
	}
	return nil
}

// WindowRequest is the body of POST /v1/columns/:id/windows: generate
// rolling or dynamic window boundaries over the column, optionally
// reducing each window with an operator.
type WindowRequest struct {
	Every  string `json:"every"`
	Period string `json:"period,omitempty"`
	Offset string `json:"offset,omitempty"`

	// Closed is one of left|right|both|none; default left.
	Closed string `json:"closed,omitempty"`
	// Anchor is one of first|epoch; default first.
	Anchor string `json:"anchor,omitempty"`

	Timezone    string `json:"timezone,omitempty"`
	Ambiguous   string `json:"ambiguous,omitempty"`
	Nonexistent string `json:"nonexistent,omitempty"`

	// Operator, when set, reduces each window: count|sum|min|max|mean.
	Operator string `json:"operator,omitempty"`
}

func (r *WindowRequest) Validate() error {
	if r.Every == "" {
		return fmt.Errorf("every is required")
	}
	return nil
}

// SeriesResponse is the shifted/localized/truncated column returned by
// the element-wise operations. The input column is never mutated.
type SeriesResponse struct {
	Dtype    string  `json:"dtype"`
	Values   []int64 `json:"values"`
	Validity []bool  `json:"validity"`
	Failures int     `json:"failures"`
}

// WindowResponse is one generated window. Lo and Hi index the stored
// column; Value and Count are present only when an operator was given.
type WindowResponse struct {
	Start int64  `json:"start"`
	End   int64  `json:"end"`
	Lo    int    `json:"lo"`
	Hi    int    `json:"hi"`
	Count *int64 `json:"count,omitempty"`
	Value string `json:"value,omitempty"`
}
