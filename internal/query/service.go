package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	v1 "github.com/lodestar-lab/temporal-engine/internal/api/v1"
	"github.com/lodestar-lab/temporal-engine/internal/core/agg"
	"github.com/lodestar-lab/temporal-engine/internal/core/bulk"
	"github.com/lodestar-lab/temporal-engine/internal/core/dtype"
	"github.com/lodestar-lab/temporal-engine/internal/core/duration"
	"github.com/lodestar-lab/temporal-engine/internal/core/resolution"
	"github.com/lodestar-lab/temporal-engine/internal/core/series"
	"github.com/lodestar-lab/temporal-engine/internal/core/storage"
	"github.com/lodestar-lab/temporal-engine/internal/core/timezone"
	"github.com/lodestar-lab/temporal-engine/internal/core/window"
)

// ErrInvalidQuery marks request errors the handler maps to 400.
var ErrInvalidQuery = errors.New("invalid query")

// Service runs temporal operations against stored columns. Operations
// never mutate the stored column; they return derived series.
type Service struct {
	store   storage.ColumnStore
	workers int

	defaultAmbiguous   timezone.AmbiguousPolicy
	defaultNonexistent timezone.NonexistentPolicy
}

func NewService(
	store storage.ColumnStore,
	workers int,
	defaultAmbiguous timezone.AmbiguousPolicy,
	defaultNonexistent timezone.NonexistentPolicy,
) *Service {
	if store == nil {
		panic("query: store must not be nil")
	}
	return &Service{
		store:              store,
		workers:            workers,
		defaultAmbiguous:   defaultAmbiguous,
		defaultNonexistent: defaultNonexistent,
	}
}

// RegisterRoutes registers all query API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/columns/:id/shift", s.HandleShift)
	r.POST("/v1/columns/:id/localize", s.HandleLocalize)
	r.POST("/v1/columns/:id/cast", s.HandleCast)
	r.POST("/v1/columns/:id/truncate", s.HandleTruncate)
	r.POST("/v1/columns/:id/windows", s.HandleWindows)
}

// loadSeries fetches a column and reconstructs its logical type and
// physical series.
func (s *Service) loadSeries(ctx context.Context, id string) (dtype.DataType, series.Series, error) {
	column, err := s.store.GetColumn(ctx, id)
	if err != nil {
		return dtype.DataType{}, series.Series{}, err
	}

	dt, err := dtype.Parse(column.Dtype)
	if err != nil {
		return dtype.DataType{}, series.Series{}, fmt.Errorf("stored column %s has invalid dtype %q: %w", id, column.Dtype, err)
	}

	ser, err := series.New(column.Values, column.Validity, dt.Resolution())
	if err != nil {
		return dtype.DataType{}, series.Series{}, fmt.Errorf("stored column %s is malformed: %w", id, err)
	}

	return dt, ser, nil
}

// policies resolves request-level DST policy tokens, falling back to the
// service defaults when a token is empty.
func (s *Service) policies(ambiguous, nonexistent string) (timezone.AmbiguousPolicy, timezone.NonexistentPolicy, error) {
	amb := s.defaultAmbiguous
	non := s.defaultNonexistent
	if ambiguous != "" {
		p, err := timezone.ParseAmbiguousPolicy(ambiguous)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
		amb = p
	}
	if nonexistent != "" {
		p, err := timezone.ParseNonexistentPolicy(nonexistent)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
		non = p
	}
	return amb, non, nil
}

// resolverFor picks the timezone for a calendar-aware operation: the
// request override wins, then the column's own zone annotation, then
// none (pure physical arithmetic).
func resolverFor(override string, dt dtype.DataType) (*timezone.Resolver, error) {
	name := override
	if name == "" {
		name = dt.Zone
	}
	if name == "" {
		return nil, nil
	}
	tz, err := timezone.NewResolver(name, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return tz, nil
}

// Shift applies a duration to every element of a stored column.
func (s *Service) Shift(ctx context.Context, id string, req v1.ShiftRequest) (*v1.SeriesResponse, error) {
	dt, ser, err := s.loadSeries(ctx, id)
	if err != nil {
		return nil, err
	}

	d, err := duration.Parse(req.Duration)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	amb, non, err := s.policies(req.Ambiguous, req.Nonexistent)
	if err != nil {
		return nil, err
	}

	tz, err := resolverFor(req.Timezone, dt)
	if err != nil {
		return nil, err
	}

	out, failures, err := bulk.AddDuration(ctx, ser, d, tz, bulk.Options{
		Workers:     s.workers,
		Ambiguous:   amb,
		Nonexistent: non,
	})
	if err != nil {
		return nil, err
	}

	return seriesResponse(dt, out, failures), nil
}

// Localize converts a datetime column between naive wall time and UTC.
func (s *Service) Localize(ctx context.Context, id string, req v1.LocalizeRequest) (*v1.SeriesResponse, error) {
	dt, ser, err := s.loadSeries(ctx, id)
	if err != nil {
		return nil, err
	}
	if dt.Kind != dtype.Datetime {
		return nil, fmt.Errorf("%w: localize requires a datetime column, got %s", ErrInvalidQuery, dt)
	}

	amb, non, err := s.policies(req.Ambiguous, req.Nonexistent)
	if err != nil {
		return nil, err
	}

	tz, err := timezone.NewResolver(req.Timezone, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	opts := bulk.Options{Workers: s.workers, Ambiguous: amb, Nonexistent: non}

	var (
		out      series.Series
		failures int
		outType  dtype.DataType
	)
	switch req.Direction {
	case "local_to_utc":
		if dt.Zone != "" {
			return nil, fmt.Errorf("%w: column is already zone-aware (%s)", ErrInvalidQuery, dt)
		}
		out, failures, err = bulk.LocalToUtc(ctx, ser, tz, opts)
		outType = dtype.NewDatetime(dt.Res, tz.Name())
	case "utc_to_local":
		if dt.Zone == "" {
			return nil, fmt.Errorf("%w: column is naive; localize it to UTC first", ErrInvalidQuery)
		}
		out, failures, err = bulk.UtcToLocal(ctx, ser, tz, opts)
		outType = dtype.NewDatetime(dt.Res, "")
	default:
		return nil, fmt.Errorf("%w: unknown direction %q", ErrInvalidQuery, req.Direction)
	}
	if err != nil {
		return nil, err
	}

	return seriesResponse(outType, out, failures), nil
}

// Cast reinterprets a column at a different resolution or zone
// annotation. Changing only the zone is free: the physical instants do
// not move. Changing resolution rescales every element and fails on any
// value the target resolution cannot represent exactly.
func (s *Service) Cast(ctx context.Context, id string, req v1.CastRequest) (*v1.SeriesResponse, error) {
	dt, ser, err := s.loadSeries(ctx, id)
	if err != nil {
		return nil, err
	}

	target, err := dtype.Parse(req.Dtype)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	if target.Kind != dt.Kind {
		return nil, fmt.Errorf("%w: cannot cast %s to %s", ErrInvalidQuery, dt, target)
	}

	out := ser
	if target.Resolution() != dt.Resolution() {
		values := make([]int64, ser.Len())
		for i, v := range ser.Values {
			if !ser.Valid(i) {
				continue
			}
			converted, err := resolution.Convert(v, dt.Resolution(), target.Resolution())
			if err != nil {
				return nil, fmt.Errorf("%w: element %d: %v", ErrInvalidQuery, i, err)
			}
			values[i] = converted
		}
		out = series.Series{Values: values, Validity: ser.Validity, Res: target.Resolution()}
	}

	return seriesResponse(target, out, 0), nil
}

// Truncate floors every element to a multiple of a fixed duration.
func (s *Service) Truncate(ctx context.Context, id string, req v1.TruncateRequest) (*v1.SeriesResponse, error) {
	dt, ser, err := s.loadSeries(ctx, id)
	if err != nil {
		return nil, err
	}

	d, err := duration.Parse(req.Duration)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	values := make([]int64, ser.Len())
	for i, v := range ser.Values {
		if !ser.Valid(i) {
			continue
		}
		truncated, err := d.Truncate(v, dt.Resolution())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
		values[i] = truncated
	}

	out := series.Series{Values: values, Validity: ser.Validity, Res: dt.Resolution()}
	return seriesResponse(dt, out, 0), nil
}

// Windows generates window boundaries over a stored column, optionally
// reducing each window with an aggregation operator.
func (s *Service) Windows(ctx context.Context, id string, req v1.WindowRequest) ([]v1.WindowResponse, error) {
	dt, ser, err := s.loadSeries(ctx, id)
	if err != nil {
		return nil, err
	}

	if ser.NullCount() > 0 {
		return nil, fmt.Errorf("%w: window generation requires a column without nulls", ErrInvalidQuery)
	}
	if !ser.IsSorted() {
		return nil, fmt.Errorf("%w: window generation requires a sorted column", ErrInvalidQuery)
	}

	spec, err := windowSpec(req)
	if err != nil {
		return nil, err
	}

	anchor, err := window.ParseAnchorPolicy(req.Anchor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	amb, non, err := s.policies(req.Ambiguous, req.Nonexistent)
	if err != nil {
		return nil, err
	}

	tz, err := resolverFor(req.Timezone, dt)
	if err != nil {
		return nil, err
	}

	if req.Operator != "" && !agg.ValidOperator(req.Operator) {
		return nil, fmt.Errorf("%w: unknown operator %q", ErrInvalidQuery, req.Operator)
	}

	gen, err := window.NewGenerator(ser.Values, dt.Resolution(), spec, anchor, tz, amb, non)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	windows, err := gen.Collect()
	if err != nil {
		return nil, err
	}

	resp := make([]v1.WindowResponse, len(windows))
	for i, w := range windows {
		resp[i] = v1.WindowResponse{Start: w.Start, End: w.End, Lo: w.Lo, Hi: w.Hi}
	}

	if req.Operator != "" {
		reduced, err := agg.Reduce(ser, windows, req.Operator)
		if err != nil {
			return nil, err
		}
		for i, wv := range reduced {
			count := wv.Count
			resp[i].Count = &count
			if wv.Valid {
				resp[i].Value = wv.Value.String()
			}
		}
	}

	return resp, nil
}

func windowSpec(req v1.WindowRequest) (window.Spec, error) {
	every, err := duration.Parse(req.Every)
	if err != nil {
		return window.Spec{}, fmt.Errorf("%w: invalid every: %v", ErrInvalidQuery, err)
	}

	spec := window.Spec{Every: every}
	if req.Period != "" {
		period, err := duration.Parse(req.Period)
		if err != nil {
			return window.Spec{}, fmt.Errorf("%w: invalid period: %v", ErrInvalidQuery, err)
		}
		spec.Period = period
	}
	if req.Offset != "" {
		offset, err := duration.Parse(req.Offset)
		if err != nil {
			return window.Spec{}, fmt.Errorf("%w: invalid offset: %v", ErrInvalidQuery, err)
		}
		spec.Offset = offset
	}

	closed, err := window.ParseClosed(req.Closed)
	if err != nil {
		return window.Spec{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	spec.Closed = closed

	if err := spec.Validate(); err != nil {
		return window.Spec{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return spec, nil
}

func seriesResponse(dt dtype.DataType, s series.Series, failures int) *v1.SeriesResponse {
	validity := s.Validity
	if validity == nil {
		validity = make([]bool, s.Len())
		for i := range validity {
			validity[i] = true
		}
	}
	return &v1.SeriesResponse{
		Dtype:    dt.String(),
		Values:   s.Values,
		Validity: validity,
		Failures: failures,
	}
}
