package storage

import (
	"context"
	"errors"

	v1 "github.com/lodestar-lab/temporal-engine/internal/api/v1"
)

// ErrNotFound is returned when no column exists with the requested id.
var ErrNotFound = errors.New("column not found")

// ErrDuplicate is returned when a column with the same id already exists.
var ErrDuplicate = errors.New("column already exists")

// ColumnStore defines the interface for storing and retrieving temporal columns.
type ColumnStore interface {
	SaveColumn(ctx context.Context, column *v1.Column) error

	GetColumn(ctx context.Context, id string) (*v1.Column, error)

	// ListColumns returns columns ordered by creation time, newest first.
	// The physical arrays are included, so callers listing for discovery
	// should keep limit small.
	ListColumns(ctx context.Context, limit, offset int) ([]*v1.Column, error)

	DeleteColumn(ctx context.Context, id string) error
}
