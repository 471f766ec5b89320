package postgres

import (
	"fmt"

	"github.com/lib/pq"

	v1 "github.com/lodestar-lab/temporal-engine/internal/api/v1"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanColumnRow scans a database row into a Column struct.
// The physical arrays come back as pq.Int64Array / pq.BoolArray.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanColumnRow(row scanner) (*v1.Column, error) {
	var col v1.Column
	var values pq.Int64Array
	var validity pq.BoolArray

	err := row.Scan(
		&col.ID,
		&col.Name,
		&col.Dtype,
		&values,
		&validity,
		&col.ParseFailures,
		&col.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	col.Values = []int64(values)
	col.Validity = []bool(validity)
	if len(col.Values) != len(col.Validity) {
		return nil, fmt.Errorf("column %s has mismatched array lengths: %d values, %d validity",
			col.ID, len(col.Values), len(col.Validity))
	}

	return &col, nil
}
