package postgres

// SQL queries for column storage operations

const (
	// querySaveColumn inserts a column with its physical arrays.
	// ON CONFLICT DO NOTHING returns no rows (sql.ErrNoRows) for duplicates.
	querySaveColumn = `
		INSERT INTO columns (
			id, name, dtype, vals, validity, parse_failures, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
		RETURNING id
	`

	queryGetColumn = `
		SELECT
			id, name, dtype, vals, validity, parse_failures, created_at
		FROM columns
		WHERE id = $1
	`

	queryListColumns = `
		SELECT
			id, name, dtype, vals, validity, parse_failures, created_at
		FROM columns
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	queryDeleteColumn = `
		DELETE FROM columns
		WHERE id = $1
	`
)
