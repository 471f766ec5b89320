package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	v1 "github.com/lodestar-lab/temporal-engine/internal/api/v1"
	"github.com/lodestar-lab/temporal-engine/internal/core/storage"
)

func TestAdapter_SaveColumn(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	column := &v1.Column{
		ID:            "0b5c8a9e-9e47-4a3e-8f58-000000000001",
		Name:          "observed_at",
		Dtype:         "datetime[us]",
		Values:        []int64{1000, 2000, 0},
		Validity:      []bool{true, true, false},
		ParseFailures: 1,
		CreatedAt:     now,
	}

	t.Run("success", func(t *testing.T) {
		adapter, mock, db := newMockAdapter(t)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(querySaveColumn)).
			WithArgs(
				column.ID,
				column.Name,
				column.Dtype,
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				column.ParseFailures,
				column.CreatedAt,
			).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(column.ID))

		err := adapter.SaveColumn(context.Background(), column)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate maps to ErrDuplicate", func(t *testing.T) {
		adapter, mock, db := newMockAdapter(t)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(querySaveColumn)).
			WithArgs(
				column.ID,
				column.Name,
				column.Dtype,
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				column.ParseFailures,
				column.CreatedAt,
			).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		err := adapter.SaveColumn(context.Background(), column)
		require.ErrorIs(t, err, storage.ErrDuplicate)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAdapter_GetColumn(t *testing.T) {
	createdAt := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		adapter, mock, db := newMockAdapter(t)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(queryGetColumn)).
			WithArgs("col-1").
			WillReturnRows(sqlmock.NewRows(columnRowColumns()).
				AddRow(
					"col-1",
					"observed_at",
					"datetime[ms, Europe/Amsterdam]",
					"{100,200}",
					"{t,f}",
					1,
					createdAt,
				))

		column, err := adapter.GetColumn(context.Background(), "col-1")
		require.NoError(t, err)
		require.Equal(t, "col-1", column.ID)
		require.Equal(t, "datetime[ms, Europe/Amsterdam]", column.Dtype)
		require.Equal(t, []int64{100, 200}, column.Values)
		require.Equal(t, []bool{true, false}, column.Validity)
		require.Equal(t, 1, column.ParseFailures)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing maps to ErrNotFound", func(t *testing.T) {
		adapter, mock, db := newMockAdapter(t)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(queryGetColumn)).
			WithArgs("col-missing").
			WillReturnRows(sqlmock.NewRows(columnRowColumns()))

		_, err := adapter.GetColumn(context.Background(), "col-missing")
		require.ErrorIs(t, err, storage.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAdapter_ListColumns(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	createdAt := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(queryListColumns)).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(columnRowColumns()).
			AddRow("col-2", "b", "date", "{19000}", "{t}", 0, createdAt.Add(time.Minute)).
			AddRow("col-1", "a", "date", "{18999}", "{t}", 0, createdAt),
		).RowsWillBeClosed()

	columns, err := adapter.ListColumns(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, columns, 2)
	require.Equal(t, "col-2", columns[0].ID)
	require.Equal(t, []int64{19000}, columns[0].Values)
	require.Equal(t, "col-1", columns[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_DeleteColumn(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		adapter, mock, db := newMockAdapter(t)
		defer db.Close()

		mock.ExpectExec(regexp.QuoteMeta(queryDeleteColumn)).
			WithArgs("col-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, adapter.DeleteColumn(context.Background(), "col-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing maps to ErrNotFound", func(t *testing.T) {
		adapter, mock, db := newMockAdapter(t)
		defer db.Close()

		mock.ExpectExec(regexp.QuoteMeta(queryDeleteColumn)).
			WithArgs("col-missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := adapter.DeleteColumn(context.Background(), "col-missing")
		require.ErrorIs(t, err, storage.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func newMockAdapter(t *testing.T) (*Adapter, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	adapter := &Adapter{
		db:             db,
		stmtSaveColumn: mustPrepareStmt(t, db, mock, querySaveColumn),
		stmtGetColumn:  mustPrepareStmt(t, db, mock, queryGetColumn),
		stmtListCols:   mustPrepareStmt(t, db, mock, queryListColumns),
		stmtDeleteCol:  mustPrepareStmt(t, db, mock, queryDeleteColumn),
	}

	return adapter, mock, db
}

func mustPrepareStmt(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock, query string) *sql.Stmt {
	t.Helper()

	mock.ExpectPrepare(regexp.QuoteMeta(query))
	stmt, err := db.Prepare(query)
	require.NoError(t, err)

	return stmt
}

func columnRowColumns() []string {
	return []string{
		"id",
		"name",
		"dtype",
		"vals",
		"validity",
		"parse_failures",
		"created_at",
	}
}
