package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return mock
}

func TestCopyInto_Empty(t *testing.T) {
	mock := newMockPool(t)

	n, err := CopyInto(context.Background(), mock, "raw_counts", []string{"geoid"}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyInto_Rows(t *testing.T) {
	mock := newMockPool(t)

	cols := []string{"geoid", "table_id", "row_category", "col_category", "count"}
	rows := [][]any{
		{"060750101001", "B19037", "Under 25 years", "Less than $10,000", int64(12)},
		{"060750101001", "B19037", "Under 25 years", "$10,000 to $14,999", int64(7)},
	}

	mock.ExpectCopyFrom(pgx.Identifier{"raw_counts"}, cols).WillReturnResult(2)

	n, err := CopyInto(context.Background(), mock, "raw_counts", cols, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsert_Validation(t *testing.T) {
	mock := newMockPool(t)

	_, err := BulkUpsert(context.Background(), mock, UpsertConfig{Table: "raw_counts"}, [][]any{{1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns")

	_, err = BulkUpsert(context.Background(), mock, UpsertConfig{Table: "raw_counts", Columns: []string{"geoid"}}, [][]any{{1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conflict keys")
}

func TestBulkUpsert_Flow(t *testing.T) {
	mock := newMockPool(t)

	cfg := UpsertConfig{
		Table:        "raw_counts",
		Columns:      []string{"geoid", "table_id", "row_category", "col_category", "count"},
		ConflictKeys: []string{"geoid", "table_id", "row_category", "col_category"},
	}
	rows := [][]any{
		{"060750101001", "B01001", "Male", "Under 5 years", int64(40)},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_raw_counts"}, cfg.Columns).WillReturnResult(1)
	mock.ExpectExec(`INSERT INTO "raw_counts"`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	n, err := BulkUpsert(context.Background(), mock, cfg, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
