package dataset

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/demographics-cli/internal/resilience"
	"github.com/sells-group/demographics-cli/internal/taxonomy"
)

func newMockPostgresSource(t *testing.T) (*PostgresSource, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	src := NewPostgresSource(mock, taxonomy.Default())
	return src, mock
}

func TestPostgresSource_FetchRawTable(t *testing.T) {
	src, mock := newMockPostgresSource(t)

	rows := pgxmock.NewRows([]string{"row_category", "col_category", "count"}).
		AddRow("Under 25 years", "Less than $10,000", int64(12)).
		AddRow("Under 25 years", "$10,000 to $14,999", int64(7)).
		AddRow("25 to 44 years", "Less than $10,000", int64(30))
	mock.ExpectQuery(`SELECT row_category, col_category, count FROM raw_counts`).
		WithArgs("482011000001", "B19037").
		WillReturnRows(rows)

	tbl, err := src.FetchRawTable(context.Background(), "482011000001", "B19037")
	require.NoError(t, err)
	assert.Equal(t, "B19037", tbl.ID)
	assert.Equal(t, taxonomy.VarAge, tbl.RowVariable)
	assert.Equal(t, taxonomy.VarIncome, tbl.ColVariable)
	assert.Equal(t, int64(12), tbl.Count("Under 25 years", "Less than $10,000"))
	assert.Equal(t, int64(49), tbl.Total())

	// Axis categories come from the table override, not the canonical list.
	assert.Equal(t, []string{"Under 25 years", "25 to 44 years", "45 to 64 years", "65 years and over"}, tbl.RowCategories)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_FetchRawTable_NoRows(t *testing.T) {
	src, mock := newMockPostgresSource(t)

	mock.ExpectQuery(`SELECT row_category, col_category, count FROM raw_counts`).
		WithArgs("999999999999", "B01001").
		WillReturnRows(pgxmock.NewRows([]string{"row_category", "col_category", "count"}))

	_, err := src.FetchRawTable(context.Background(), "999999999999", "B01001")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_FetchRawTable_UnknownTable(t *testing.T) {
	src, _ := newMockPostgresSource(t)

	_, err := src.FetchRawTable(context.Background(), "482011000001", "B99999")
	assert.ErrorIs(t, err, taxonomy.ErrUnknownTable)
}

func TestPostgresSource_FetchRawTable_QueryError(t *testing.T) {
	src, mock := newMockPostgresSource(t)

	mock.ExpectQuery(`SELECT row_category, col_category, count FROM raw_counts`).
		WithArgs("482011000001", "B19037").
		WillReturnError(errors.New("permission denied"))

	_, err := src.FetchRawTable(context.Background(), "482011000001", "B19037")
	require.Error(t, err)

	var upstream *resilience.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "postgres", upstream.Source)
	assert.NoError(t, mock.ExpectationsWereMet())
}
