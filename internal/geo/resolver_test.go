package geo

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresResolver_Resolve(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	mock.ExpectQuery(`SELECT geoid`).
		WithArgs(-95.3698, 29.7604).
		WillReturnRows(pgxmock.NewRows([]string{"geoid"}).AddRow("482011000001"))

	r := NewPostgresResolver(mock)
	geoid, err := r.Resolve(context.Background(), 29.7604, -95.3698)
	require.NoError(t, err)
	assert.Equal(t, "482011000001", geoid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresResolver_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	mock.ExpectQuery(`SELECT geoid`).
		WithArgs(0.0, 0.0).
		WillReturnError(pgx.ErrNoRows)

	r := NewPostgresResolver(mock)
	_, err = r.Resolve(context.Background(), 0, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStaticResolver(t *testing.T) {
	r := NewStaticResolver()
	r.Add("482011000001", 29.5, 30.0, -95.8, -95.0)

	geoid, err := r.Resolve(context.Background(), 29.76, -95.37)
	require.NoError(t, err)
	assert.Equal(t, "482011000001", geoid)

	_, err = r.Resolve(context.Background(), 40.7, -74.0)
	assert.ErrorIs(t, err, ErrNotFound)
}
