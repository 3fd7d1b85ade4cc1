package dataset

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/demographics-cli/internal/taxonomy"
)

func newTestSQLite(t *testing.T) *SQLiteSource {
	t.Helper()
	src, err := NewSQLite(filepath.Join(t.TempDir(), "counts.db"), taxonomy.Default())
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })
	require.NoError(t, src.Migrate(context.Background()))
	return src
}

func TestSQLiteSource_RoundTrip(t *testing.T) {
	src := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, src.InsertCounts(ctx, "482011000001", "C24010A-I", map[Cell]int64{
		{Row: "Service occupations", Col: "White Alone"}: 40,
		{Row: "Service occupations", Col: "Asian Alone"}: 55,
	}))

	tbl, err := src.FetchRawTable(ctx, "482011000001", "C24010A-I")
	require.NoError(t, err)
	assert.Equal(t, int64(95), tbl.Total())
	assert.Equal(t, int64(40), tbl.Count("Service occupations", "White Alone"))
	assert.Equal(t, taxonomy.VarProfession, tbl.RowVariable)
}

func TestSQLiteSource_Upsert(t *testing.T) {
	src := newTestSQLite(t)
	ctx := context.Background()

	cell := map[Cell]int64{{Row: "Male", Col: "Under 5 years"}: 10}
	require.NoError(t, src.InsertCounts(ctx, "g1", "B01001", cell))

	cell[Cell{Row: "Male", Col: "Under 5 years"}] = 25
	require.NoError(t, src.InsertCounts(ctx, "g1", "B01001", cell))

	tbl, err := src.FetchRawTable(ctx, "g1", "B01001")
	require.NoError(t, err)
	assert.Equal(t, int64(25), tbl.Total())
}

func TestSQLiteSource_NotFound(t *testing.T) {
	src := newTestSQLite(t)

	_, err := src.FetchRawTable(context.Background(), "missing", "B19037")
	assert.ErrorIs(t, err, ErrNotFound)
}
