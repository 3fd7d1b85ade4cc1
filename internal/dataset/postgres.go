package dataset

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/demographics-cli/internal/db"
	"github.com/sells-group/demographics-cli/internal/resilience"
	"github.com/sells-group/demographics-cli/internal/taxonomy"
)

const rawCountsSchema = `
CREATE TABLE IF NOT EXISTS raw_counts (
	geoid TEXT NOT NULL,
	table_id TEXT NOT NULL,
	row_category TEXT NOT NULL,
	col_category TEXT NOT NULL,
	count BIGINT NOT NULL CHECK (count >= 0),
	PRIMARY KEY (geoid, table_id, row_category, col_category)
);
CREATE INDEX IF NOT EXISTS raw_counts_geo_table_idx ON raw_counts (geoid, table_id);
`

const selectCountsSQL = `SELECT row_category, col_category, count FROM raw_counts WHERE geoid = $1 AND table_id = $2`

// PostgresSource serves raw count tables out of a raw_counts relation.
// Transient connection failures are retried; a table with no stored rows
// for the requested geography reports ErrNotFound.
type PostgresSource struct {
	pool  db.Pool
	reg   *taxonomy.Registry
	retry resilience.RetryConfig
}

func NewPostgresSource(pool db.Pool, reg *taxonomy.Registry) *PostgresSource {
	retry := resilience.DefaultRetryConfig()
	retry.ShouldRetry = resilience.IsTransient
	retry.OnRetry = resilience.RetryLogger("postgres", "fetch raw table")
	return &PostgresSource{pool: pool, reg: reg, retry: retry}
}

// Migrate creates the raw_counts relation if it does not exist.
func (s *PostgresSource) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, rawCountsSchema); err != nil {
		return eris.Wrap(err, "dataset: migrate raw_counts")
	}
	return nil
}

func (s *PostgresSource) FetchRawTable(ctx context.Context, geographyID, tableID string) (*Table, error) {
	meta, err := s.reg.Table(tableID)
	if err != nil {
		return nil, err
	}

	counts, err := resilience.DoVal(ctx, s.retry, func(ctx context.Context) (map[Cell]int64, error) {
		return s.queryCounts(ctx, geographyID, tableID)
	})
	if err != nil {
		return nil, resilience.NewUpstreamError(err, "postgres")
	}
	if len(counts) == 0 {
		return nil, eris.Wrapf(ErrNotFound, "table %s for geography %s", tableID, geographyID)
	}

	tbl := &Table{
		ID:            tableID,
		GeographyID:   geographyID,
		Source:        meta.Source,
		RowVariable:   meta.RowVariable,
		ColVariable:   meta.ColVariable,
		RowCategories: labelsFor(s.reg, tableID, meta.RowVariable),
		ColCategories: labelsFor(s.reg, tableID, meta.ColVariable),
		Counts:        counts,
	}
	if err := tbl.Validate(); err != nil {
		return nil, err
	}

	zap.L().Debug("fetched raw table",
		zap.String("table", tableID),
		zap.String("geoid", geographyID),
		zap.Int("cells", len(counts)))
	return tbl, nil
}

func (s *PostgresSource) queryCounts(ctx context.Context, geographyID, tableID string) (map[Cell]int64, error) {
	rows, err := s.pool.Query(ctx, selectCountsSQL, geographyID, tableID)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: query raw counts")
	}
	defer rows.Close()

	counts := make(map[Cell]int64)
	for rows.Next() {
		var row, col string
		var n int64
		if err := rows.Scan(&row, &col, &n); err != nil {
			return nil, eris.Wrap(err, "dataset: scan raw count row")
		}
		counts[Cell{Row: row, Col: col}] = n
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "dataset: iterate raw counts")
	}
	return counts, nil
}

func labelsFor(reg *taxonomy.Registry, tableID, variable string) []string {
	cats, err := reg.TableCategories(tableID, variable)
	if err != nil {
		return nil
	}
	return taxonomy.Labels(cats)
}
