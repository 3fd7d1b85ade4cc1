package dataset

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/demographics-cli/internal/taxonomy"
)

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS raw_counts (
	geoid        TEXT NOT NULL,
	table_id     TEXT NOT NULL,
	row_category TEXT NOT NULL,
	col_category TEXT NOT NULL,
	count        INTEGER NOT NULL CHECK (count >= 0),
	PRIMARY KEY (geoid, table_id, row_category, col_category)
);

CREATE INDEX IF NOT EXISTS idx_raw_counts_geo_table ON raw_counts(geoid, table_id);
`

// SQLiteSource serves raw count tables from a local SQLite file. It backs
// the single-machine deployment where no Postgres is available.
type SQLiteSource struct {
	db  *sql.DB
	reg *taxonomy.Registry
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string, reg *taxonomy.Registry) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteSource{db: db, reg: reg}, nil
}

func (s *SQLiteSource) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// InsertCounts replaces any stored counts for the cells it names.
func (s *SQLiteSource) InsertCounts(ctx context.Context, geographyID, tableID string, counts map[Cell]int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO raw_counts (geoid, table_id, row_category, col_category, count)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (geoid, table_id, row_category, col_category) DO UPDATE SET count = excluded.count`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	for cell, n := range counts {
		if _, err := stmt.ExecContext(ctx, geographyID, tableID, cell.Row, cell.Col, n); err != nil {
			return eris.Wrap(err, "sqlite: insert count")
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

func (s *SQLiteSource) FetchRawTable(ctx context.Context, geographyID, tableID string) (*Table, error) {
	meta, err := s.reg.Table(tableID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT row_category, col_category, count FROM raw_counts WHERE geoid = ? AND table_id = ?`,
		geographyID, tableID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query raw counts")
	}
	defer rows.Close()

	counts := make(map[Cell]int64)
	for rows.Next() {
		var row, col string
		var n int64
		if err := rows.Scan(&row, &col, &n); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan raw count row")
		}
		counts[Cell{Row: row, Col: col}] = n
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate raw counts")
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
	return tbl, nil
}
