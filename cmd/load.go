package main

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/demographics-cli/internal/dataset"
	"github.com/sells-group/demographics-cli/internal/db"
	"github.com/sells-group/demographics-cli/internal/taxonomy"
)

var loadSkipValidation bool

var loadCmd = &cobra.Command{
	Use:   "load <counts.csv>",
	Short: "Bulk-load count rows into the configured store",
	Long:  "Reads CSV rows of (geoid, table_id, row_category, col_category, count) and upserts them into the count store. Table ids are checked against the taxonomy unless --skip-validation is set.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := readCountCSV(args[0])
		if err != nil {
			return err
		}
		if !loadSkipValidation {
			reg := taxonomy.Default()
			if cfg.Taxonomy.File != "" {
				if reg, err = taxonomy.LoadFromFile(cfg.Taxonomy.File); err != nil {
					return err
				}
			}
			for _, r := range rows {
				if _, err := reg.Table(r.tableID); err != nil {
					return eris.Wrapf(err, "row for geography %s", r.geoid)
				}
			}
		}

		var loaded int64
		switch cfg.Store.Driver {
		case "postgres":
			loaded, err = loadPostgres(cmd, rows)
		case "sqlite":
			loaded, err = loadSQLite(cmd, rows)
		default:
			err = eris.Errorf("unknown store driver %q", cfg.Store.Driver)
		}
		if err != nil {
			return err
		}

		zap.L().Info("counts loaded",
			zap.Int64("rows", loaded),
			zap.String("driver", cfg.Store.Driver),
			zap.String("file", args[0]))
		return nil
	},
}

type countRow struct {
	geoid, tableID, rowCat, colCat string
	count                          int64
}

func readCountCSV(path string) ([]countRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 5

	var rows []countRow
	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "parse %s", path)
		}
		line++
		// Header row is optional.
		if line == 1 && rec[0] == "geoid" {
			continue
		}
		n, err := strconv.ParseInt(rec[4], 10, 64)
		if err != nil || n < 0 {
			return nil, eris.Errorf("%s line %d: bad count %q", path, line, rec[4])
		}
		rows = append(rows, countRow{
			geoid:   rec[0],
			tableID: rec[1],
			rowCat:  rec[2],
			colCat:  rec[3],
			count:   n,
		})
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("%s contains no count rows", path)
	}
	return rows, nil
}

func loadPostgres(cmd *cobra.Command, rows []countRow) (int64, error) {
	ctx := cmd.Context()
	pool, err := db.NewPool(ctx, cfg.Store.DatabaseURL)
	if err != nil {
		return 0, err
	}
	defer pool.Close()

	values := make([][]any, len(rows))
	for i, r := range rows {
		values[i] = []any{r.geoid, r.tableID, r.rowCat, r.colCat, r.count}
	}
	return db.BulkUpsert(ctx, pool, db.UpsertConfig{
		Table:        "raw_counts",
		Columns:      []string{"geoid", "table_id", "row_category", "col_category", "count"},
		ConflictKeys: []string{"geoid", "table_id", "row_category", "col_category"},
		UpdateCols:   []string{"count"},
	}, values)
}

func loadSQLite(cmd *cobra.Command, rows []countRow) (int64, error) {
	ctx := cmd.Context()
	src, err := dataset.NewSQLite(cfg.Store.DatabaseURL, nil)
	if err != nil {
		return 0, err
	}
	defer src.Close()
	if err := src.Migrate(ctx); err != nil {
		return 0, err
	}

	type key struct{ geoid, tableID string }
	grouped := make(map[key]map[dataset.Cell]int64)
	for _, r := range rows {
		k := key{r.geoid, r.tableID}
		if grouped[k] == nil {
			grouped[k] = make(map[dataset.Cell]int64)
		}
		grouped[k][dataset.Cell{Row: r.rowCat, Col: r.colCat}] = r.count
	}

	var loaded int64
	for k, counts := range grouped {
		if err := src.InsertCounts(ctx, k.geoid, k.tableID, counts); err != nil {
			return loaded, err
		}
		loaded += int64(len(counts))
	}
	return loaded, nil
}

func init() {
	loadCmd.Flags().BoolVar(&loadSkipValidation, "skip-validation", false, "skip taxonomy table id checks")
	rootCmd.AddCommand(loadCmd)
}
