package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/demographics-cli/internal/config"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "counts.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCountCSV(t *testing.T) {
	path := writeCSV(t, "geoid,table_id,row_category,col_category,count\ng1,B01001,Under 5 years,Male,12\ng1,B01001,Under 5 years,Female,15\n")

	rows, err := readCountCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, countRow{geoid: "g1", tableID: "B01001", rowCat: "Under 5 years", colCat: "Male", count: 12}, rows[0])
}

func TestReadCountCSV_NoHeader(t *testing.T) {
	path := writeCSV(t, "g1,B01001,Under 5 years,Male,12\n")

	rows, err := readCountCSV(path)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReadCountCSV_BadCount(t *testing.T) {
	path := writeCSV(t, "g1,B01001,Under 5 years,Male,-3\n")

	_, err := readCountCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad count")
}

func TestReadCountCSV_Empty(t *testing.T) {
	path := writeCSV(t, "geoid,table_id,row_category,col_category,count\n")

	_, err := readCountCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no count rows")
}

func TestLoadCmd_SQLiteRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "counts.db")
	cfg = &config.Config{
		Store: config.StoreConfig{Driver: "sqlite", DatabaseURL: dbPath},
	}

	csvPath := writeCSV(t, "geoid,table_id,row_category,col_category,count\ng1,B01001,Under 5 years,Male,12\ng1,B01001,Under 5 years,Female,15\n")

	loadCmd.SetOut(new(bytes.Buffer))
	loadCmd.SetContext(context.Background())
	require.NoError(t, loadCmd.RunE(loadCmd, []string{csvPath}))

	env, err := initEnv(context.Background(), "")
	require.NoError(t, err)
	defer env.Close()

	tbl, err := env.source.FetchRawTable(context.Background(), "g1", "B01001")
	require.NoError(t, err)
	assert.Equal(t, int64(27), tbl.Total())
}

func TestLoadCmd_UnknownTable(t *testing.T) {
	cfg = &config.Config{
		Store: config.StoreConfig{Driver: "sqlite", DatabaseURL: filepath.Join(t.TempDir(), "x.db")},
	}

	csvPath := writeCSV(t, "g1,NOPE,Under 5 years,Male,12\n")

	loadCmd.SetContext(context.Background())
	err := loadCmd.RunE(loadCmd, []string{csvPath})
	require.Error(t, err)
}
