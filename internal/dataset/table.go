// Package dataset defines the raw-count table model and the retrieval
// contract to the tabulated-count store, with Postgres, SQLite, and in-memory
// backends.
package dataset

import (
	"github.com/rotisserie/eris"
)

// Cell addresses one count in a bivariate table by its table-local category
// labels.
type Cell struct {
	Row string
	Col string
}

// Table is the raw category-by-category count grid for one census table at
// one geography. Counts are non-negative; an all-zero table is a legitimate
// small-population geography, not an error.
type Table struct {
	ID            string
	GeographyID   string
	Source        string
	RowVariable   string
	ColVariable   string
	RowCategories []string
	ColCategories []string
	Counts        map[Cell]int64
}

// Count returns the count for a cell, zero when absent. Sparse upstream
// extracts omit zero cells.
func (t *Table) Count(row, col string) int64 {
	return t.Counts[Cell{Row: row, Col: col}]
}

// Total sums every cell in the table.
func (t *Table) Total() int64 {
	var total int64
	for _, c := range t.Counts {
		total += c
	}
	return total
}

// CategoriesOf returns the table-local ordered category labels for one of the
// table's two variables.
func (t *Table) CategoriesOf(variable string) ([]string, bool) {
	switch variable {
	case t.RowVariable:
		return t.RowCategories, true
	case t.ColVariable:
		return t.ColCategories, true
	default:
		return nil, false
	}
}

// Validate checks the table invariants: both axes populated and no negative
// counts.
func (t *Table) Validate() error {
	if len(t.RowCategories) == 0 || len(t.ColCategories) == 0 {
		return eris.Errorf("dataset: table %s has an empty category axis", t.ID)
	}
	for cell, count := range t.Counts {
		if count < 0 {
			return eris.Errorf("dataset: table %s has negative count at (%s, %s)", t.ID, cell.Row, cell.Col)
		}
	}
	return nil
}
