// Package distribution turns raw bivariate count tables into marginal and
// conditional category distributions.
package distribution

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/demographics-cli/internal/dataset"
)

// Item is a single category's share of a distribution.
type Item struct {
	Category   string  `json:"category"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Distribution is a category breakdown for one variable, optionally
// conditioned on a category of the paired variable. Items preserve the
// taxonomy's category order; Total is the exact integer sum of counts.
type Distribution struct {
	Variable          string `json:"variable"`
	ConditionVariable string `json:"condition_variable,omitempty"`
	ConditionCategory string `json:"condition_category,omitempty"`
	Total             int64  `json:"total"`
	Items             []Item `json:"items"`
	Source            string `json:"source,omitempty"`
}

// Marginal sums the table across the other axis and returns the
// distribution of the named variable. A zero-population table yields a
// valid distribution with Total 0 and all percentages 0.
func Marginal(tbl *dataset.Table, variable string) (*Distribution, error) {
	cats, ok := tbl.CategoriesOf(variable)
	if !ok {
		return nil, eris.Errorf("distribution: table %s does not involve %s", tbl.ID, variable)
	}

	counts := make(map[string]int64, len(cats))
	for cell, n := range tbl.Counts {
		if variable == tbl.RowVariable {
			counts[cell.Row] += n
		} else {
			counts[cell.Col] += n
		}
	}
	return build(tbl, variable, "", "", cats, counts), nil
}

// Conditional filters the table to the rows or columns matching the
// condition category, then marginalizes the remaining variable.
// conditionCategory must be a category of the table's own axis; callers
// resolve user input to a table-local category before calling.
func Conditional(tbl *dataset.Table, conditionVariable, conditionCategory string) (*Distribution, error) {
	condCats, ok := tbl.CategoriesOf(conditionVariable)
	if !ok {
		return nil, eris.Errorf("distribution: table %s does not involve %s", tbl.ID, conditionVariable)
	}
	if !contains(condCats, conditionCategory) {
		return nil, eris.Errorf("distribution: %q is not a %s category of table %s",
			conditionCategory, conditionVariable, tbl.ID)
	}

	var target string
	if conditionVariable == tbl.RowVariable {
		target = tbl.ColVariable
	} else {
		target = tbl.RowVariable
	}
	targetCats, _ := tbl.CategoriesOf(target)

	counts := make(map[string]int64, len(targetCats))
	for cell, n := range tbl.Counts {
		if conditionVariable == tbl.RowVariable {
			if cell.Row == conditionCategory {
				counts[cell.Col] += n
			}
		} else if cell.Col == conditionCategory {
			counts[cell.Row] += n
		}
	}
	return build(tbl, target, conditionVariable, conditionCategory, targetCats, counts), nil
}

func build(tbl *dataset.Table, variable, condVar, condCat string, cats []string, counts map[string]int64) *Distribution {
	var total int64
	for _, c := range cats {
		total += counts[c]
	}

	items := make([]Item, 0, len(cats))
	for _, c := range cats {
		n := counts[c]
		var pct float64
		if total > 0 {
			pct = float64(n) / float64(total) * 100
		}
		items = append(items, Item{Category: c, Count: n, Percentage: pct})
	}

	return &Distribution{
		Variable:          variable,
		ConditionVariable: condVar,
		ConditionCategory: condCat,
		Total:             total,
		Items:             items,
		Source:            tbl.Source,
	}
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
