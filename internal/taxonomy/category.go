// Package taxonomy holds the canonical demographic category definitions, the
// bivariate table catalog, and the per-table category overrides that make
// cross-table value translation possible.
package taxonomy

// Bounds are the numeric limits a category covers, when the category is a
// numeric range (income brackets, age bands).
type Bounds struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Mid returns the midpoint of the bounds.
func (b Bounds) Mid() float64 {
	return (b.Min + b.Max) / 2
}

// Width returns the size of the range covered.
func (b Bounds) Width() float64 {
	return b.Max - b.Min
}

// Category is one bucket of a demographic variable. Bounds is nil for purely
// nominal categories (gender, race, profession).
type Category struct {
	Label  string  `yaml:"label" json:"label"`
	Bounds *Bounds `yaml:"bounds,omitempty" json:"bounds,omitempty"`
}

// cat builds a nominal category.
func cat(label string) Category {
	return Category{Label: label}
}

// rangeCat builds a numeric-range category.
func rangeCat(label string, min, max float64) Category {
	return Category{Label: label, Bounds: &Bounds{Min: min, Max: max}}
}

// Labels extracts the ordered label list from a category slice.
func Labels(cats []Category) []string {
	labels := make([]string, len(cats))
	for i, c := range cats {
		labels[i] = c.Label
	}
	return labels
}

// Variable is a demographic variable with its canonical ordered category set.
// Order matters: charts, legends, and range-adjacent matching all rely on it.
type Variable struct {
	Name         string     `yaml:"name" json:"name"`
	NumericRange bool       `yaml:"numeric_range" json:"numeric_range"`
	Categories   []Category `yaml:"categories" json:"categories"`
}

// Table describes one bivariate census table: which two variables it
// cross-tabulates and, where the table buckets a variable differently from
// the canonical list, the table-local category overrides.
type Table struct {
	ID          string                `yaml:"id" json:"id"`
	Source      string                `yaml:"source" json:"source"`
	RowVariable string                `yaml:"row_variable" json:"row_variable"`
	ColVariable string                `yaml:"col_variable" json:"col_variable"`
	Overrides   map[string][]Category `yaml:"overrides,omitempty" json:"overrides,omitempty"`
}

// Involves reports whether the table cross-tabulates the given variable.
func (t *Table) Involves(variable string) bool {
	return t.RowVariable == variable || t.ColVariable == variable
}

// PairedVariable returns the other variable of the table.
func (t *Table) PairedVariable(variable string) (string, bool) {
	switch variable {
	case t.RowVariable:
		return t.ColVariable, true
	case t.ColVariable:
		return t.RowVariable, true
	default:
		return "", false
	}
}
