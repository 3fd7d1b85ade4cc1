package taxonomy

import (
	"github.com/rotisserie/eris"
)

// Sentinel errors for registry lookups. An unknown variable or table is a
// caller configuration mistake, not a runtime condition to recover from.
var (
	ErrUnknownVariable = eris.New("taxonomy: unknown variable")
	ErrUnknownTable    = eris.New("taxonomy: unknown table")
)

// Registry is the immutable catalog of variables, tables, and the
// variable-to-tables adjacency. It is built once at startup and shared
// read-only across requests.
type Registry struct {
	variables  map[string]*Variable
	varOrder   []string
	tables     map[string]*Table
	tableOrder []string
	adjacency  map[string][]string
}

// New builds a Registry from variable and table definitions, validating that
// every table references known variables and that overrides only name
// variables the table actually cross-tabulates.
func New(variables []Variable, tables []Table) (*Registry, error) {
	r := &Registry{
		variables: make(map[string]*Variable, len(variables)),
		tables:    make(map[string]*Table, len(tables)),
		adjacency: make(map[string][]string),
	}

	for i := range variables {
		v := variables[i]
		if v.Name == "" {
			return nil, eris.New("taxonomy: variable with empty name")
		}
		if _, dup := r.variables[v.Name]; dup {
			return nil, eris.Errorf("taxonomy: duplicate variable %q", v.Name)
		}
		if len(v.Categories) == 0 {
			return nil, eris.Errorf("taxonomy: variable %q has no categories", v.Name)
		}
		r.variables[v.Name] = &v
		r.varOrder = append(r.varOrder, v.Name)
	}

	for i := range tables {
		t := tables[i]
		if t.ID == "" {
			return nil, eris.New("taxonomy: table with empty id")
		}
		if _, dup := r.tables[t.ID]; dup {
			return nil, eris.Errorf("taxonomy: duplicate table %q", t.ID)
		}
		for _, name := range []string{t.RowVariable, t.ColVariable} {
			if _, ok := r.variables[name]; !ok {
				return nil, eris.Errorf("taxonomy: table %q references unknown variable %q", t.ID, name)
			}
		}
		for name := range t.Overrides {
			if !t.Involves(name) {
				return nil, eris.Errorf("taxonomy: table %q overrides variable %q it does not cross-tabulate", t.ID, name)
			}
		}
		r.tables[t.ID] = &t
		r.tableOrder = append(r.tableOrder, t.ID)
		r.adjacency[t.RowVariable] = append(r.adjacency[t.RowVariable], t.ID)
		r.adjacency[t.ColVariable] = append(r.adjacency[t.ColVariable], t.ID)
	}

	return r, nil
}

// Variables returns the variables in declaration order.
func (r *Registry) Variables() []Variable {
	out := make([]Variable, 0, len(r.varOrder))
	for _, name := range r.varOrder {
		out = append(out, *r.variables[name])
	}
	return out
}

// CategoriesFor returns the canonical ordered category list for a variable.
func (r *Registry) CategoriesFor(variable string) ([]Category, error) {
	v, ok := r.variables[variable]
	if !ok {
		return nil, eris.Wrapf(ErrUnknownVariable, "%q", variable)
	}
	return v.Categories, nil
}

// IsNumericRange reports whether the variable's categories carry numeric
// bounds usable for proximity matching.
func (r *Registry) IsNumericRange(variable string) bool {
	v, ok := r.variables[variable]
	return ok && v.NumericRange
}

// Table returns the table definition for the given id.
func (r *Registry) Table(id string) (*Table, error) {
	t, ok := r.tables[id]
	if !ok {
		return nil, eris.Wrapf(ErrUnknownTable, "%q", id)
	}
	return t, nil
}

// Tables returns all table definitions in declaration order.
func (r *Registry) Tables() []*Table {
	out := make([]*Table, 0, len(r.tableOrder))
	for _, id := range r.tableOrder {
		out = append(out, r.tables[id])
	}
	return out
}

// TablesFor returns every table that cross-tabulates the given variable, in
// declaration order. This is the fan-out list for the orchestrator.
func (r *Registry) TablesFor(variable string) ([]*Table, error) {
	if _, ok := r.variables[variable]; !ok {
		return nil, eris.Wrapf(ErrUnknownVariable, "%q", variable)
	}
	ids := r.adjacency[variable]
	out := make([]*Table, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.tables[id])
	}
	return out, nil
}

// TableCategories returns the category list to match against when filtering
// the given table on the given variable: the table-local override when one
// exists, the canonical list otherwise.
func (r *Registry) TableCategories(tableID, variable string) ([]Category, error) {
	t, err := r.Table(tableID)
	if err != nil {
		return nil, err
	}
	if !t.Involves(variable) {
		return nil, eris.Errorf("taxonomy: table %q does not cross-tabulate variable %q", tableID, variable)
	}
	if override, ok := t.Overrides[variable]; ok {
		return override, nil
	}
	return r.CategoriesFor(variable)
}
