package dataset

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/demographics-cli/internal/taxonomy"
)

// StaticSource holds raw count tables in memory. It serves fixture-driven
// runs and tests.
type StaticSource struct {
	tables map[string]map[string]*Table // geoid -> table id -> table
}

func NewStaticSource() *StaticSource {
	return &StaticSource{tables: make(map[string]map[string]*Table)}
}

// Put stores a table, replacing any previous copy for the same geography
// and table id.
func (s *StaticSource) Put(tbl *Table) error {
	if err := tbl.Validate(); err != nil {
		return err
	}
	byID, ok := s.tables[tbl.GeographyID]
	if !ok {
		byID = make(map[string]*Table)
		s.tables[tbl.GeographyID] = byID
	}
	byID[tbl.ID] = tbl
	return nil
}

func (s *StaticSource) FetchRawTable(_ context.Context, geographyID, tableID string) (*Table, error) {
	byID, ok := s.tables[geographyID]
	if !ok {
		return nil, eris.Wrapf(ErrNotFound, "geography %s", geographyID)
	}
	tbl, ok := byID[tableID]
	if !ok {
		return nil, eris.Wrapf(ErrNotFound, "table %s for geography %s", tableID, geographyID)
	}
	return tbl, nil
}

type fixtureFile struct {
	Tables []fixtureTable `yaml:"tables"`
}

type fixtureTable struct {
	ID          string         `yaml:"id"`
	GeographyID string         `yaml:"geoid"`
	Counts      []fixtureCount `yaml:"counts"`
}

type fixtureCount struct {
	Row   string `yaml:"row"`
	Col   string `yaml:"col"`
	Count int64  `yaml:"count"`
}

// LoadFixture reads a YAML count fixture and returns a populated source.
// Table metadata and axis categories come from the registry, so a fixture
// only carries cell counts.
func LoadFixture(path string, reg *taxonomy.Registry) (*StaticSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read fixture %s", path)
	}
	var file fixtureFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, eris.Wrapf(err, "dataset: parse fixture %s", path)
	}

	src := NewStaticSource()
	for _, ft := range file.Tables {
		meta, err := reg.Table(ft.ID)
		if err != nil {
			return nil, err
		}
		counts := make(map[Cell]int64, len(ft.Counts))
		for _, c := range ft.Counts {
			counts[Cell{Row: c.Row, Col: c.Col}] = c.Count
		}
		tbl := &Table{
			ID:            ft.ID,
			GeographyID:   ft.GeographyID,
			Source:        meta.Source,
			RowVariable:   meta.RowVariable,
			ColVariable:   meta.ColVariable,
			RowCategories: labelsFor(reg, ft.ID, meta.RowVariable),
			ColCategories: labelsFor(reg, ft.ID, meta.ColVariable),
			Counts:        counts,
		}
		if err := src.Put(tbl); err != nil {
			return nil, eris.Wrapf(err, "dataset: fixture table %s", ft.ID)
		}
	}
	return src, nil
}
