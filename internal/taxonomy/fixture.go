package taxonomy

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// fixtureDoc is the YAML document shape for a taxonomy override file.
type fixtureDoc struct {
	Variables []Variable `yaml:"variables"`
	Tables    []Table    `yaml:"tables"`
}

// LoadFromFile reads a full taxonomy definition from a YAML fixture. The file
// replaces the built-in defaults wholesale, which keeps the engine testable
// with synthetic taxonomies and lets deployments track ACS vintage changes
// without a rebuild.
func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "taxonomy: read fixture")
	}

	var doc fixtureDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "taxonomy: unmarshal fixture")
	}

	r, err := New(doc.Variables, doc.Tables)
	if err != nil {
		return nil, eris.Wrap(err, "taxonomy: build registry from fixture")
	}
	return r, nil
}
