package preset

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"datatable/tableconfig"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// Catalog is the fixed set of system presets shipped with the process.
type Catalog struct {
	presets []Preset
	ids     tableconfig.KeySet
}

type catalogFile struct {
	Presets []Preset `yaml:"presets"`
}

// BuiltinCatalog returns the embedded catalog.
func BuiltinCatalog() Catalog {
	c, err := ParseCatalog(builtinCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded preset catalog: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog from path; an empty path yields the embedded
// catalog.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return BuiltinCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML catalog. Ids must be non-empty and unique and
// the catalog must define DefaultID.
func ParseCatalog(data []byte) (Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	ids := make([]string, 0, len(f.Presets))
	seen := map[string]bool{}
	for i := range f.Presets {
		p := &f.Presets[i]
		if p.ID == "" {
			return Catalog{}, fmt.Errorf("catalog entry %d: missing id", i)
		}
		if seen[p.ID] {
			return Catalog{}, fmt.Errorf("catalog entry %d: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = true
		if p.Name == "" {
			p.Name = p.ID
		}
		if p.Config == nil {
			p.Config = tableconfig.Config{}
		}
		p.IsSystem = true
		ids = append(ids, p.ID)
	}
	if !seen[DefaultID] {
		return Catalog{}, fmt.Errorf("catalog has no %q preset", DefaultID)
	}
	return Catalog{presets: f.Presets, ids: tableconfig.NewKeySet(ids...)}, nil
}

// Presets returns copies of the system presets in catalog order.
func (c Catalog) Presets() []Preset {
	return cloneAll(c.presets)
}

// IDs returns the reserved system id set.
func (c Catalog) IDs() tableconfig.KeySet {
	return c.ids
}
