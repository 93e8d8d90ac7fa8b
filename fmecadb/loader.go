package fmecadb

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Bundle is a database together with the overlays declared alongside it in
// one file. Overlay fields are nil when the file omits the section.
type Bundle struct {
	Database     *Database
	Values       ValueMap
	Weights      WeightMap
	Names        NameOverlay
	Placeholders PlaceholderOverlay
	Terminals    Annotations
	Scale        *ScaleDoc
}

// ScaleDoc is the optional scale block of a database document. Pointer
// fields distinguish absent bounds from zero; Colormap names a built-in
// map and is resolved by the compiler.
type ScaleDoc struct {
	Min      *float64 `yaml:"min,omitempty"`
	Max      *float64 `yaml:"max,omitempty"`
	Colormap string   `yaml:"colormap,omitempty"`
}

type document struct {
	Nodes        []Record           `yaml:"nodes"`
	Values       ValueMap           `yaml:"values,omitempty"`
	Weights      WeightMap          `yaml:"weights,omitempty"`
	Names        NameOverlay        `yaml:"names,omitempty"`
	Placeholders PlaceholderOverlay `yaml:"placeholders,omitempty"`
	Terminals    Annotations        `yaml:"terminals,omitempty"`
	Scale        *ScaleDoc          `yaml:"scale,omitempty"`
}

// Load reads and parses a database file from the given path. If the path is
// a directory, it looks for fmeca.yaml or fmeca.yml in that directory.
func Load(path string) (*Bundle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	var dbPath string
	if info.IsDir() {
		yamlPath := filepath.Join(path, "fmeca.yaml")
		if _, err := os.Stat(yamlPath); err == nil {
			dbPath = yamlPath
		} else {
			ymlPath := filepath.Join(path, "fmeca.yml")
			if _, err := os.Stat(ymlPath); err == nil {
				dbPath = ymlPath
			} else {
				return nil, fmt.Errorf("no fmeca.yaml or fmeca.yml found in %s", path)
			}
		}
	} else {
		dbPath = path
	}

	data, err := os.ReadFile(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read database file: %w", err)
	}

	return Parse(data)
}

// Parse parses a YAML database document.
func Parse(data []byte) (*Bundle, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse database file: %w", err)
	}

	db, err := New(doc.Nodes...)
	if err != nil {
		return nil, err
	}

	return &Bundle{
		Database:     db,
		Values:       doc.Values,
		Weights:      doc.Weights,
		Names:        doc.Names,
		Placeholders: doc.Placeholders,
		Terminals:    doc.Terminals,
		Scale:        doc.Scale,
	}, nil
}
