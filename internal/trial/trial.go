// Package trial loads an acquisition (metadata tree plus analog channels)
// from a YAML document. It stands in for a C3D reader when driving the
// force platform pipeline from the command line or from tests.
package trial

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/forceplate/internal/analog"
	"github.com/banshee-data/forceplate/internal/metadata"
)

// Trial is a loaded acquisition.
type Trial struct {
	Metadata *metadata.Node
	Analogs  *analog.Collection
}

type document struct {
	Metadata yaml.Node     `yaml:"metadata"`
	Analogs  []analogEntry `yaml:"analogs"`
}

type analogEntry struct {
	Label       string    `yaml:"label"`
	Description string    `yaml:"description"`
	Unit        string    `yaml:"unit"`
	Scale       *float64  `yaml:"scale"`
	Values      []float64 `yaml:"values"`
}

// Load reads a trial document:
//
//	metadata:
//	  FORCE_PLATFORM:
//	    USED: 1
//	    ...
//	analogs:
//	  - label: FX1
//	    unit: N
//	    values: [0, 0.5, 1]
func Load(r io.Reader) (*Trial, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return &Trial{Metadata: metadata.NewNode(""), Analogs: analog.NewCollection()}, nil
		}
		return nil, fmt.Errorf("failed to parse trial YAML: %w", err)
	}

	root := metadata.NewNode("")
	if doc.Metadata.Kind != 0 {
		var err error
		if root, err = metadata.FromYAML(&doc.Metadata); err != nil {
			return nil, err
		}
	}

	analogs := analog.NewCollection()
	frames := -1
	for i, a := range doc.Analogs {
		if frames >= 0 && len(a.Values) != frames {
			return nil, fmt.Errorf("analog #%d (%s): %d frames, expected %d", i+1, a.Label, len(a.Values), frames)
		}
		frames = len(a.Values)
		c := analog.New(a.Label, 0)
		c.Description = a.Description
		c.Unit = a.Unit
		if a.Scale != nil {
			c.Scale = *a.Scale
		}
		c.Values = append(c.Values, a.Values...)
		analogs.Append(c)
	}
	return &Trial{Metadata: root, Analogs: analogs}, nil
}

// LoadFile opens and loads a trial from path.
func LoadFile(path string) (*Trial, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open trial: %w", err)
	}
	defer f.Close()
	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
