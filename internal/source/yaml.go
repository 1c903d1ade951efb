package source

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/casperlab/infradash/internal/inventory"
)

// document is the on-disk shape of a YAML inventory file.
type document struct {
	Machines []inventory.Machine `yaml:"machines"`
}

// LoadYAML reads machine records from a YAML inventory file. A machine
// entry with `ram_gb` omitted or null is loaded without RAM data.
func LoadYAML(path string) ([]inventory.Machine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open inventory: %w", err)
	}
	defer f.Close()
	return DecodeYAML(f)
}

// DecodeYAML parses a YAML inventory document from r.
func DecodeYAML(r io.Reader) ([]inventory.Machine, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode inventory: %w", err)
	}
	return doc.Machines, nil
}
