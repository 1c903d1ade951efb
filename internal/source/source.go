// Package source loads machine inventory records from their configured
// origin. All loaders are read-only: the inventory is built once at startup
// and never written back.
package source

import (
	"errors"
	"fmt"

	"github.com/casperlab/infradash/internal/inventory"
)

// Supported inventory file formats.
const (
	FormatYAML   = "yaml"
	FormatSQLite = "sqlite"
)

// ErrUnknownFormat is returned by Load for an unrecognized format name.
var ErrUnknownFormat = errors.New("unknown inventory format")

// Load reads machine records from path using the named format.
func Load(path, format string) ([]inventory.Machine, error) {
	switch format {
	case FormatYAML:
		return LoadYAML(path)
	case FormatSQLite:
		return LoadSQLite(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
