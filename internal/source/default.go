package source

import (
	"bytes"
	_ "embed"

	"github.com/casperlab/infradash/internal/inventory"
)

// defaultInventory is the CASPER server-room dataset, used when no
// inventory source is configured.
//
//go:embed default.yaml
var defaultInventory []byte

// Default returns the built-in machine dataset.
func Default() []inventory.Machine {
	machines, err := DecodeYAML(bytes.NewReader(defaultInventory))
	if err != nil {
		// The embedded document is fixed at compile time.
		panic("source: embedded inventory is malformed: " + err.Error())
	}
	return machines
}
