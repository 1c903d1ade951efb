package inventory

import (
	"errors"
	"fmt"
	"strings"
)

// Machine represents one physical or logical host in the lab inventory.
// NVMe, Disk, and Swap are opaque capacity labels (e.g. "1T", "406G") kept
// as-is for display. RAMGB is nil for machines excluded from RAM totals.
type Machine struct {
	Name     string   `json:"name" yaml:"name"`
	Location string   `json:"location" yaml:"location"`
	Threads  int      `json:"threads" yaml:"threads"`
	NVMe     string   `json:"storage_nvme" yaml:"storage_nvme"`
	Disk     string   `json:"storage_disk" yaml:"storage_disk"`
	RAMGB    *float64 `json:"ram_gb" yaml:"ram_gb"`
	Swap     string   `json:"swap" yaml:"swap"`
	GPU      string   `json:"gpu,omitempty" yaml:"gpu,omitempty"`
}

// HasRAM reports whether the machine carries RAM data.
func (m Machine) HasRAM() bool {
	return m.RAMGB != nil
}

// GPUModel returns the trimmed GPU description, or "" when the machine has
// no dedicated GPU. A whitespace-only GPU field counts as no GPU.
func (m Machine) GPUModel() string {
	return strings.TrimSpace(m.GPU)
}

// Validation errors returned by New, wrapped with the offending machine name.
var (
	ErrEmptyName       = errors.New("machine name is required")
	ErrDuplicateName   = errors.New("duplicate machine name")
	ErrNegativeThreads = errors.New("thread count must be non-negative")
	ErrNegativeRAM     = errors.New("ram_gb must be non-negative")
)

// Inventory is an immutable collection of machines, built once at startup.
// All methods are read-only, so an Inventory is safe for concurrent use.
type Inventory struct {
	machines []Machine
}

// New validates records and returns an Inventory holding its own copy of
// them. An empty record list is valid and yields zero-valued aggregates.
func New(records []Machine) (*Inventory, error) {
	seen := make(map[string]bool, len(records))
	for _, m := range records {
		if m.Name == "" {
			return nil, ErrEmptyName
		}
		if seen[m.Name] {
			return nil, fmt.Errorf("machine %q: %w", m.Name, ErrDuplicateName)
		}
		seen[m.Name] = true
		if m.Threads < 0 {
			return nil, fmt.Errorf("machine %q: %w", m.Name, ErrNegativeThreads)
		}
		if m.RAMGB != nil && *m.RAMGB < 0 {
			return nil, fmt.Errorf("machine %q: %w", m.Name, ErrNegativeRAM)
		}
	}

	machines := make([]Machine, len(records))
	copy(machines, records)
	return &Inventory{machines: machines}, nil
}

// Machines returns a copy of the records in their original order.
func (inv *Inventory) Machines() []Machine {
	out := make([]Machine, len(inv.machines))
	copy(out, inv.machines)
	return out
}

// MachineCount returns the number of machines in the inventory.
func (inv *Inventory) MachineCount() int {
	return len(inv.machines)
}
