package inventory

import (
	"errors"
	"sort"
)

// ErrNegativeN is returned by the top-N operations when n is negative.
var ErrNegativeN = errors.New("n must be non-negative")

// Ranked pairs a machine with the metric it was ranked by and its share of
// the inventory-wide total. Share is a percentage; it is nil when the total
// is zero, since a share of nothing is not a meaningful number.
type Ranked struct {
	Machine Machine  `json:"machine"`
	Value   float64  `json:"value"`
	Share   *float64 `json:"share,omitempty"`
}

// GPUMachine is a GPU-equipped machine paired with its trimmed GPU model.
type GPUMachine struct {
	Name string `json:"name"`
	GPU  string `json:"gpu"`
}

// TotalThreads returns the sum of thread counts across all machines.
func (inv *Inventory) TotalThreads() int {
	total := 0
	for _, m := range inv.machines {
		total += m.Threads
	}
	return total
}

// TotalRAMGB returns the sum of RAM over machines that carry RAM data.
// Machines without RAM data are skipped, not counted as zero.
func (inv *Inventory) TotalRAMGB() float64 {
	total := 0.0
	for _, m := range inv.machines {
		if m.HasRAM() {
			total += *m.RAMGB
		}
	}
	return total
}

// GPUEquippedCount returns the number of machines with a dedicated GPU.
func (inv *Inventory) GPUEquippedCount() int {
	count := 0
	for _, m := range inv.machines {
		if m.GPUModel() != "" {
			count++
		}
	}
	return count
}

// GPUEquipped returns the GPU-equipped machines in their original order.
func (inv *Inventory) GPUEquipped() []GPUMachine {
	var out []GPUMachine
	for _, m := range inv.machines {
		if gpu := m.GPUModel(); gpu != "" {
			out = append(out, GPUMachine{Name: m.Name, GPU: gpu})
		}
	}
	return out
}

// TopByThreads returns the n machines with the largest thread counts in
// descending order. Ties keep their original input order. When n exceeds
// the inventory size all machines are returned. A negative n is a caller
// error and yields ErrNegativeN.
func (inv *Inventory) TopByThreads(n int) ([]Ranked, error) {
	if n < 0 {
		return nil, ErrNegativeN
	}
	ranked := make([]Ranked, 0, len(inv.machines))
	for _, m := range inv.machines {
		ranked = append(ranked, Ranked{Machine: m, Value: float64(m.Threads)})
	}
	return topN(ranked, float64(inv.TotalThreads()), n), nil
}

// TopByRAM returns the n machines with the most RAM in descending order,
// considering only machines that carry RAM data; the share denominator is
// TotalRAMGB. Ties keep their original input order. A negative n yields
// ErrNegativeN.
func (inv *Inventory) TopByRAM(n int) ([]Ranked, error) {
	if n < 0 {
		return nil, ErrNegativeN
	}
	ranked := make([]Ranked, 0, len(inv.machines))
	for _, m := range inv.machines {
		if m.HasRAM() {
			ranked = append(ranked, Ranked{Machine: m, Value: *m.RAMGB})
		}
	}
	return topN(ranked, inv.TotalRAMGB(), n), nil
}

// topN sorts ranked descending by value (stable, so ties keep input
// order), truncates to n entries, and fills in percentage shares when the
// denominator is positive.
func topN(ranked []Ranked, total float64, n int) []Ranked {
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	if total > 0 {
		for i := range ranked {
			share := ranked[i].Value / total * 100
			ranked[i].Share = &share
		}
	}
	return ranked
}
