package inventory_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casperlab/infradash/internal/inventory"
)

func mustInventory(t *testing.T, records []inventory.Machine) *inventory.Inventory {
	t.Helper()
	inv, err := inventory.New(records)
	require.NoError(t, err)
	return inv
}

// threeMachines is the worked example from the dashboard's sanity checks:
// A has 96 threads and 128GB RAM, B has 128 threads and no RAM data, C has
// 64 threads, 64GB RAM, and a GPU.
func threeMachines(t *testing.T) *inventory.Inventory {
	t.Helper()
	return mustInventory(t, []inventory.Machine{
		{Name: "A", Threads: 96, RAMGB: ramGB(128)},
		{Name: "B", Threads: 128},
		{Name: "C", Threads: 64, RAMGB: ramGB(64), GPU: "RX7990"},
	})
}

func TestTotals(t *testing.T) {
	inv := threeMachines(t)

	assert.Equal(t, 288, inv.TotalThreads())
	assert.Equal(t, 192.0, inv.TotalRAMGB())
	assert.Equal(t, 3, inv.MachineCount())
	assert.Equal(t, 1, inv.GPUEquippedCount())
}

func TestTotals_EmptyInventory(t *testing.T) {
	inv := mustInventory(t, nil)

	assert.Equal(t, 0, inv.TotalThreads())
	assert.Equal(t, 0.0, inv.TotalRAMGB())
	assert.Equal(t, 0, inv.MachineCount())
	assert.Equal(t, 0, inv.GPUEquippedCount())

	top, err := inv.TopByThreads(3)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestTotalRAMGB_SkipsAbsentRAM(t *testing.T) {
	inv := mustInventory(t, []inventory.Machine{
		{Name: "A", RAMGB: ramGB(64)},
		{Name: "B"}, // no RAM data; must not count as zero either
		{Name: "C", RAMGB: ramGB(32)},
	})
	assert.Equal(t, 96.0, inv.TotalRAMGB())
}

func TestGPUEquippedCount_WhitespaceOnlyIsNotEquipped(t *testing.T) {
	inv := mustInventory(t, []inventory.Machine{
		{Name: "A", GPU: "  "},
		{Name: "B", GPU: "NVIDIA RTX A6000"},
		{Name: "C"},
	})
	assert.Equal(t, 1, inv.GPUEquippedCount())
}

func TestGPUEquipped_OriginalOrderAndTrimmed(t *testing.T) {
	inv := mustInventory(t, []inventory.Machine{
		{Name: "usenix", GPU: " NVIDIA RTX A6000 "},
		{Name: "isca"},
		{Name: "sharcserver1", GPU: "AMD RX7990 XT"},
	})

	got := inv.GPUEquipped()
	require.Len(t, got, 2)
	assert.Equal(t, inventory.GPUMachine{Name: "usenix", GPU: "NVIDIA RTX A6000"}, got[0])
	assert.Equal(t, inventory.GPUMachine{Name: "sharcserver1", GPU: "AMD RX7990 XT"}, got[1])
}

func TestTopByThreads(t *testing.T) {
	inv := threeMachines(t)

	top, err := inv.TopByThreads(1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "B", top[0].Machine.Name)
	assert.Equal(t, 128.0, top[0].Value)
	require.NotNil(t, top[0].Share)
	assert.InDelta(t, 44.4, *top[0].Share, 0.05)
}

func TestTopByRAM_ExcludesAbsentRAM(t *testing.T) {
	inv := threeMachines(t)

	top, err := inv.TopByRAM(1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	// B has the most threads but no RAM data, so A wins on 128GB.
	assert.Equal(t, "A", top[0].Machine.Name)
	assert.Equal(t, 128.0, top[0].Value)
	require.NotNil(t, top[0].Share)
	assert.InDelta(t, 66.7, *top[0].Share, 0.05)
}

func TestTopByThreads_DescendingStableTies(t *testing.T) {
	inv := mustInventory(t, []inventory.Machine{
		{Name: "first", Threads: 96},
		{Name: "second", Threads: 96},
		{Name: "big", Threads: 512},
		{Name: "third", Threads: 96},
	})

	top, err := inv.TopByThreads(4)
	require.NoError(t, err)
	names := make([]string, len(top))
	for i, r := range top {
		names[i] = r.Machine.Name
	}
	assert.Equal(t, []string{"big", "first", "second", "third"}, names)
}

func TestTopByThreads_NLargerThanInventory(t *testing.T) {
	inv := threeMachines(t)

	top, err := inv.TopByThreads(100)
	require.NoError(t, err)
	assert.Len(t, top, 3)
}

func TestTopByThreads_NegativeN(t *testing.T) {
	inv := threeMachines(t)

	_, err := inv.TopByThreads(-1)
	assert.ErrorIs(t, err, inventory.ErrNegativeN)

	_, err = inv.TopByRAM(-1)
	assert.ErrorIs(t, err, inventory.ErrNegativeN)
}

func TestTopByThreads_SharesSumToHundred(t *testing.T) {
	inv := mustInventory(t, []inventory.Machine{
		{Name: "isca", Threads: 96},
		{Name: "usenix", Threads: 128},
		{Name: "usec", Threads: 48},
		{Name: "dhristi", Threads: 512},
	})

	top, err := inv.TopByThreads(inv.MachineCount())
	require.NoError(t, err)

	sum := 0.0
	for _, r := range top {
		require.NotNil(t, r.Share)
		sum += *r.Share
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
}

// With a zero denominator the share is not a number at all; it must come
// back nil rather than NaN or Inf.
func TestTopByThreads_ZeroTotalHasNoShare(t *testing.T) {
	inv := mustInventory(t, []inventory.Machine{
		{Name: "A", Threads: 0},
		{Name: "B", Threads: 0},
	})

	top, err := inv.TopByThreads(2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	for _, r := range top {
		assert.Nil(t, r.Share)
		assert.False(t, math.IsNaN(r.Value))
	}
}

func TestTopByRAM_ZeroTotalHasNoShare(t *testing.T) {
	inv := mustInventory(t, []inventory.Machine{
		{Name: "A", RAMGB: ramGB(0)},
	})

	top, err := inv.TopByRAM(1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Nil(t, top[0].Share)
}

func TestTopByThreads_ZeroN(t *testing.T) {
	inv := threeMachines(t)

	top, err := inv.TopByThreads(0)
	require.NoError(t, err)
	assert.Empty(t, top)
}
