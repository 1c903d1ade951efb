// Package web serves the dashboard page and the JSON API over the machine
// inventory. It only reads the immutable inventory, so every handler is safe
// for concurrent use.
package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/casperlab/infradash/internal/inventory"
)

// defaultTopN matches the dashboard's "Top 3" insight lists.
const defaultTopN = 3

// Handler holds shared dependencies for HTTP handlers. Metrics, when set,
// is served at /metrics.
type Handler struct {
	Inv     *inventory.Inventory
	Title   string
	Version string
	Commit  string
	Metrics http.Handler
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.Version,
		"commit":  h.Commit,
	})
}

// Summary is the aggregate view served by GET /api/v1/summary.
type Summary struct {
	MachineCount    int     `json:"machine_count"`
	GPUMachineCount int     `json:"gpu_machine_count"`
	TotalThreads    int     `json:"total_threads"`
	TotalRAMGB      float64 `json:"total_ram_gb"`
}

// GetSummary handles GET /api/v1/summary.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Summary{
		MachineCount:    h.Inv.MachineCount(),
		GPUMachineCount: h.Inv.GPUEquippedCount(),
		TotalThreads:    h.Inv.TotalThreads(),
		TotalRAMGB:      h.Inv.TotalRAMGB(),
	})
}

// ListMachines handles GET /api/v1/machines.
func (h *Handler) ListMachines(w http.ResponseWriter, r *http.Request) {
	machines := h.Inv.Machines()
	if machines == nil {
		machines = []inventory.Machine{}
	}
	writeJSON(w, http.StatusOK, machines)
}

// TopMachines handles GET /api/v1/machines/top with optional ?by=threads|ram
// and ?n=N query parameters.
func (h *Handler) TopMachines(w http.ResponseWriter, r *http.Request) {
	n := defaultTopN
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "n must be an integer")
			return
		}
		n = parsed
	}

	by := r.URL.Query().Get("by")
	if by == "" {
		by = "threads"
	}

	var (
		ranked []inventory.Ranked
		err    error
	)
	switch by {
	case "threads":
		ranked, err = h.Inv.TopByThreads(n)
	case "ram":
		ranked, err = h.Inv.TopByRAM(n)
	default:
		writeError(w, http.StatusBadRequest, "by must be \"threads\" or \"ram\"")
		return
	}
	if errors.Is(err, inventory.ErrNegativeN) {
		writeError(w, http.StatusBadRequest, "n must be non-negative")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to rank machines")
		return
	}

	if ranked == nil {
		ranked = []inventory.Ranked{}
	}
	writeJSON(w, http.StatusOK, ranked)
}

// GPUMachines handles GET /api/v1/machines/gpu.
func (h *Handler) GPUMachines(w http.ResponseWriter, r *http.Request) {
	machines := h.Inv.GPUEquipped()
	if machines == nil {
		machines = []inventory.GPUMachine{}
	}
	writeJSON(w, http.StatusOK, machines)
}
