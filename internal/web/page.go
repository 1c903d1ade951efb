package web

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/casperlab/infradash/internal/inventory"
)

//go:embed dashboard.html.tmpl
var dashboardTmpl string

var dashboardPage = template.Must(template.New("dashboard").Parse(dashboardTmpl))

// chartSlice is one wedge of a pie chart, in the shape ECharts expects.
type chartSlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// rankedRow is one line of a "Top N" insight list.
type rankedRow struct {
	Name   string
	Detail string
}

// machineRow is one row of the full inventory table, with absent values
// already rendered.
type machineRow struct {
	Name     string
	Location string
	Threads  string
	NVMe     string
	Disk     string
	RAM      string
	Swap     string
	GPU      string
}

type pageData struct {
	Title        string
	TotalThreads string
	TotalRAM     string
	MachineCount int
	GPUCount     int
	TopThreads   []rankedRow
	TopRAM       []rankedRow
	GPUMachines  []inventory.GPUMachine
	Machines     []machineRow
	ThreadsData  template.JS
	RAMData      template.JS
	Version      string
}

// shareLabel renders a percentage share, or "n/a" when the share is
// undefined because the total is zero.
func shareLabel(share *float64) string {
	if share == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *share)
}

// Dashboard handles GET / — the server-rendered dashboard page.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data, err := h.buildPageData()
	if err != nil {
		slog.Error("failed to build dashboard data", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render dashboard")
		return
	}

	// Render to a buffer first so a template failure yields a clean 500
	// instead of a half-written page.
	var buf bytes.Buffer
	if err := dashboardPage.Execute(&buf, data); err != nil {
		slog.Error("failed to render dashboard", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render dashboard")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes()) //nolint:errcheck
}

func (h *Handler) buildPageData() (pageData, error) {
	topThreads, err := h.Inv.TopByThreads(defaultTopN)
	if err != nil {
		return pageData{}, err
	}
	topRAM, err := h.Inv.TopByRAM(defaultTopN)
	if err != nil {
		return pageData{}, err
	}

	// Initialized non-nil so an empty inventory serializes as [] not null.
	threadSlices := []chartSlice{}
	ramSlices := []chartSlice{}
	var rows []machineRow
	for _, m := range h.Inv.Machines() {
		threadSlices = append(threadSlices, chartSlice{Name: m.Name, Value: float64(m.Threads)})

		ram := "n/a"
		if m.HasRAM() {
			ramSlices = append(ramSlices, chartSlice{Name: m.Name, Value: *m.RAMGB})
			ram = humanize.Commaf(*m.RAMGB) + "GB"
		}

		rows = append(rows, machineRow{
			Name:     m.Name,
			Location: m.Location,
			Threads:  humanize.Comma(int64(m.Threads)),
			NVMe:     m.NVMe,
			Disk:     m.Disk,
			RAM:      ram,
			Swap:     m.Swap,
			GPU:      m.GPUModel(),
		})
	}

	threadsJSON, err := json.Marshal(threadSlices)
	if err != nil {
		return pageData{}, err
	}
	ramJSON, err := json.Marshal(ramSlices)
	if err != nil {
		return pageData{}, err
	}

	threadRows := make([]rankedRow, 0, len(topThreads))
	for _, r := range topThreads {
		threadRows = append(threadRows, rankedRow{
			Name:   r.Machine.Name,
			Detail: fmt.Sprintf("%s threads (%s)", humanize.Comma(int64(r.Machine.Threads)), shareLabel(r.Share)),
		})
	}
	ramRows := make([]rankedRow, 0, len(topRAM))
	for _, r := range topRAM {
		ramRows = append(ramRows, rankedRow{
			Name:   r.Machine.Name,
			Detail: fmt.Sprintf("%sGB (%s)", humanize.Commaf(r.Value), shareLabel(r.Share)),
		})
	}

	return pageData{
		Title:        h.Title,
		TotalThreads: humanize.Comma(int64(h.Inv.TotalThreads())),
		TotalRAM:     humanize.Commaf(h.Inv.TotalRAMGB()) + "GB",
		MachineCount: h.Inv.MachineCount(),
		GPUCount:     h.Inv.GPUEquippedCount(),
		TopThreads:   threadRows,
		TopRAM:       ramRows,
		GPUMachines:  h.Inv.GPUEquipped(),
		Machines:     rows,
		ThreadsData:  template.JS(threadsJSON),
		RAMData:      template.JS(ramJSON),
		Version:      h.Version,
	}, nil
}
