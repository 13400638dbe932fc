package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/aristath/frontier/internal/modules/optimization"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// SnapshotSource exposes the latest computed frontier.
type SnapshotSource interface {
	Latest() (*optimization.Frontier, bool)
}

// SystemHandlers handles system monitoring endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	snapshots   SnapshotSource
	startupTime time.Time
	cpuPercent  func() (float64, error)
	ramPercent  func() (float64, error)
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, snapshots SnapshotSource) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("handler", "system").Logger(),
		snapshots:   snapshots,
		startupTime: time.Now(),
		cpuPercent:  sampleCPU,
		ramPercent:  sampleRAM,
	}
}

// SystemStatusResponse is the body of GET /api/system/status
type SystemStatusResponse struct {
	Status         string          `json:"status"`
	UptimeHours    float64         `json:"uptime_hours"`
	CPUPercent     float64         `json:"cpu_percent"`
	RAMPercent     float64         `json:"ram_percent"`
	Goroutines     int             `json:"goroutines"`
	GoVersion      string          `json:"go_version"`
	LatestFrontier *FrontierStatus `json:"latest_frontier,omitempty"`
	Timestamp      string          `json:"timestamp"`
}

// FrontierStatus summarizes the latest stored frontier.
type FrontierStatus struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Points      int       `json:"points"`
	Failed      int       `json:"failed"`
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	cpuPercent, ramPercent := h.getSystemStats()
	response := SystemStatusResponse{
		Status:      "healthy",
		UptimeHours: time.Since(h.startupTime).Hours(),
		CPUPercent:  cpuPercent,
		RAMPercent:  ramPercent,
		Goroutines:  runtime.NumGoroutine(),
		GoVersion:   runtime.Version(),
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	if h.snapshots != nil {
		if f, ok := h.snapshots.Latest(); ok {
			response.LatestFrontier = &FrontierStatus{
				ID:          f.ID,
				GeneratedAt: f.GeneratedAt,
				Points:      len(f.Points),
				Failed:      f.Failed,
			}
		}
	}

	writeJSON(w, http.StatusOK, response, h.log)
}

// getSystemStats returns CPU and RAM usage percentages, zero when unavailable.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := h.cpuPercent()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = 0
	}
	ramPercent, err := h.ramPercent()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		ramPercent = 0
	}
	return cpuPercent, ramPercent
}

// sampleCPU averages all CPUs over 100ms to keep the endpoint fast.
func sampleCPU() (float64, error) {
	pct, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		return 0, err
	}
	if len(pct) == 0 {
		return 0, nil
	}
	return pct[0], nil
}

func sampleRAM() (float64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.UsedPercent, nil
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}, log zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
