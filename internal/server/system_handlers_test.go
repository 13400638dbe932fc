package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aristath/frontier/internal/modules/optimization"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandlers_HandleSystemStatus(t *testing.T) {
	store := optimization.NewSnapshotStore()
	h := NewSystemHandlers(zerolog.Nop(), store)
	h.cpuPercent = func() (float64, error) { return 12.5, nil }
	h.ramPercent = func() (float64, error) { return 40, nil }

	rec := httptest.NewRecorder()
	h.HandleSystemStatus(rec, httptest.NewRequest(http.MethodGet, "/api/system/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SystemStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, 12.5, resp.CPUPercent)
	assert.Equal(t, 40.0, resp.RAMPercent)
	assert.Positive(t, resp.Goroutines)
	assert.NotEmpty(t, resp.GoVersion)
	assert.Nil(t, resp.LatestFrontier)

	generated := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
	store.Save(&optimization.Frontier{ID: "f1", GeneratedAt: generated, Points: make([]optimization.Point, 3), Failed: 1})

	rec = httptest.NewRecorder()
	h.HandleSystemStatus(rec, httptest.NewRequest(http.MethodGet, "/api/system/status", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.LatestFrontier)
	assert.Equal(t, "f1", resp.LatestFrontier.ID)
	assert.Equal(t, 3, resp.LatestFrontier.Points)
	assert.Equal(t, 1, resp.LatestFrontier.Failed)
	assert.True(t, generated.Equal(resp.LatestFrontier.GeneratedAt))
}

func TestSystemHandlers_StatsFailuresReportZero(t *testing.T) {
	h := NewSystemHandlers(zerolog.Nop(), nil)
	h.cpuPercent = func() (float64, error) { return 99, errors.New("no /proc") }
	h.ramPercent = func() (float64, error) { return 99, errors.New("no /proc") }

	cpuPct, ramPct := h.getSystemStats()
	assert.Zero(t, cpuPct)
	assert.Zero(t, ramPct)
}
