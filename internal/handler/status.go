package handler

import (
	"net/http"
	"runtime"
	"time"

	"marketplace-api/pkg/response"
)

// StatusHandler serves the service status endpoint.
type StatusHandler struct {
	service   string
	version   string
	startTime time.Time
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(service, version string) *StatusHandler {
	return &StatusHandler{
		service:   service,
		version:   version,
		startTime: time.Now(),
	}
}

// StatusResponse represents the status endpoint body.
type StatusResponse struct {
	Service       string  `json:"service"`
	Version       string  `json:"version"`
	Status        string  `json:"status"`
	Timestamp     string  `json:"timestamp"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	MemoryMB      float64 `json:"memory_mb"`
	Goroutines    int     `json:"goroutines"`
}

// Status handles GET /api/status
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	memoryMB := float64(memStats.Alloc) / 1024 / 1024

	resp := StatusResponse{
		Service:       h.service,
		Version:       h.version,
		Status:        "ok",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		MemoryMB:      float64(int(memoryMB*100)) / 100,
		Goroutines:    runtime.NumGoroutine(),
	}

	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	response.OK(w, resp)
}
