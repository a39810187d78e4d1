package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus   `json:"status"`
	Message    string         `json:"message,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CheckedAt  time.Time      `json:"checked_at"`
	DurationMs int64          `json:"duration_ms"`
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// LoadState reports whether a stateful service has hydrated from the store.
type LoadState interface {
	Loaded() bool
}

type HealthHandler struct {
	store    Pinger
	driver   string
	services map[string]LoadState
}

func NewHealthHandler(store Pinger, driver string, services map[string]LoadState) *HealthHandler {
	return &HealthHandler{store: store, driver: driver, services: services}
}

// pingHandler only says the process is up.
func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "OK"})
}

// healthCheckHandler pings the store and reports which services are loaded.
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.store.Ping(ctx)

	storeEntry := CheckEntry{
		Status:     HealthHealthy,
		CheckedAt:  time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		storeEntry.Status = HealthUnhealthy
		storeEntry.Message = err.Error()
	}

	resp := HealthResponse{
		Status:     storeEntry.Status,
		CheckedAt:  time.Now(),
		Components: map[string]CheckEntry{h.driver: storeEntry},
	}

	loaded := map[string]any{}
	servicesEntry := CheckEntry{Status: HealthHealthy, CheckedAt: time.Now(), Details: loaded}
	for name, svc := range h.services {
		loaded[name] = svc.Loaded()
		if !svc.Loaded() {
			servicesEntry.Status = HealthUnhealthy
			servicesEntry.Message = "store not loaded"
		}
	}
	resp.Components["services"] = servicesEntry
	if servicesEntry.Status == HealthUnhealthy {
		resp.Status = HealthUnhealthy
	}

	statusCode := http.StatusOK
	if resp.Status == HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}
