// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"time"
)

// HealthHandler handles liveness and detailed health requests.
type HealthHandler struct {
	deps Dependencies
	now  func() time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps Dependencies, now func() time.Time) *HealthHandler {
	if now == nil {
		now = time.Now
	}
	return &HealthHandler{deps: deps, now: now}
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// HandleHealth handles GET /health. It always answers 200.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "OK", Timestamp: h.now().UTC()})
}

// HandleHealthDetailed handles GET /api/health-detailed.
func (h *HealthHandler) HandleHealthDetailed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.HealthReport())
}
