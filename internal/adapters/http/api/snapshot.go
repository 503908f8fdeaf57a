package api

import (
	"net/http"
)

// MetricsHandler serves the live metrics snapshot.
type MetricsHandler struct {
	deps Dependencies
}

// NewMetricsHandler creates a new metrics snapshot handler.
func NewMetricsHandler(deps Dependencies) *MetricsHandler {
	return &MetricsHandler{deps: deps}
}

// HandleMetrics handles GET /api/metrics. The request_count is the value
// this request received from the counter, so it includes the request itself.
// A failed host query answers 500 with {"error": "..."}.
func (h *MetricsHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	count, ok := RequestCountFromContext(r.Context())
	if !ok {
		count = h.deps.RequestCount()
	}

	snap, err := h.deps.Snapshot(r.Context(), count)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
