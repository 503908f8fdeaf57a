package api

import (
	"net/http"
)

// LoadHandler runs the CPU busy loop on request.
type LoadHandler struct {
	deps Dependencies
}

// NewLoadHandler creates a new load simulation handler.
func NewLoadHandler(deps Dependencies) *LoadHandler {
	return &LoadHandler{deps: deps}
}

// HandleSimulateLoad handles POST /api/simulate-load. The request body is ignored.
func (h *LoadHandler) HandleSimulateLoad(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.SimulateLoad(r.Context())
	if err != nil {
		// Only a cancelled request context stops the loop early.
		writeError(w, http.StatusServiceUnavailable, ErrLoadCancelled)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
