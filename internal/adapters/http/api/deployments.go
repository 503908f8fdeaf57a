package api

import (
	"net/http"

	"github.com/okian/shipboard/internal/domain/types"
)

// DeploymentHandler serves deployment metadata, history and feature toggles.
type DeploymentHandler struct {
	deps Dependencies
}

// NewDeploymentHandler creates a new deployment handler.
func NewDeploymentHandler(deps Dependencies) *DeploymentHandler {
	return &DeploymentHandler{deps: deps}
}

type historyResponse struct {
	Deployments []types.DeploymentRecord `json:"deployments"`
}

// HandleHistory handles GET /api/deployment-history.
func (h *DeploymentHandler) HandleHistory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, historyResponse{Deployments: h.deps.DeploymentHistory()})
}

// HandleToggleFeature handles POST /api/toggle-feature.
func (h *DeploymentHandler) HandleToggleFeature(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.ToggleFeature(r.Context()))
}

// HandleSystemInfo handles GET /api/system-info.
func (h *DeploymentHandler) HandleSystemInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.SystemInfo(r.Context()))
}
