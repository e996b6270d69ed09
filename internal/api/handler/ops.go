package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/whenpress/whenpress/internal/api/models"
	"github.com/whenpress/whenpress/internal/api/response"
	"github.com/whenpress/whenpress/internal/device"
	"github.com/whenpress/whenpress/internal/kv"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	store     kv.Store
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, store kv.Store) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		store:     store,
	}
}

// HealthCheck handles GET /healthz - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now(),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /readyz - readiness check. Probes the store;
// an empty store (no registry yet) is still ready.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.Get(r.Context(), device.RegistryKey); err != nil && !errors.Is(err, kv.ErrNotFound) {
		health := models.Health{
			Status: models.HealthStatusDegraded,
			Time:   time.Now(),
			Details: map[string]interface{}{
				"store": "unreachable",
			},
		}
		response.JSON(w, r, http.StatusServiceUnavailable, health)
		return
	}

	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now(),
	}
	response.JSON(w, r, http.StatusOK, health)
}
