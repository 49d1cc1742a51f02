package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hugh/fleet-hub/internal/api/dto"
	"github.com/hugh/fleet-hub/internal/api/middleware"
	"github.com/hugh/fleet-hub/internal/database/models"
	"github.com/hugh/fleet-hub/internal/maintenance"
	"github.com/hugh/fleet-hub/internal/tenant"
)

// PolicyHandler exposes maintenance-policy configuration plus the seed and
// apply operations. All routes behind it are manager-only.
type PolicyHandler struct {
	svc *maintenance.Service
}

func NewPolicyHandler(svc *maintenance.Service) *PolicyHandler {
	return &PolicyHandler{svc: svc}
}

func (h *PolicyHandler) List(w http.ResponseWriter, r *http.Request) {
	rctx := middleware.GetContext(r.Context())

	var policies []models.MaintenancePolicy
	if err := rctx.Scope.FindOrdered(r.Context(), &policies, "maintenance_type ASC"); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch policies"})
		return
	}

	writeJSON(w, http.StatusOK, policies)
}

type UpsertPolicyRequest struct {
	MaintenanceType      string `json:"maintenance_type"`
	DefaultIntervalMiles *int   `json:"default_interval_miles,omitempty"`
	DefaultIntervalDays  *int   `json:"default_interval_days,omitempty"`
	IsActive             *bool  `json:"is_active,omitempty"`
}

// Upsert sets the intervals for one maintenance type, creating the policy if
// seed never discovered it.
func (h *PolicyHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	rctx := middleware.GetContext(r.Context())

	var req UpsertPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	req.MaintenanceType = strings.TrimSpace(req.MaintenanceType)
	if req.MaintenanceType == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed",
			Details: map[string]string{"maintenance_type": "Maintenance type is required"}})
		return
	}
	if req.DefaultIntervalMiles != nil && *req.DefaultIntervalMiles <= 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed",
			Details: map[string]string{"default_interval_miles": "Interval miles must be positive"}})
		return
	}

	var policy models.MaintenancePolicy
	err := rctx.Scope.First(r.Context(), &policy, "maintenance_type = ?", req.MaintenanceType)
	switch {
	case errors.Is(err, tenant.ErrNotFound):
		policy = models.MaintenancePolicy{
			MaintenanceType: req.MaintenanceType,
			IsActive:        true,
		}
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch policy"})
		return
	}

	if req.DefaultIntervalMiles != nil {
		policy.DefaultIntervalMiles = req.DefaultIntervalMiles
	}
	if req.DefaultIntervalDays != nil {
		policy.DefaultIntervalDays = req.DefaultIntervalDays
	}
	if req.IsActive != nil {
		policy.IsActive = *req.IsActive
	}

	if err := rctx.Scope.Save(r.Context(), &policy); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to save policy"})
		return
	}

	writeJSON(w, http.StatusOK, policy)
}

// Seed discovers maintenance types from the franchise's schedule rows and
// creates inactive-interval policy rows for any that have none yet.
func (h *PolicyHandler) Seed(w http.ResponseWriter, r *http.Request) {
	rctx := middleware.GetContext(r.Context())

	result, err := h.svc.Seed(r.Context(), rctx.Scope)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, dto.ErrorResponse{Error: "Failed to seed policies"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Apply propagates configured policy defaults onto open schedule rows that
// are missing intervals.
func (h *PolicyHandler) Apply(w http.ResponseWriter, r *http.Request) {
	rctx := middleware.GetContext(r.Context())

	result, err := h.svc.Apply(r.Context(), rctx.Scope)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, dto.ErrorResponse{Error: "Failed to apply policies"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}
