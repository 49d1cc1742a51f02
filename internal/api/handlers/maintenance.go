package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/fleet-hub/internal/api/dto"
	"github.com/hugh/fleet-hub/internal/api/middleware"
	"github.com/hugh/fleet-hub/internal/database/models"
	"github.com/hugh/fleet-hub/internal/tenant"
)

type MaintenanceHandler struct{}

func NewMaintenanceHandler() *MaintenanceHandler {
	return &MaintenanceHandler{}
}

type CreateMaintenanceRequest struct {
	VehicleID       uuid.UUID  `json:"vehicle_id"`
	MaintenanceType string     `json:"maintenance_type"`
	IntervalMiles   *int       `json:"interval_miles,omitempty"`
	IntervalDays    *int       `json:"interval_days,omitempty"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	DueMiles        *int       `json:"due_miles,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}

func (r CreateMaintenanceRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.VehicleID == uuid.Nil {
		errs["vehicle_id"] = "Vehicle is required"
	}
	if r.MaintenanceType == "" {
		errs["maintenance_type"] = "Maintenance type is required"
	}
	return errs
}

func (h *MaintenanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	rctx := middleware.GetContext(r.Context())

	var req CreateMaintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	var vehicle models.Vehicle
	if err := rctx.Scope.FindByID(r.Context(), &vehicle, req.VehicleID); err != nil {
		writeVehicleLookupError(w, err)
		return
	}

	sched := models.ScheduledMaintenance{
		VehicleID:       vehicle.ID,
		MaintenanceType: req.MaintenanceType,
		IntervalMiles:   req.IntervalMiles,
		IntervalDays:    req.IntervalDays,
		DueDate:         req.DueDate,
		DueMiles:        req.DueMiles,
		Notes:           req.Notes,
	}
	if err := rctx.Scope.Create(r.Context(), &sched); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create maintenance task"})
		return
	}

	writeJSON(w, http.StatusCreated, sched)
}

func (h *MaintenanceHandler) List(w http.ResponseWriter, r *http.Request) {
	rctx := middleware.GetContext(r.Context())

	var tasks []models.ScheduledMaintenance
	var err error
	if r.URL.Query().Get("open") == "true" {
		err = rctx.Scope.FindOrdered(r.Context(), &tasks, "created_at DESC",
			"completed IS NULL OR completed = ?", false)
	} else {
		err = rctx.Scope.FindOrdered(r.Context(), &tasks, "created_at DESC")
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch maintenance tasks"})
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *MaintenanceHandler) Complete(w http.ResponseWriter, r *http.Request) {
	rctx := middleware.GetContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid maintenance ID"})
		return
	}

	var sched models.ScheduledMaintenance
	if err := rctx.Scope.FindByID(r.Context(), &sched, id); err != nil {
		if errors.Is(err, tenant.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Maintenance task not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch maintenance task"})
		return
	}

	if sched.Completed != nil && *sched.Completed {
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Maintenance task already completed"})
		return
	}

	done := true
	now := time.Now()
	sched.Completed = &done
	sched.CompletedAt = &now

	if err := rctx.Scope.Save(r.Context(), &sched); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to complete maintenance task"})
		return
	}

	writeJSON(w, http.StatusOK, sched)
}
