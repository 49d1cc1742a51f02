package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/fleet-hub/internal/api/dto"
	"github.com/hugh/fleet-hub/internal/api/middleware"
	"github.com/hugh/fleet-hub/internal/database/models"
)

type InspectionHandler struct{}

func NewInspectionHandler() *InspectionHandler {
	return &InspectionHandler{}
}

type CreateInspectionRequest struct {
	Checklist map[string]bool `json:"checklist"`
	Odometer  int             `json:"odometer,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

func (h *InspectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	rctx := middleware.GetContext(r.Context())

	vehicleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid vehicle ID"})
		return
	}

	var vehicle models.Vehicle
	if err := rctx.Scope.FindByID(r.Context(), &vehicle, vehicleID); err != nil {
		writeVehicleLookupError(w, err)
		return
	}

	var req CreateInspectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if len(req.Checklist) == 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed",
			Details: map[string]string{"checklist": "Checklist is required"}})
		return
	}

	checklistJSON, err := json.Marshal(req.Checklist)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid checklist"})
		return
	}

	passed := true
	for _, ok := range req.Checklist {
		if !ok {
			passed = false
			break
		}
	}

	inspection := models.Inspection{
		VehicleID: vehicle.ID,
		DriverID:  rctx.UserID,
		Checklist: string(checklistJSON),
		Passed:    passed,
		Odometer:  req.Odometer,
		Notes:     req.Notes,
	}
	if err := rctx.Scope.Create(r.Context(), &inspection); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create inspection"})
		return
	}

	writeJSON(w, http.StatusCreated, inspection)
}

func (h *InspectionHandler) List(w http.ResponseWriter, r *http.Request) {
	rctx := middleware.GetContext(r.Context())

	vehicleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid vehicle ID"})
		return
	}

	var vehicle models.Vehicle
	if err := rctx.Scope.FindByID(r.Context(), &vehicle, vehicleID); err != nil {
		writeVehicleLookupError(w, err)
		return
	}

	var inspections []models.Inspection
	if err := rctx.Scope.FindOrdered(r.Context(), &inspections, "created_at DESC", "vehicle_id = ?", vehicle.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch inspections"})
		return
	}

	writeJSON(w, http.StatusOK, inspections)
}
