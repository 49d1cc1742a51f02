package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/fleet-hub/internal/api/dto"
	"github.com/hugh/fleet-hub/internal/api/middleware"
	"github.com/hugh/fleet-hub/internal/api/validation"
	"github.com/hugh/fleet-hub/internal/database/models"
)

// LogHandler covers daily usage logs and fuel entries, both nested under a
// vehicle. The vehicle is always resolved through the scope first, so an id
// from another franchise 404s before any log row is touched.
type LogHandler struct{}

func NewLogHandler() *LogHandler {
	return &LogHandler{}
}

type CreateUsageLogRequest struct {
	LogDate       string `json:"log_date"`
	StartOdometer int    `json:"start_odometer"`
	EndOdometer   int    `json:"end_odometer"`
	Notes         string `json:"notes,omitempty"`
}

func (r CreateUsageLogRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.LogDate == "" {
		errs["log_date"] = "Log date is required"
	} else if !validation.IsValidLogDate(r.LogDate) {
		errs["log_date"] = "Log date must be YYYY-MM-DD"
	}
	if r.EndOdometer < r.StartOdometer {
		errs["end_odometer"] = "End odometer cannot be less than start"
	}
	return errs
}

func (h *LogHandler) CreateUsageLog(w http.ResponseWriter, r *http.Request) {
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

	var req CreateUsageLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	log := models.UsageLog{
		VehicleID:     vehicle.ID,
		DriverID:      rctx.UserID,
		LogDate:       req.LogDate,
		StartOdometer: req.StartOdometer,
		EndOdometer:   req.EndOdometer,
		Notes:         req.Notes,
	}
	if err := rctx.Scope.Create(r.Context(), &log); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create log"})
		return
	}

	// Keep the vehicle odometer current with the latest reading.
	if req.EndOdometer > vehicle.Odometer {
		vehicle.Odometer = req.EndOdometer
		if err := rctx.Scope.Save(r.Context(), &vehicle); err != nil {
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update odometer"})
			return
		}
	}

	writeJSON(w, http.StatusCreated, log)
}

func (h *LogHandler) ListUsageLogs(w http.ResponseWriter, r *http.Request) {
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

	var logs []models.UsageLog
	if err := rctx.Scope.FindOrdered(r.Context(), &logs, "log_date DESC", "vehicle_id = ?", vehicle.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch logs"})
		return
	}

	writeJSON(w, http.StatusOK, logs)
}

type CreateFuelEntryRequest struct {
	Gallons   float64 `json:"gallons"`
	TotalCost float64 `json:"total_cost"`
	Odometer  int     `json:"odometer"`
	Station   string  `json:"station,omitempty"`
}

func (r CreateFuelEntryRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.Gallons <= 0 {
		errs["gallons"] = "Gallons must be positive"
	}
	if r.TotalCost < 0 {
		errs["total_cost"] = "Total cost cannot be negative"
	}
	return errs
}

func (h *LogHandler) CreateFuelEntry(w http.ResponseWriter, r *http.Request) {
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

	var req CreateFuelEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	entry := models.FuelEntry{
		VehicleID: vehicle.ID,
		DriverID:  rctx.UserID,
		Gallons:   req.Gallons,
		TotalCost: req.TotalCost,
		Odometer:  req.Odometer,
		Station:   req.Station,
	}
	if err := rctx.Scope.Create(r.Context(), &entry); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create fuel entry"})
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *LogHandler) ListFuelEntries(w http.ResponseWriter, r *http.Request) {
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

	var entries []models.FuelEntry
	if err := rctx.Scope.FindOrdered(r.Context(), &entries, "created_at DESC", "vehicle_id = ?", vehicle.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch fuel entries"})
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
