package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/fleet-hub/internal/api/dto"
	"github.com/hugh/fleet-hub/internal/api/middleware"
	"github.com/hugh/fleet-hub/internal/api/validation"
	"github.com/hugh/fleet-hub/internal/database/models"
	"github.com/hugh/fleet-hub/internal/tenant"
)

type VehicleHandler struct{}

func NewVehicleHandler() *VehicleHandler {
	return &VehicleHandler{}
}

type CreateVehicleRequest struct {
	Name         string `json:"name"`
	VIN          string `json:"vin,omitempty"`
	LicensePlate string `json:"license_plate,omitempty"`
	Make         string `json:"make,omitempty"`
	Model        string `json:"model,omitempty"`
	Year         int    `json:"year,omitempty"`
	Odometer     int    `json:"odometer,omitempty"`
}

func (r CreateVehicleRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.Name == "" {
		errs["name"] = "Name is required"
	}
	if r.VIN != "" && !validation.IsValidVIN(r.VIN) {
		errs["vin"] = "VIN must be 17 characters (no I, O, or Q)"
	}
	if r.Odometer < 0 {
		errs["odometer"] = "Odometer cannot be negative"
	}
	return errs
}

type UpdateVehicleRequest struct {
	Name         *string `json:"name,omitempty"`
	LicensePlate *string `json:"license_plate,omitempty"`
	Odometer     *int    `json:"odometer,omitempty"`
	Status       *string `json:"status,omitempty"`
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	rctx := middleware.GetContext(r.Context())

	var req CreateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	vehicle := models.Vehicle{
		Name:         req.Name,
		VIN:          req.VIN,
		LicensePlate: req.LicensePlate,
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		Odometer:     req.Odometer,
		Status:       models.VehicleStatusActive,
	}
	if err := rctx.Scope.Create(r.Context(), &vehicle); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create vehicle"})
		return
	}

	writeJSON(w, http.StatusCreated, vehicle)
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	rctx := middleware.GetContext(r.Context())

	var vehicles []models.Vehicle
	if err := rctx.Scope.FindOrdered(r.Context(), &vehicles, "created_at DESC"); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch vehicles"})
		return
	}

	writeJSON(w, http.StatusOK, vehicles)
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	rctx := middleware.GetContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid vehicle ID"})
		return
	}

	var vehicle models.Vehicle
	if err := rctx.Scope.FindByID(r.Context(), &vehicle, id); err != nil {
		writeVehicleLookupError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	rctx := middleware.GetContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid vehicle ID"})
		return
	}

	var vehicle models.Vehicle
	if err := rctx.Scope.FindByID(r.Context(), &vehicle, id); err != nil {
		writeVehicleLookupError(w, err)
		return
	}

	var req UpdateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.Name != nil {
		vehicle.Name = *req.Name
	}
	if req.LicensePlate != nil {
		vehicle.LicensePlate = *req.LicensePlate
	}
	if req.Odometer != nil {
		if *req.Odometer < vehicle.Odometer {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Odometer cannot decrease"})
			return
		}
		vehicle.Odometer = *req.Odometer
	}
	if req.Status != nil {
		switch models.VehicleStatus(*req.Status) {
		case models.VehicleStatusActive, models.VehicleStatusInShop, models.VehicleStatusRetired:
			vehicle.Status = models.VehicleStatus(*req.Status)
		default:
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid status"})
			return
		}
	}

	if err := rctx.Scope.Save(r.Context(), &vehicle); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update vehicle"})
		return
	}

	writeJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	rctx := middleware.GetContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid vehicle ID"})
		return
	}

	n, err := rctx.Scope.Delete(r.Context(), &models.Vehicle{}, "id = ?", id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete vehicle"})
		return
	}
	if n == 0 {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Vehicle not found"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Vehicle deleted"})
}

// writeVehicleLookupError keeps "not ours" and "does not exist"
// indistinguishable to the client.
func writeVehicleLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, tenant.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Vehicle not found"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch vehicle"})
}
