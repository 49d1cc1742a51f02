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

type IssueHandler struct{}

func NewIssueHandler() *IssueHandler {
	return &IssueHandler{}
}

type CreateIssueRequest struct {
	VehicleID   uuid.UUID `json:"vehicle_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Severity    string    `json:"severity,omitempty"`
}

func (r CreateIssueRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.VehicleID == uuid.Nil {
		errs["vehicle_id"] = "Vehicle is required"
	}
	if r.Title == "" {
		errs["title"] = "Title is required"
	}
	if r.Severity != "" {
		switch models.IssueSeverity(r.Severity) {
		case models.IssueSeverityLow, models.IssueSeverityMedium,
			models.IssueSeverityHigh, models.IssueSeverityCritical:
		default:
			errs["severity"] = "Invalid severity"
		}
	}
	return errs
}

func (h *IssueHandler) Create(w http.ResponseWriter, r *http.Request) {
	rctx := middleware.GetContext(r.Context())

	var req CreateIssueRequest
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

	severity := models.IssueSeverity(req.Severity)
	if severity == "" {
		severity = models.IssueSeverityMedium
	}

	issue := models.Issue{
		VehicleID:   vehicle.ID,
		ReporterID:  rctx.UserID,
		Title:       req.Title,
		Description: req.Description,
		Severity:    severity,
		Status:      models.IssueStatusOpen,
	}
	if err := rctx.Scope.Create(r.Context(), &issue); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create issue"})
		return
	}

	writeJSON(w, http.StatusCreated, issue)
}

func (h *IssueHandler) List(w http.ResponseWriter, r *http.Request) {
	rctx := middleware.GetContext(r.Context())

	var issues []models.Issue
	var err error
	if status := r.URL.Query().Get("status"); status != "" {
		err = rctx.Scope.FindOrdered(r.Context(), &issues, "created_at DESC", "status = ?", status)
	} else {
		err = rctx.Scope.FindOrdered(r.Context(), &issues, "created_at DESC")
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch issues"})
		return
	}

	writeJSON(w, http.StatusOK, issues)
}

func (h *IssueHandler) Get(w http.ResponseWriter, r *http.Request) {
	rctx := middleware.GetContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid issue ID"})
		return
	}

	var issue models.Issue
	if err := rctx.Scope.FindByID(r.Context(), &issue, id); err != nil {
		if errors.Is(err, tenant.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Issue not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch issue"})
		return
	}

	writeJSON(w, http.StatusOK, issue)
}

type ResolveIssueRequest struct {
	Resolution string `json:"resolution,omitempty"`
}

func (h *IssueHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	rctx := middleware.GetContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid issue ID"})
		return
	}

	var issue models.Issue
	if err := rctx.Scope.FindByID(r.Context(), &issue, id); err != nil {
		if errors.Is(err, tenant.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Issue not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch issue"})
		return
	}

	if issue.Status == models.IssueStatusResolved {
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Issue already resolved"})
		return
	}

	// Resolution text is optional; an empty or malformed body means none.
	var req ResolveIssueRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	now := time.Now()
	issue.Status = models.IssueStatusResolved
	issue.ResolvedBy = &rctx.UserID
	issue.ResolvedAt = &now
	issue.Resolution = req.Resolution

	if err := rctx.Scope.Save(r.Context(), &issue); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to resolve issue"})
		return
	}

	writeJSON(w, http.StatusOK, issue)
}
