package handlers

import (
	"net/http"
	"time"

	"github.com/hugh/fleet-hub/internal/api/dto"
	"github.com/hugh/fleet-hub/internal/api/middleware"
	"github.com/hugh/fleet-hub/internal/database/models"
)

// DashboardHandler returns the manager overview as JSON aggregates.
type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

type DashboardResponse struct {
	Vehicles        int64          `json:"vehicles"`
	ActiveVehicles  int64          `json:"active_vehicles"`
	OpenIssues      int64          `json:"open_issues"`
	CriticalIssues  int64          `json:"critical_issues"`
	OpenMaintenance int64          `json:"open_maintenance"`
	LogsLast7Days   int64          `json:"logs_last_7_days"`
	RecentIssues    []models.Issue `json:"recent_issues"`
}

func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	rctx := middleware.GetContext(r.Context())
	ctx := r.Context()
	scope := rctx.Scope

	var resp DashboardResponse
	var err error

	if resp.Vehicles, err = scope.Count(ctx, &models.Vehicle{}); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load dashboard"})
		return
	}
	if resp.ActiveVehicles, err = scope.Count(ctx, &models.Vehicle{}, "status = ?", models.VehicleStatusActive); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load dashboard"})
		return
	}
	if resp.OpenIssues, err = scope.Count(ctx, &models.Issue{}, "status != ?", models.IssueStatusResolved); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load dashboard"})
		return
	}
	if resp.CriticalIssues, err = scope.Count(ctx, &models.Issue{},
		"status != ? AND severity = ?", models.IssueStatusResolved, models.IssueSeverityCritical); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load dashboard"})
		return
	}
	if resp.OpenMaintenance, err = scope.Count(ctx, &models.ScheduledMaintenance{},
		"completed IS NULL OR completed = ?", false); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load dashboard"})
		return
	}
	weekAgo := time.Now().AddDate(0, 0, -7)
	if resp.LogsLast7Days, err = scope.Count(ctx, &models.UsageLog{}, "created_at >= ?", weekAgo); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load dashboard"})
		return
	}

	var recent []models.Issue
	if err = scope.FindOrdered(ctx, &recent, "created_at DESC",
		"status != ?", models.IssueStatusResolved); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load dashboard"})
		return
	}
	if len(recent) > 10 {
		recent = recent[:10]
	}
	resp.RecentIssues = recent

	writeJSON(w, http.StatusOK, resp)
}
