package models

import (
	"time"

	"github.com/google/uuid"
)

type IssueSeverity string

const (
	IssueSeverityLow      IssueSeverity = "low"
	IssueSeverityMedium   IssueSeverity = "medium"
	IssueSeverityHigh     IssueSeverity = "high"
	IssueSeverityCritical IssueSeverity = "critical"
)

type IssueStatus string

const (
	IssueStatusOpen       IssueStatus = "open"
	IssueStatusInProgress IssueStatus = "in_progress"
	IssueStatusResolved   IssueStatus = "resolved"
)

// Issue is a driver-reported vehicle problem worked by managers.
type Issue struct {
	Base
	FranchiseID uuid.UUID     `gorm:"type:uuid;index;not null" json:"franchise_id"`
	VehicleID   uuid.UUID     `gorm:"type:uuid;index;not null" json:"vehicle_id"`
	ReporterID  uuid.UUID     `gorm:"type:uuid;index;not null" json:"reporter_id"`
	Title       string        `gorm:"size:255;not null" json:"title"`
	Description string        `gorm:"type:text" json:"description,omitempty"`
	Severity    IssueSeverity `gorm:"default:'medium';index" json:"severity"`
	Status      IssueStatus   `gorm:"default:'open';index" json:"status"`
	ResolvedBy  *uuid.UUID    `gorm:"type:uuid" json:"resolved_by,omitempty"`
	ResolvedAt  *time.Time    `json:"resolved_at,omitempty"`
	Resolution  string        `gorm:"type:text" json:"resolution,omitempty"`

	// Relationships
	Vehicle *Vehicle `gorm:"foreignKey:VehicleID" json:"-"`
}

func (Issue) TableName() string {
	return "issues"
}

func (i *Issue) SetFranchiseID(id uuid.UUID) { i.FranchiseID = id }
