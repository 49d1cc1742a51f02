package models

import (
	"time"

	"github.com/google/uuid"
)

// MaintenancePolicy holds a franchise's default service intervals for one
// maintenance type. Unique per (franchise_id, maintenance_type); seeded from
// observed schedule rows and configured by managers.
type MaintenancePolicy struct {
	Base
	FranchiseID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_franchise_mtype" json:"franchise_id"`
	MaintenanceType      string    `gorm:"size:100;not null;uniqueIndex:idx_franchise_mtype" json:"maintenance_type"`
	DefaultIntervalMiles *int      `json:"default_interval_miles,omitempty"`
	DefaultIntervalDays  *int      `json:"default_interval_days,omitempty"`
	IsActive             bool      `gorm:"index" json:"is_active"`
}

func (MaintenancePolicy) TableName() string {
	return "maintenance_policies"
}

func (p *MaintenancePolicy) SetFranchiseID(id uuid.UUID) { p.FranchiseID = id }

// ScheduledMaintenance is one planned service task for a vehicle. Interval
// fields are nullable on purpose: null means "not yet set", and the policy
// applier only ever fills nulls, never overwrites a manual value.
type ScheduledMaintenance struct {
	Base
	FranchiseID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"franchise_id"`
	VehicleID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"vehicle_id"`
	MaintenanceType string     `gorm:"size:100;not null;index" json:"maintenance_type"`
	IntervalMiles   *int       `json:"interval_miles,omitempty"`
	IntervalDays    *int       `json:"interval_days,omitempty"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	DueMiles        *int       `json:"due_miles,omitempty"`
	Completed       *bool      `gorm:"index" json:"completed,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	Notes           string     `gorm:"type:text" json:"notes,omitempty"`

	// Relationships
	Vehicle *Vehicle `gorm:"foreignKey:VehicleID" json:"-"`
}

func (ScheduledMaintenance) TableName() string {
	return "scheduled_maintenance"
}

func (s *ScheduledMaintenance) SetFranchiseID(id uuid.UUID) { s.FranchiseID = id }
