package models

import "github.com/google/uuid"

// Inspection is a submitted pre-trip checklist. Checklist holds the raw
// item -> pass/fail map as JSON; the server never interprets individual items.
type Inspection struct {
	Base
	FranchiseID uuid.UUID `gorm:"type:uuid;index;not null" json:"franchise_id"`
	VehicleID   uuid.UUID `gorm:"type:uuid;index;not null" json:"vehicle_id"`
	DriverID    uuid.UUID `gorm:"type:uuid;index;not null" json:"driver_id"`
	Checklist   string    `gorm:"type:jsonb;default:'{}'" json:"checklist"`
	Passed      bool      `json:"passed"`
	Odometer    int       `json:"odometer"`
	Notes       string    `gorm:"type:text" json:"notes,omitempty"`

	// Relationships
	Vehicle *Vehicle `gorm:"foreignKey:VehicleID" json:"-"`
}

func (Inspection) TableName() string {
	return "inspections"
}

func (i *Inspection) SetFranchiseID(id uuid.UUID) { i.FranchiseID = id }
