package models

import "github.com/google/uuid"

// UsageLog is a driver's daily record of vehicle use.
type UsageLog struct {
	Base
	FranchiseID   uuid.UUID `gorm:"type:uuid;index;not null" json:"franchise_id"`
	VehicleID     uuid.UUID `gorm:"type:uuid;index;not null" json:"vehicle_id"`
	DriverID      uuid.UUID `gorm:"type:uuid;index;not null" json:"driver_id"`
	LogDate       string    `gorm:"size:10;not null;index" json:"log_date"` // YYYY-MM-DD
	StartOdometer int       `json:"start_odometer"`
	EndOdometer   int       `json:"end_odometer"`
	Notes         string    `gorm:"type:text" json:"notes,omitempty"`

	// Relationships
	Vehicle *Vehicle `gorm:"foreignKey:VehicleID" json:"-"`
	Driver  *User    `gorm:"foreignKey:DriverID" json:"-"`
}

func (UsageLog) TableName() string {
	return "usage_logs"
}

func (l *UsageLog) SetFranchiseID(id uuid.UUID) { l.FranchiseID = id }

// FuelEntry records a fuel purchase against a vehicle.
type FuelEntry struct {
	Base
	FranchiseID uuid.UUID `gorm:"type:uuid;index;not null" json:"franchise_id"`
	VehicleID   uuid.UUID `gorm:"type:uuid;index;not null" json:"vehicle_id"`
	DriverID    uuid.UUID `gorm:"type:uuid;index;not null" json:"driver_id"`
	Gallons     float64   `json:"gallons"`
	TotalCost   float64   `json:"total_cost"`
	Odometer    int       `json:"odometer"`
	Station     string    `json:"station,omitempty"`

	// Relationships
	Vehicle *Vehicle `gorm:"foreignKey:VehicleID" json:"-"`
}

func (FuelEntry) TableName() string {
	return "fuel_entries"
}

func (f *FuelEntry) SetFranchiseID(id uuid.UUID) { f.FranchiseID = id }
