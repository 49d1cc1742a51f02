package models

import "github.com/google/uuid"

type VehicleStatus string

const (
	VehicleStatusActive  VehicleStatus = "active"
	VehicleStatusInShop  VehicleStatus = "in_shop"
	VehicleStatusRetired VehicleStatus = "retired"
)

type Vehicle struct {
	Base
	FranchiseID  uuid.UUID     `gorm:"type:uuid;index;not null" json:"franchise_id"`
	Name         string        `gorm:"size:255;not null" json:"name"`
	VIN          string        `gorm:"size:17;index" json:"vin,omitempty"`
	LicensePlate string        `gorm:"size:16" json:"license_plate,omitempty"`
	Make         string        `json:"make,omitempty"`
	Model        string        `json:"model,omitempty"`
	Year         int           `json:"year,omitempty"`
	Odometer     int           `gorm:"default:0" json:"odometer"`
	Status       VehicleStatus `gorm:"default:'active';index" json:"status"`

	// Relationships
	Franchise *Franchise `gorm:"foreignKey:FranchiseID" json:"-"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

// SetFranchiseID implements tenant scoping for creates.
func (v *Vehicle) SetFranchiseID(id uuid.UUID) { v.FranchiseID = id }
