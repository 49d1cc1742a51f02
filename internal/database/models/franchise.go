package models

import "github.com/google/uuid"

type Franchise struct {
	Base
	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Plan        string `gorm:"default:'free'" json:"plan"` // free, pro, enterprise
	MaxVehicles int    `gorm:"default:25" json:"max_vehicles"`
	MaxDrivers  int    `gorm:"default:50" json:"max_drivers"`

	// Relationships
	Memberships []FranchiseMembership `gorm:"foreignKey:FranchiseID" json:"-"`
	Vehicles    []Vehicle             `gorm:"foreignKey:FranchiseID" json:"-"`
}

func (Franchise) TableName() string {
	return "franchises"
}

// FranchiseMembership links a user to a franchise with a role. A user may
// hold memberships in several franchises; the earliest-created active one
// is the acting context for their requests.
type FranchiseMembership struct {
	Base
	UserID      uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_user_franchise" json:"user_id"`
	FranchiseID uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_user_franchise" json:"franchise_id"`
	Role        string    `gorm:"not null;default:'driver'" json:"role"` // owner, manager, driver
	// No gorm default: a `default` tag makes gorm drop the zero value on
	// insert, so an inactive membership could never be created. Creation
	// sites set this explicitly.
	IsActive bool `gorm:"index" json:"is_active"`

	// Relationships
	User      *User      `gorm:"foreignKey:UserID" json:"-"`
	Franchise *Franchise `gorm:"foreignKey:FranchiseID" json:"franchise,omitempty"`
}

func (FranchiseMembership) TableName() string {
	return "franchise_memberships"
}
