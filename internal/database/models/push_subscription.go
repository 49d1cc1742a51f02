package models

import "github.com/google/uuid"

// PushSubscription stores a browser push endpoint for a user. The p256dh and
// auth values are age-encrypted at rest; delivery itself happens in an
// external push service.
type PushSubscription struct {
	Base
	FranchiseID     uuid.UUID `gorm:"type:uuid;index;not null" json:"franchise_id"`
	UserID          uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Endpoint        string    `gorm:"type:text;not null" json:"endpoint"`
	P256dhEncrypted string    `gorm:"type:text" json:"-"`
	AuthEncrypted   string    `gorm:"type:text" json:"-"`
	IsActive        bool      `gorm:"index" json:"is_active"`
}

func (PushSubscription) TableName() string {
	return "push_subscriptions"
}

func (p *PushSubscription) SetFranchiseID(id uuid.UUID) { p.FranchiseID = id }
