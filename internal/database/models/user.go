package models

type User struct {
	Base
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `json:"name"`
	Phone        string `json:"phone,omitempty"`
	IsActive     bool   `json:"is_active"`

	// Relationships
	Memberships []FranchiseMembership `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
