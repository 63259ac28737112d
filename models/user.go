package models

import "gorm.io/gorm"

// User owns all contacts, campaigns and sequences in the account.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Company      string `json:"company"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`

	// Relations
	Contacts  []Contact  `gorm:"foreignKey:UserID" json:"-"`
	Campaigns []Campaign `gorm:"foreignKey:UserID" json:"-"`
	Sequences []Sequence `gorm:"foreignKey:UserID" json:"-"`
	Settings  *UserSettings `gorm:"foreignKey:UserID" json:"-"`
}
