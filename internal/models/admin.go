package models

import "time"

// AdminSettings is the single administrative account consulted by the login
// flow. It is pre-provisioned by the seeder, never created through the UI.
type AdminSettings struct {
	ID                 uint   `gorm:"primaryKey"`
	Email              string `gorm:"unique;not null;index"`
	PasswordHash       string `gorm:"not null"` // bcrypt
	HasChangedPassword bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName matches the legacy store layout.
func (AdminSettings) TableName() string { return "admin_settings" }
