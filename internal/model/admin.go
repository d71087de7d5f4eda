package model

import "time"

// Admin is a dashboard account. Accounts are seeded from configuration.
type Admin struct {
	ID           int64     `gorm:"primaryKey"`
	Username     string    `gorm:"size:50;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName keeps the singular table name used by existing deployments.
func (Admin) TableName() string { return "admin" }
