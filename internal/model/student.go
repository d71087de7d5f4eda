package model

import "time"

// Student is a roster entry. Only rostered students may submit complaints.
type Student struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	StudentNumber string    `gorm:"size:20;uniqueIndex;not null" json:"student_number"`
	NameSurname   string    `gorm:"size:100;not null" json:"name_surname"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}
