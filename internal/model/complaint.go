package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidStatus is returned for status values outside pending/completed.
var ErrInvalidStatus = errors.New("invalid complaint status")

// Status is the lifecycle state of a complaint.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusPending, StatusCompleted:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
}

// Complaint is a maintenance request filed by a rostered student.
// StudentNumber is a soft reference to Student; there is no foreign key.
type Complaint struct {
	ID int64 `gorm:"primaryKey" json:"id"`
	// ComplaintNumber is sequential within one regional day only.
	ComplaintNumber int        `gorm:"not null" json:"complaint_number"`
	NameSurname     string     `gorm:"size:100;not null" json:"name_surname"`
	StudentNumber   string     `gorm:"size:20;index;not null" json:"student_number"`
	StudentEmail    string     `gorm:"size:100;not null" json:"student_email"`
	BlockNumber     string     `gorm:"size:10;not null" json:"block_number"`
	UnitNumber      string     `gorm:"size:10;not null" json:"unit_number"`
	RoomNumber      string     `gorm:"size:10;not null" json:"room_number"`
	ComplaintText   string     `gorm:"type:text;not null" json:"complaint_text"`
	Status          Status     `gorm:"size:20;not null;default:pending" json:"status"`
	CreatedAt       time.Time  `gorm:"index;not null" json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at"`
}

// Location renders the block/unit/room triple for display.
func (c Complaint) Location() string {
	return fmt.Sprintf("Block %s, Unit %s, Room %s", c.BlockNumber, c.UnitNumber, c.RoomNumber)
}
