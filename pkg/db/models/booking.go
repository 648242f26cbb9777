package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking is a meeting-room reservation owned by a user. Hours are stored as
// zero-padded "HH:MM" strings, matching what the booking form submits.
type Booking struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_bookings_user_id"`
	Product   string    `gorm:"not null"`
	Date      time.Time `gorm:"not null"`
	StartHour string    `gorm:"not null"`
	EndHour   string    `gorm:"not null"`
	Attendees int       `gorm:"not null;default:1"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the GORM default.
func (Booking) TableName() string { return "bookings" }

// BeforeCreate assigns an ID when the caller did not.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
