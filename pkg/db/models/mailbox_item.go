package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MailboxItem is one entry in a user's virtual-office mailbox. PDFURL points
// at the scanned document when one was uploaded.
type MailboxItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_mailbox_items_user_id"`
	Subject   string    `gorm:"not null"`
	Message   string
	Timestamp time.Time `gorm:"not null"`
	PDFURL    *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the GORM default.
func (MailboxItem) TableName() string { return "mailbox_items" }

// BeforeCreate assigns an ID when the caller did not.
func (m *MailboxItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	return nil
}
