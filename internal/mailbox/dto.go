package mailbox

import (
	"time"

	"github.com/beworking/beworking-backend/pkg/db/models"
	"github.com/google/uuid"
)

// CreateItemRequest is the payload for recording received mail.
type CreateItemRequest struct {
	Subject string  `json:"subject" validate:"required"`
	Message string  `json:"message"`
	PDFURL  *string `json:"pdf_url,omitempty" validate:"omitempty,url"`
}

// ItemDTO is the transport shape of a mailbox entry.
type ItemDTO struct {
	ID        uuid.UUID `json:"id"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	PDFURL    *string   `json:"pdf_url,omitempty"`
}

func FromModel(m *models.MailboxItem) *ItemDTO {
	if m == nil {
		return nil
	}
	return &ItemDTO{
		ID:        m.ID,
		Subject:   m.Subject,
		Message:   m.Message,
		Timestamp: m.Timestamp,
		PDFURL:    m.PDFURL,
	}
}

func FromModels(rows []models.MailboxItem) []ItemDTO {
	out := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
