package bookings

import (
	"time"

	"github.com/beworking/beworking-backend/pkg/db/models"
	"github.com/google/uuid"
)

// CreateBookingRequest is the payload for reserving a room slot.
type CreateBookingRequest struct {
	Product   string `json:"product" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartHour string `json:"start_hour" validate:"required"`
	EndHour   string `json:"end_hour" validate:"required"`
	Attendees int    `json:"attendees" validate:"omitempty,min=1"`
}

// BookingDTO is the transport shape of a booking.
type BookingDTO struct {
	ID        uuid.UUID `json:"id"`
	Product   string    `json:"product"`
	Date      string    `json:"date"`
	StartHour string    `json:"start_hour"`
	EndHour   string    `json:"end_hour"`
	Attendees int       `json:"attendees"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModel(b *models.Booking) *BookingDTO {
	if b == nil {
		return nil
	}
	return &BookingDTO{
		ID:        b.ID,
		Product:   b.Product,
		Date:      b.Date.Format("2006-01-02"),
		StartHour: b.StartHour,
		EndHour:   b.EndHour,
		Attendees: b.Attendees,
		CreatedAt: b.CreatedAt,
	}
}

func FromModels(rows []models.Booking) []BookingDTO {
	out := make([]BookingDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
