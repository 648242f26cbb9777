package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/beworking/beworking-backend/pkg/db/models"
	pkgerrors "github.com/beworking/beworking-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the bookings controller.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]BookingDTO, error)
	Delete(ctx context.Context, userID, bookingID uuid.UUID) error
}

type bookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Booking, error)
	Delete(ctx context.Context, id, userID uuid.UUID) (int64, error)
}

type service struct {
	repo bookingRepository
}

// ServiceParams bundles the dependencies for the booking flow.
type ServiceParams struct {
	Repo bookingRepository
}

// NewService constructs a bookings service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "bookings repository required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD")
	}
	if !validHour(req.StartHour) || !validHour(req.EndHour) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "hours must be HH:MM")
	}
	if req.EndHour <= req.StartHour {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end_hour must be after start_hour")
	}

	attendees := req.Attendees
	if attendees <= 0 {
		attendees = 1
	}

	booking := &models.Booking{
		UserID:    userID,
		Product:   req.Product,
		Date:      date,
		StartHour: req.StartHour,
		EndHour:   req.EndHour,
		Attendees: attendees,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create booking")
	}
	return FromModel(booking), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]BookingDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []BookingDTO{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list bookings")
	}
	return FromModels(rows), nil
}

func (s *service) Delete(ctx context.Context, userID, bookingID uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, bookingID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete booking")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
	}
	return nil
}

// validHour accepts zero-padded 24h "HH:MM" strings.
func validHour(value string) bool {
	if len(value) != 5 || value[2] != ':' {
		return false
	}
	_, err := time.Parse("15:04", value)
	return err == nil
}
