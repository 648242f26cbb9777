package users

import (
	"context"
	"errors"
	"strings"

	"github.com/beworking/beworking-backend/pkg/db/models"
	pkgerrors "github.com/beworking/beworking-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the user controller.
type Service interface {
	Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserDTO, error)
}

// UpdateProfileRequest is the payload for profile edits. Email and password
// are not editable through this endpoint.
type UpdateProfileRequest struct {
	Name           string  `json:"name" validate:"required"`
	Phone          *string `json:"phone,omitempty"`
	Company        *string `json:"company,omitempty"`
	BillingAddress *string `json:"billing_address,omitempty"`
	BillingCity    *string `json:"billing_city,omitempty"`
	BillingZip     *string `json:"billing_zip,omitempty"`
	BillingCountry *string `json:"billing_country,omitempty"`
}

type profileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, dto UpdateProfileDTO) error
}

type service struct {
	repo profileRepository
}

// ServiceParams bundles the dependencies for the user profile flow.
type ServiceParams struct {
	Repo profileRepository
}

// NewService constructs a users service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repository required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	dto := UpdateProfileDTO{
		Name:           name,
		Phone:          req.Phone,
		Company:        req.Company,
		BillingAddress: req.BillingAddress,
		BillingCity:    req.BillingCity,
		BillingZip:     req.BillingZip,
		BillingCountry: req.BillingCountry,
	}
	if err := s.repo.UpdateProfile(ctx, userID, dto); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload user")
	}
	return FromModel(user), nil
}
