package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/beworking/beworking-backend/pkg/db/models"
	"github.com/beworking/beworking-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID                 uuid.UUID                `json:"id"`
	Name               string                   `json:"name"`
	Email              string                   `json:"email"`
	Phone              *string                  `json:"phone,omitempty"`
	Company            *string                  `json:"company,omitempty"`
	BillingAddress     *string                  `json:"billing_address,omitempty"`
	BillingCity        *string                  `json:"billing_city,omitempty"`
	BillingZip         *string                  `json:"billing_zip,omitempty"`
	BillingCountry     *string                  `json:"billing_country,omitempty"`
	SubscriptionStatus enums.SubscriptionStatus `json:"subscription_status"`
	SubscriptionStart  *time.Time               `json:"subscription_start,omitempty"`
	SubscriptionEnd    *time.Time               `json:"subscription_end,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name         string
	Email        string
	PasswordHash string
	Phone        *string
	Company      *string
}

// UpdateProfileDTO carries the mutable profile columns.
type UpdateProfileDTO struct {
	Name           string
	Phone          *string
	Company        *string
	BillingAddress *string
	BillingCity    *string
	BillingZip     *string
	BillingCountry *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		Phone:              u.Phone,
		Company:            u.Company,
		BillingAddress:     u.BillingAddress,
		BillingCity:        u.BillingCity,
		BillingZip:         u.BillingZip,
		BillingCountry:     u.BillingCountry,
		SubscriptionStatus: u.SubscriptionStatus,
		SubscriptionStart:  u.SubscriptionStart,
		SubscriptionEnd:    u.SubscriptionEnd,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Name:               c.Name,
		Email:              c.Email,
		PasswordHash:       c.PasswordHash,
		Phone:              c.Phone,
		Company:            c.Company,
		SubscriptionStatus: enums.SubscriptionStatusInactive,
	}
}
