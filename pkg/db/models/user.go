package models

import (
	"time"

	"github.com/beworking/beworking-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account row. Stripe linkage columns stay nil until the user
// starts a checkout; subscription columns are only ever mutated by webhook
// processing and the manual override path.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"not null;uniqueIndex:idx_users_email"`
	PasswordHash string    `gorm:"not null"`

	Phone          *string
	Company        *string
	BillingAddress *string
	BillingCity    *string
	BillingZip     *string
	BillingCountry *string

	StripeCustomerID     *string `gorm:"index:idx_users_stripe_customer_id"`
	StripeSubscriptionID *string `gorm:"index:idx_users_stripe_subscription_id"`

	SubscriptionStatus enums.SubscriptionStatus `gorm:"not null;default:INACTIVE"`
	SubscriptionStart  *time.Time
	SubscriptionEnd    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the GORM default.
func (User) TableName() string { return "users" }

// BeforeCreate assigns an ID when the caller did not.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.SubscriptionStatus == "" {
		u.SubscriptionStatus = enums.SubscriptionStatusInactive
	}
	return nil
}
