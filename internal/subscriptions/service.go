package subscriptions

import (
	"context"
	"errors"

	"github.com/beworking/beworking-backend/internal/users"
	"github.com/beworking/beworking-backend/pkg/db/models"
	"github.com/beworking/beworking-backend/pkg/enums"
	pkgerrors "github.com/beworking/beworking-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckoutResponse carries the hosted payment page URL.
type CheckoutResponse struct {
	URL string `json:"url"`
}

// OverrideStatusRequest force-sets a user's subscription status.
type OverrideStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Service defines the behavior needed by the subscription controller.
type Service interface {
	CreateCheckout(ctx context.Context, userID uuid.UUID) (*CheckoutResponse, error)
	OverrideStatus(ctx context.Context, userID uuid.UUID, req OverrideStatusRequest) (*users.UserDTO, error)
}

// CheckoutClient is the subset of payment-provider operations the service
// needs. Kept narrow so tests can stub it.
type CheckoutClient interface {
	CreateCustomer(ctx context.Context, email, name string) (string, error)
	CreateCheckoutSession(ctx context.Context, customerID string) (string, error)
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateStripeCustomerID(ctx context.Context, id uuid.UUID, customerID string) error
	Save(ctx context.Context, user *models.User) error
}

type service struct {
	users    userRepository
	checkout CheckoutClient
}

// ServiceParams bundles the dependencies required to build the service.
type ServiceParams struct {
	UserRepo       userRepository
	CheckoutClient CheckoutClient
}

// NewService constructs a subscription service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repository required")
	}
	return &service{
		users:    params.UserRepo,
		checkout: params.CheckoutClient,
	}, nil
}

// CreateCheckout opens a subscription checkout session for the user. A Stripe
// customer is created lazily on the first checkout and the id persisted so
// later sessions and webhook lookups reuse it.
func (s *service) CreateCheckout(ctx context.Context, userID uuid.UUID) (*CheckoutResponse, error) {
	// Missing provider keys are a deployment problem, not a client one.
	if s.checkout == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payments are not configured")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	customerID := ""
	if user.StripeCustomerID != nil {
		customerID = *user.StripeCustomerID
	}
	if customerID == "" {
		customerID, err = s.checkout.CreateCustomer(ctx, user.Email, user.Name)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
		}
		if err := s.users.UpdateStripeCustomerID(ctx, user.ID, customerID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist customer id")
		}
	}

	url, err := s.checkout.CreateCheckoutSession(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create checkout session")
	}

	return &CheckoutResponse{URL: url}, nil
}

// OverrideStatus force-sets the subscription status on a user, bypassing the
// webhook lifecycle. Support tooling only.
func (s *service) OverrideStatus(ctx context.Context, userID uuid.UUID, req OverrideStatusRequest) (*users.UserDTO, error) {
	status, err := enums.ParseSubscriptionStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid subscription status")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	if user.SubscriptionStatus != status {
		user.SubscriptionStatus = status
		if err := s.users.Save(ctx, user); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save user")
		}
	}

	return users.FromModel(user), nil
}
