package stripewebhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beworking/beworking-backend/internal/subscriptions"
	"github.com/beworking/beworking-backend/pkg/db/models"
	pkgerrors "github.com/beworking/beworking-backend/pkg/errors"
	"github.com/beworking/beworking-backend/pkg/logger"
	"github.com/beworking/beworking-backend/pkg/metrics"
	pkgstripe "github.com/beworking/beworking-backend/pkg/stripe"
	"gorm.io/gorm"
)

// UserStore is the per-transaction persistence surface webhook processing
// needs. Lookups row-lock so concurrent deliveries for the same user
// serialize.
type UserStore interface {
	FindByStripeCustomerIDForUpdate(ctx context.Context, customerID string) (*models.User, error)
	FindByStripeSubscriptionIDForUpdate(ctx context.Context, subscriptionID string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ServiceParams struct {
	// Users binds a store to the transaction HandleEvent runs in.
	Users             func(tx *gorm.DB) UserStore
	TransactionRunner txRunner
	Logger            *logger.Logger
	Metrics           *metrics.WebhookMetrics
	Now               func() time.Time
}

type Service struct {
	users    func(tx *gorm.DB) UserStore
	txRunner txRunner
	logg     *logger.Logger
	metrics  *metrics.WebhookMetrics
	now      func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user store required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		users:    params.Users,
		txRunner: params.TransactionRunner,
		logg:     params.Logger,
		metrics:  params.Metrics,
		now:      now,
	}, nil
}

// HandleEvent folds one verified webhook event into the owning user's
// subscription state. Events for customers or subscriptions we do not know
// are acknowledged without changes so the provider stops retrying.
func (s *Service) HandleEvent(ctx context.Context, envelope *pkgstripe.Envelope) error {
	if envelope == nil || envelope.Event == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "webhook event required")
	}

	started := s.now()
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.users(tx)

		user, err := s.lookupUser(ctx, store, envelope.Event)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.info(ctx, fmt.Sprintf("event %s matches no user, skipping", envelope.ID))
				return nil
			}
			return err
		}
		if user == nil {
			return nil
		}

		if !subscriptions.Apply(user, envelope.Event, s.now()) {
			return nil
		}
		if err := store.Save(ctx, user); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save user")
		}

		s.info(ctx, fmt.Sprintf("event %s applied to user %s", envelope.ID, user.ID))
		return nil
	})

	s.metrics.ObserveDuration(envelope.Type, time.Since(started))
	if err != nil {
		s.metrics.IncFailed(envelope.Type)
		return err
	}
	s.metrics.IncProcessed(envelope.Type)
	return nil
}

// lookupUser resolves and row-locks the user the event targets. A nil user
// with a nil error means the event needs no lookup at all.
func (s *Service) lookupUser(ctx context.Context, store UserStore, event pkgstripe.Event) (*models.User, error) {
	switch ev := event.(type) {
	case pkgstripe.CheckoutCompleted:
		if ev.CustomerID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout event missing customer id")
		}
		return store.FindByStripeCustomerIDForUpdate(ctx, ev.CustomerID)
	case pkgstripe.SubscriptionUpdated:
		if ev.SubscriptionID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription event missing id")
		}
		return store.FindByStripeSubscriptionIDForUpdate(ctx, ev.SubscriptionID)
	case pkgstripe.SubscriptionDeleted:
		if ev.SubscriptionID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription event missing id")
		}
		return store.FindByStripeSubscriptionIDForUpdate(ctx, ev.SubscriptionID)
	default:
		return nil, nil
	}
}

func (s *Service) info(ctx context.Context, msg string) {
	if s.logg != nil {
		s.logg.Info(ctx, msg)
	}
}
