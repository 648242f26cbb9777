package stripewebhook

import (
	"context"
	"testing"
	"time"

	"github.com/beworking/beworking-backend/pkg/db/models"
	"github.com/beworking/beworking-backend/pkg/enums"
	pkgstripe "github.com/beworking/beworking-backend/pkg/stripe"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubUserStore struct {
	byCustomer     map[string]*models.User
	bySubscription map[string]*models.User
	saved          []*models.User
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{
		byCustomer:     map[string]*models.User{},
		bySubscription: map[string]*models.User{},
	}
}

func (s *stubUserStore) FindByStripeCustomerIDForUpdate(ctx context.Context, customerID string) (*models.User, error) {
	if user, ok := s.byCustomer[customerID]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserStore) FindByStripeSubscriptionIDForUpdate(ctx context.Context, subscriptionID string) (*models.User, error) {
	if user, ok := s.bySubscription[subscriptionID]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserStore) Save(ctx context.Context, user *models.User) error {
	s.saved = append(s.saved, user)
	return nil
}

type stubTxRunner struct{ calls int }

func (r *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	r.calls++
	return fn(nil)
}

func newTestWebhookService(t *testing.T, store *stubUserStore, now time.Time) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Users:             func(tx *gorm.DB) UserStore { return store },
		TransactionRunner: &stubTxRunner{},
		Now:               func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("setup service: %v", err)
	}
	return svc
}

func TestHandleEventCheckoutCompletedActivatesUser(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newStubUserStore()
	customerID := "cus_123"
	user := &models.User{
		ID:                 uuid.New(),
		Email:              "user@example.com",
		StripeCustomerID:   &customerID,
		SubscriptionStatus: enums.SubscriptionStatusInactive,
	}
	store.byCustomer[customerID] = user
	svc := newTestWebhookService(t, store, now)

	envelope := &pkgstripe.Envelope{
		ID:    "evt_1",
		Type:  pkgstripe.EventTypeCheckoutSessionCompleted,
		Event: pkgstripe.CheckoutCompleted{CustomerID: customerID, SubscriptionID: "sub_456"},
	}
	if err := svc.HandleEvent(context.Background(), envelope); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	if len(store.saved) != 1 {
		t.Fatalf("expected one save, got %d", len(store.saved))
	}
	if user.SubscriptionStatus != enums.SubscriptionStatusActive {
		t.Fatalf("unexpected status %s", user.SubscriptionStatus)
	}
	if user.StripeSubscriptionID == nil || *user.StripeSubscriptionID != "sub_456" {
		t.Fatalf("expected subscription id attached")
	}
	if user.SubscriptionStart == nil || !user.SubscriptionStart.Equal(now) {
		t.Fatalf("expected start at handler clock, got %v", user.SubscriptionStart)
	}
}

func TestHandleEventSubscriptionDeletedExpiresUser(t *testing.T) {
	store := newStubUserStore()
	user := &models.User{
		ID:                 uuid.New(),
		SubscriptionStatus: enums.SubscriptionStatusActive,
	}
	store.bySubscription["sub_456"] = user
	svc := newTestWebhookService(t, store, time.Now())

	envelope := &pkgstripe.Envelope{
		ID:    "evt_2",
		Type:  pkgstripe.EventTypeCustomerSubscriptionDelete,
		Event: pkgstripe.SubscriptionDeleted{SubscriptionID: "sub_456"},
	}
	if err := svc.HandleEvent(context.Background(), envelope); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	if user.SubscriptionStatus != enums.SubscriptionStatusExpired {
		t.Fatalf("unexpected status %s", user.SubscriptionStatus)
	}
}

func TestHandleEventUnknownUserIsAcknowledged(t *testing.T) {
	store := newStubUserStore()
	svc := newTestWebhookService(t, store, time.Now())

	envelope := &pkgstripe.Envelope{
		ID:    "evt_3",
		Type:  pkgstripe.EventTypeCheckoutSessionCompleted,
		Event: pkgstripe.CheckoutCompleted{CustomerID: "cus_unknown", SubscriptionID: "sub_x"},
	}
	if err := svc.HandleEvent(context.Background(), envelope); err != nil {
		t.Fatalf("unknown user must not error: %v", err)
	}
	if len(store.saved) != 0 {
		t.Fatalf("expected no saves")
	}
}

func TestHandleEventUnrecognizedTypeIsNoop(t *testing.T) {
	store := newStubUserStore()
	svc := newTestWebhookService(t, store, time.Now())

	envelope := &pkgstripe.Envelope{
		ID:    "evt_4",
		Type:  "invoice.paid",
		Event: pkgstripe.Unrecognized{Type: "invoice.paid"},
	}
	if err := svc.HandleEvent(context.Background(), envelope); err != nil {
		t.Fatalf("unrecognized event must not error: %v", err)
	}
	if len(store.saved) != 0 {
		t.Fatalf("expected no saves")
	}
}

func TestHandleEventNoChangeSkipsSave(t *testing.T) {
	store := newStubUserStore()
	user := &models.User{
		ID:                 uuid.New(),
		SubscriptionStatus: enums.SubscriptionStatusExpired,
	}
	store.bySubscription["sub_456"] = user
	svc := newTestWebhookService(t, store, time.Now())

	envelope := &pkgstripe.Envelope{
		ID:    "evt_5",
		Type:  pkgstripe.EventTypeCustomerSubscriptionDelete,
		Event: pkgstripe.SubscriptionDeleted{SubscriptionID: "sub_456"},
	}
	if err := svc.HandleEvent(context.Background(), envelope); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	if len(store.saved) != 0 {
		t.Fatalf("replay must not write")
	}
}

func TestHandleEventRejectsEmptyEnvelope(t *testing.T) {
	svc := newTestWebhookService(t, newStubUserStore(), time.Now())
	if err := svc.HandleEvent(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil envelope")
	}
	if err := svc.HandleEvent(context.Background(), &pkgstripe.Envelope{ID: "evt"}); err == nil {
		t.Fatalf("expected error for missing event")
	}
}
