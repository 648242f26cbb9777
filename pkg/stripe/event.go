package stripe

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types this platform reacts to. Everything else is acknowledged and
// dropped.
const (
	EventTypeCheckoutSessionCompleted   = "checkout.session.completed"
	EventTypeCustomerSubscriptionUpdate = "customer.subscription.updated"
	EventTypeCustomerSubscriptionDelete = "customer.subscription.deleted"
)

// Event is the closed set of webhook payloads the subscription lifecycle
// consumes. Only types in this package implement it.
type Event interface {
	isEvent()
}

// CheckoutCompleted signals a finished checkout session. CustomerID links the
// session back to a user; SubscriptionID is the newly created subscription.
type CheckoutCompleted struct {
	CustomerID     string
	SubscriptionID string
}

// SubscriptionUpdated carries the provider-side status plus the current
// billing period bounds.
type SubscriptionUpdated struct {
	SubscriptionID string
	ProviderStatus string
	PeriodStart    *time.Time
	PeriodEnd      *time.Time
}

// SubscriptionDeleted signals the subscription is gone on the provider side.
type SubscriptionDeleted struct {
	SubscriptionID string
}

// Unrecognized is any event type outside the handled set. Handlers treat it
// as a no-op so Stripe does not retry.
type Unrecognized struct {
	Type string
}

func (CheckoutCompleted) isEvent()   {}
func (SubscriptionUpdated) isEvent() {}
func (SubscriptionDeleted) isEvent() {}
func (Unrecognized) isEvent()        {}

// Envelope pairs the provider event id with its decoded payload.
type Envelope struct {
	ID    string
	Type  string
	Event Event
}

type rawEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type rawCheckoutSession struct {
	Customer     string `json:"customer"`
	Subscription string `json:"subscription"`
}

type rawSubscription struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
}

// ParseEvent decodes a verified webhook payload into the event sum type.
// Unknown event types decode into Unrecognized rather than an error.
func ParseEvent(payload []byte) (*Envelope, error) {
	var raw rawEvent
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}
	if raw.ID == "" {
		return nil, fmt.Errorf("webhook payload missing event id")
	}

	envelope := &Envelope{ID: raw.ID, Type: raw.Type}

	switch raw.Type {
	case EventTypeCheckoutSessionCompleted:
		var sess rawCheckoutSession
		if err := json.Unmarshal(raw.Data.Object, &sess); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		envelope.Event = CheckoutCompleted{
			CustomerID:     sess.Customer,
			SubscriptionID: sess.Subscription,
		}
	case EventTypeCustomerSubscriptionUpdate:
		var sub rawSubscription
		if err := json.Unmarshal(raw.Data.Object, &sub); err != nil {
			return nil, fmt.Errorf("decode subscription: %w", err)
		}
		envelope.Event = SubscriptionUpdated{
			SubscriptionID: sub.ID,
			ProviderStatus: sub.Status,
			PeriodStart:    epochToTime(sub.CurrentPeriodStart),
			PeriodEnd:      epochToTime(sub.CurrentPeriodEnd),
		}
	case EventTypeCustomerSubscriptionDelete:
		var sub rawSubscription
		if err := json.Unmarshal(raw.Data.Object, &sub); err != nil {
			return nil, fmt.Errorf("decode subscription: %w", err)
		}
		envelope.Event = SubscriptionDeleted{SubscriptionID: sub.ID}
	default:
		envelope.Event = Unrecognized{Type: raw.Type}
	}

	return envelope, nil
}

func epochToTime(epoch int64) *time.Time {
	if epoch <= 0 {
		return nil
	}
	t := time.Unix(epoch, 0).UTC()
	return &t
}
