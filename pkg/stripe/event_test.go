package stripe

import (
	"testing"
	"time"
)

func TestParseEventCheckoutCompleted(t *testing.T) {
	payload := []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {"object": {"customer": "cus_123", "subscription": "sub_456"}}
	}`)

	envelope, err := ParseEvent(payload)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if envelope.ID != "evt_1" {
		t.Fatalf("unexpected id %q", envelope.ID)
	}
	ev, ok := envelope.Event.(CheckoutCompleted)
	if !ok {
		t.Fatalf("expected CheckoutCompleted, got %T", envelope.Event)
	}
	if ev.CustomerID != "cus_123" || ev.SubscriptionID != "sub_456" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestParseEventSubscriptionUpdated(t *testing.T) {
	payload := []byte(`{
		"id": "evt_2",
		"type": "customer.subscription.updated",
		"data": {"object": {
			"id": "sub_456",
			"status": "past_due",
			"current_period_start": 1700000000,
			"current_period_end": 1702592000
		}}
	}`)

	envelope, err := ParseEvent(payload)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	ev, ok := envelope.Event.(SubscriptionUpdated)
	if !ok {
		t.Fatalf("expected SubscriptionUpdated, got %T", envelope.Event)
	}
	if ev.SubscriptionID != "sub_456" || ev.ProviderStatus != "past_due" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.PeriodStart == nil || !ev.PeriodStart.Equal(time.Unix(1700000000, 0)) {
		t.Fatalf("unexpected period start %v", ev.PeriodStart)
	}
	if ev.PeriodEnd == nil || !ev.PeriodEnd.Equal(time.Unix(1702592000, 0)) {
		t.Fatalf("unexpected period end %v", ev.PeriodEnd)
	}
}

func TestParseEventSubscriptionUpdatedMissingPeriods(t *testing.T) {
	payload := []byte(`{
		"id": "evt_3",
		"type": "customer.subscription.updated",
		"data": {"object": {"id": "sub_456", "status": "active"}}
	}`)

	envelope, err := ParseEvent(payload)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	ev := envelope.Event.(SubscriptionUpdated)
	if ev.PeriodStart != nil || ev.PeriodEnd != nil {
		t.Fatalf("expected nil period bounds, got %+v", ev)
	}
}

func TestParseEventSubscriptionDeleted(t *testing.T) {
	payload := []byte(`{
		"id": "evt_4",
		"type": "customer.subscription.deleted",
		"data": {"object": {"id": "sub_456", "status": "canceled"}}
	}`)

	envelope, err := ParseEvent(payload)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	ev, ok := envelope.Event.(SubscriptionDeleted)
	if !ok {
		t.Fatalf("expected SubscriptionDeleted, got %T", envelope.Event)
	}
	if ev.SubscriptionID != "sub_456" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestParseEventUnrecognizedType(t *testing.T) {
	payload := []byte(`{"id": "evt_5", "type": "invoice.paid", "data": {"object": {}}}`)

	envelope, err := ParseEvent(payload)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	ev, ok := envelope.Event.(Unrecognized)
	if !ok {
		t.Fatalf("expected Unrecognized, got %T", envelope.Event)
	}
	if ev.Type != "invoice.paid" {
		t.Fatalf("unexpected type %q", ev.Type)
	}
}

func TestParseEventRejectsBadPayloads(t *testing.T) {
	if _, err := ParseEvent([]byte("not json")); err == nil {
		t.Fatalf("expected error for invalid json")
	}
	if _, err := ParseEvent([]byte(`{"type":"checkout.session.completed"}`)); err == nil {
		t.Fatalf("expected error for missing event id")
	}
}
