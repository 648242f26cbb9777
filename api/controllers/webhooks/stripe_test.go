package webhooks

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgstripe "github.com/beworking/beworking-backend/pkg/stripe"
)

const testSigningSecret = "whsec_test"

type stubWebhookService struct {
	handled []*pkgstripe.Envelope
	err     error
}

func (s *stubWebhookService) HandleEvent(ctx context.Context, envelope *pkgstripe.Envelope) error {
	s.handled = append(s.handled, envelope)
	return s.err
}

type stubGuard struct {
	seen    map[string]bool
	deleted []string
}

func newStubGuard() *stubGuard {
	return &stubGuard{seen: map[string]bool{}}
}

func (g *stubGuard) CheckAndMark(ctx context.Context, eventID string) (bool, error) {
	if g.seen[eventID] {
		return true, nil
	}
	g.seen[eventID] = true
	return false, nil
}

func (g *stubGuard) Delete(ctx context.Context, eventID string) error {
	g.deleted = append(g.deleted, eventID)
	delete(g.seen, eventID)
	return nil
}

type stubClient struct{}

func (stubClient) SigningSecret() string { return testSigningSecret }

func signedRequest(payload []byte) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set(pkgstripe.SignatureHeader, pkgstripe.SignPayload(payload, testSigningSecret, time.Now()))
	return req
}

func TestStripeWebhookProcessesSignedEvent(t *testing.T) {
	svc := &stubWebhookService{}
	guard := newStubGuard()
	handler := StripeWebhook(svc, stubClient{}, guard, 5*time.Minute, nil)

	payload := []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {"object": {"customer": "cus_123", "subscription": "sub_456"}}
	}`)
	rec := httptest.NewRecorder()
	handler(rec, signedRequest(payload))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.handled) != 1 {
		t.Fatalf("expected one handled event")
	}
	if svc.handled[0].ID != "evt_1" {
		t.Fatalf("unexpected event id %q", svc.handled[0].ID)
	}
	if _, ok := svc.handled[0].Event.(pkgstripe.CheckoutCompleted); !ok {
		t.Fatalf("unexpected event payload %T", svc.handled[0].Event)
	}
}

func TestStripeWebhookRejectsMissingSignature(t *testing.T) {
	svc := &stubWebhookService{}
	handler := StripeWebhook(svc, stubClient{}, newStubGuard(), 5*time.Minute, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(svc.handled) != 0 {
		t.Fatalf("unsigned event must not reach the service")
	}
}

func TestStripeWebhookRejectsBadSignature(t *testing.T) {
	svc := &stubWebhookService{}
	handler := StripeWebhook(svc, stubClient{}, newStubGuard(), 5*time.Minute, nil)

	payload := []byte(`{"id": "evt_1", "type": "checkout.session.completed", "data": {"object": {}}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set(pkgstripe.SignatureHeader, pkgstripe.SignPayload(payload, "whsec_wrong", time.Now()))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(svc.handled) != 0 {
		t.Fatalf("forged event must not reach the service")
	}
}

func TestStripeWebhookSkipsDuplicateDelivery(t *testing.T) {
	svc := &stubWebhookService{}
	guard := newStubGuard()
	handler := StripeWebhook(svc, stubClient{}, guard, 5*time.Minute, nil)

	payload := []byte(`{"id": "evt_1", "type": "customer.subscription.deleted", "data": {"object": {"id": "sub_456"}}}`)

	rec := httptest.NewRecorder()
	handler(rec, signedRequest(payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("first delivery failed: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler(rec, signedRequest(payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("duplicate delivery must still ack: %d", rec.Code)
	}
	if len(svc.handled) != 1 {
		t.Fatalf("duplicate delivery must not be processed twice, got %d", len(svc.handled))
	}
}

func TestStripeWebhookReleasesGuardOnFailure(t *testing.T) {
	svc := &stubWebhookService{err: context.DeadlineExceeded}
	guard := newStubGuard()
	handler := StripeWebhook(svc, stubClient{}, guard, 5*time.Minute, nil)

	payload := []byte(`{"id": "evt_1", "type": "customer.subscription.deleted", "data": {"object": {"id": "sub_456"}}}`)
	rec := httptest.NewRecorder()
	handler(rec, signedRequest(payload))

	if rec.Code == http.StatusOK {
		t.Fatalf("expected failure status")
	}
	if len(guard.deleted) != 1 || guard.deleted[0] != "evt_1" {
		t.Fatalf("expected idempotency key released, got %v", guard.deleted)
	}
}

func TestStripeWebhookMissingDependencies(t *testing.T) {
	handler := StripeWebhook(nil, stubClient{}, newStubGuard(), 0, nil)
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", bytes.NewReader(nil)))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for nil service, got %d", rec.Code)
	}
}
