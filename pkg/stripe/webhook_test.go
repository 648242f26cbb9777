package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"
)

const testSecret = "whsec_test_secret"

func TestVerifySignatureAcceptsSignedPayload(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	now := time.Now()
	header := SignPayload(payload, testSecret, now)

	if err := VerifySignature(payload, header, testSecret, 5*time.Minute, now); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}
}

func TestVerifySignatureRejectsWrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	header := SignPayload(payload, "whsec_other", now)

	err := VerifySignature(payload, header, testSecret, 5*time.Minute, now)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestVerifySignatureRejectsTamperedPayload(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	header := SignPayload(payload, testSecret, now)

	tampered := []byte(`{"id":"evt_2"}`)
	err := VerifySignature(tampered, header, testSecret, 5*time.Minute, now)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestVerifySignatureRejectsStaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	signed := time.Now().Add(-10 * time.Minute)
	header := SignPayload(payload, testSecret, signed)

	err := VerifySignature(payload, header, testSecret, 5*time.Minute, time.Now())
	if !errors.Is(err, ErrTimestampOutsideTolerance) {
		t.Fatalf("expected ErrTimestampOutsideTolerance, got %v", err)
	}
}

func TestVerifySignatureZeroToleranceSkipsReplayCheck(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	signed := time.Now().Add(-24 * time.Hour)
	header := SignPayload(payload, testSecret, signed)

	if err := VerifySignature(payload, header, testSecret, 0, time.Now()); err != nil {
		t.Fatalf("expected verification to pass with tolerance disabled, got %v", err)
	}
}

func TestVerifySignatureAcceptsAnyV1Candidate(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	timestamp := now.Unix()

	mac := hmac.New(sha256.New, []byte(testSecret))
	fmt.Fprintf(mac, "%d.%s", timestamp, payload)
	good := hex.EncodeToString(mac.Sum(nil))

	header := fmt.Sprintf("t=%d,v1=%s,v1=%s", timestamp, "deadbeef", good)
	if err := VerifySignature(payload, header, testSecret, 5*time.Minute, now); err != nil {
		t.Fatalf("expected second candidate to match, got %v", err)
	}
}

func TestVerifySignatureRejectsMalformedHeaders(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	cases := []string{
		"",
		"v1=abc",
		"t=123",
		"t=notanumber,v1=abc",
	}
	for _, header := range cases {
		if err := VerifySignature(payload, header, testSecret, 0, time.Now()); err == nil {
			t.Fatalf("expected error for header %q", header)
		}
	}
}
