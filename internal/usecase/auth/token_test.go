package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/gdugdh24/compatible-backend/internal/domain"
	"github.com/google/uuid"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestIssueAndParseRoundTripsProfileID(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	profileID := uuid.New()

	token, expiresAt, err := svc.Issue(profileID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expected expiry in the future, got %v", expiresAt)
	}

	got, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if got != profileID {
		t.Fatalf("unexpected profile id: got %s want %s", got, profileID)
	}
}

func TestParseRejectsTokenSignedWithOtherSecret(t *testing.T) {
	issuer := NewTokenService("ffffffffffffffffffffffffffffffff", time.Hour)
	token, _, err := issuer.Issue(uuid.New())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	_, err = NewTokenService(testSecret, time.Hour).Parse(token)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	svc := NewTokenService(testSecret, time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := svc.Issue(uuid.New())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	svc.now = time.Now
	_, err = svc.Parse(token)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for expired token, got %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	if _, err := svc.Parse("not-a-token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}
