package logger

import "testing"

func TestNew(t *testing.T) {
	log, err := New("debug", "production")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !log.Core().Enabled(-1) {
		t.Fatalf("expected debug level to be enabled")
	}

	if _, err := New("loud", "production"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
