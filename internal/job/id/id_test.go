package id

import (
	"strings"
	"testing"
)

func TestFallback(t *testing.T) {
	got := Fallback()

	// Check format
	if !strings.HasPrefix(got, "job_") {
		t.Errorf("expected ID to start with 'job_', got %s", got)
	}

	// Check uniqueness
	got2 := Fallback()
	if got == got2 {
		t.Errorf("expected unique IDs, got %s twice", got)
	}
}
