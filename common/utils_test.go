package common

import "testing"

func TestClampAndCoalesce(t *testing.T) {
	if got := Clamp(float32(120), -90, 90); got != 90 {
		t.Fatalf("expected 90, got %v", got)
	}
	if got := Clamp(-5, 0, 10); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := Coalesce("", "", "x"); got != "x" {
		t.Fatalf("expected x, got %q", got)
	}
}
