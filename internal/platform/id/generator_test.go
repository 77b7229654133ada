package id

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator_NewID(t *testing.T) {
	t.Parallel()

	gen := NewUUIDGenerator()
	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	second, _ := gen.NewID()
	if first == second {
		t.Fatalf("expected distinct ids")
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Fatalf("expected uuid format, got %q: %v", first, err)
	}
}

func TestNanoIDGenerator_NewID(t *testing.T) {
	t.Parallel()

	gen := NewNanoIDGenerator(0)
	seen := make(map[string]struct{}, 64)
	for range 64 {
		value, err := gen.NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if len(value) != 12 {
			t.Fatalf("expected 12 characters, got %q", value)
		}
		if _, dup := seen[value]; dup {
			t.Fatalf("duplicate id %q", value)
		}
		seen[value] = struct{}{}
	}
}
