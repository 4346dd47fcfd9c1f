package scanner

import (
	"context"
	"testing"
)

type stubScanner struct{ name string }

func (s stubScanner) Name() string { return s.name }

func (s stubScanner) Scan(context.Context, Request) (Result, error) { return Result{}, nil }

func TestRegistryKeepsRegistrationOrder(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(stubScanner{name: "finviz"})
	reg.Register(stubScanner{name: "marketwatch"})
	reg.Register(stubScanner{name: "otcmarkets"})
	reg.Register(stubScanner{name: "finviz"})

	names := reg.Names()
	want := []string{"finviz", "marketwatch", "otcmarkets"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %v", len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("unexpected order: %v", names)
		}
	}
}

func TestRegistryResolveUnknown(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	if _, err := reg.Resolve("missing"); err == nil {
		t.Fatalf("expected error for unregistered scanner")
	}
}
