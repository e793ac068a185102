package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestAsFailure(t *testing.T) {
	if AsFailure(nil) != nil {
		t.Fatal("expected nil for nil error")
	}

	wrapped := fmt.Errorf("analyze: %w", Malformed("not json", errors.New("bad json")))
	f := AsFailure(wrapped)
	if f.Kind != FailureMalformed || f.Raw != "not json" {
		t.Fatalf("unexpected failure: %+v", f)
	}

	plain := AsFailure(context.DeadlineExceeded)
	if plain.Kind != FailureUpstream {
		t.Fatalf("expected upstream kind, got %s", plain.Kind)
	}
	if !errors.Is(plain, context.DeadlineExceeded) {
		t.Fatal("expected cause to be preserved")
	}
}

func TestUnavailable(t *testing.T) {
	f := Unavailable()
	if !errors.Is(f, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured cause, got %v", f)
	}
	if f.Error() != "ai unavailable: ai service is not configured" {
		t.Fatalf("unexpected message: %q", f.Error())
	}
}
