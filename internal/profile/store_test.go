package profile

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "profile.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatalf("expected error for blank path")
	}
}

func TestGetMissingKey(t *testing.T) {
	s := openTestStore(t)
	value, err := s.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if value != "" {
		t.Fatalf("expected empty value, got %q", value)
	}
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	calls := 0
	generate := func() string {
		calls++
		return "generated"
	}

	first, err := s.GetOrCreate(ctx, "k", generate)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	second, err := s.GetOrCreate(ctx, "k", generate)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if first != "generated" || second != "generated" {
		t.Fatalf("unexpected values %q %q", first, second)
	}
	if calls != 1 {
		t.Fatalf("generate called %d times", calls)
	}
}

func TestChatSessionIDIsStable(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.ChatSessionID(ctx)
	if err != nil {
		t.Fatalf("ChatSessionID: %v", err)
	}
	if first == "" {
		t.Fatalf("empty session id")
	}
	second, err := s.ChatSessionID(ctx)
	if err != nil {
		t.Fatalf("ChatSessionID: %v", err)
	}
	if second != first {
		t.Fatalf("session id changed: %q vs %q", first, second)
	}
}
