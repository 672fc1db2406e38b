package store

import (
	"path/filepath"
	"testing"
)

func TestMemoryBundle_Defaults(t *testing.T) {
	b := NewMemoryBundle()

	if got := b.Int64("missing", 42); got != 42 {
		t.Errorf("expected default 42, got %d", got)
	}
	if got := b.String("missing", "fallback"); got != "fallback" {
		t.Errorf("expected default fallback, got %q", got)
	}

	b.PutInt64("t", 120)
	b.PutString("s", "RUNNING")
	if got := b.Int64("t", 0); got != 120 {
		t.Errorf("expected 120, got %d", got)
	}
	if got := b.String("s", ""); got != "RUNNING" {
		t.Errorf("expected RUNNING, got %q", got)
	}
}

func TestMemoryBundle_KeysAreIndependent(t *testing.T) {
	b := NewMemoryBundle()
	b.PutInt64("x", 1)
	b.PutInt64("y", 2)

	if got := b.Int64("x", 0); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if b.Len() != 2 {
		t.Errorf("expected 2 fields, got %d", b.Len())
	}
}

func TestSavedStateStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debatekeeper.db")
	s, err := NewSavedStateStore(path)
	if err != nil {
		t.Fatalf("NewSavedStateStore failed: %v", err)
	}
	defer s.Close()

	id, err := s.Create("mid-debate")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	b := NewMemoryBundle()
	b.PutInt64("dm.t", 95)
	b.PutString("dm.s", "STOPPED_BY_USER")
	b.PutString("dm.cpi.desc", "Warning bell rung")
	if err := s.SaveBundle(id, b); err != nil {
		t.Fatalf("SaveBundle failed: %v", err)
	}

	loaded, err := s.LoadBundle(id)
	if err != nil {
		t.Fatalf("LoadBundle failed: %v", err)
	}
	if got := loaded.Int64("dm.t", 0); got != 95 {
		t.Errorf("expected time 95, got %d", got)
	}
	if got := loaded.String("dm.s", ""); got != "STOPPED_BY_USER" {
		t.Errorf("expected state STOPPED_BY_USER, got %q", got)
	}
	if got := loaded.String("dm.cpi.desc", ""); got != "Warning bell rung" {
		t.Errorf("expected period description, got %q", got)
	}
}

func TestSavedStateStore_SaveReplacesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debatekeeper.db")
	s, err := NewSavedStateStore(path)
	if err != nil {
		t.Fatalf("NewSavedStateStore failed: %v", err)
	}
	defer s.Close()

	id, err := s.Create("test")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	first := NewMemoryBundle()
	first.PutInt64("dm.t", 10)
	first.PutString("dm.s", "RUNNING")
	if err := s.SaveBundle(id, first); err != nil {
		t.Fatalf("SaveBundle failed: %v", err)
	}

	second := NewMemoryBundle()
	second.PutInt64("dm.t", 20)
	if err := s.SaveBundle(id, second); err != nil {
		t.Fatalf("SaveBundle failed: %v", err)
	}

	loaded, err := s.LoadBundle(id)
	if err != nil {
		t.Fatalf("LoadBundle failed: %v", err)
	}
	if got := loaded.Int64("dm.t", 0); got != 20 {
		t.Errorf("expected replaced time 20, got %d", got)
	}
	// The old state field must be gone, falling back to the default.
	if got := loaded.String("dm.s", "absent"); got != "absent" {
		t.Errorf("expected stale field removed, got %q", got)
	}
}

func TestSavedStateStore_ListAndDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debatekeeper.db")
	s, err := NewSavedStateStore(path)
	if err != nil {
		t.Fatalf("NewSavedStateStore failed: %v", err)
	}
	defer s.Close()

	a, _ := s.Create("a")
	b, _ := s.Create("b")

	states, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(states) != 2 {
		t.Fatalf("expected 2 saved states, got %d", len(states))
	}

	if err := s.Delete(a); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	states, err = s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(states) != 1 || states[0].ID != b {
		t.Fatalf("expected only %s to remain, got %+v", b, states)
	}
}
