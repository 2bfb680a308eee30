package store

import (
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	return s
}

func TestNew_InMemory(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	// Schema is applied by New; the dataset starts empty.
	n, err := s.TransactionCount()
	if err != nil {
		t.Fatalf("TransactionCount failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty store, got %d transactions", n)
	}
}

func TestNew_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := New(path)
	if err != nil {
		t.Fatalf("failed to create file-backed store: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	// Reopening must find the schema in place.
	s2, err := New(path)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer s2.Close()

	if _, err := s2.TransactionCount(); err != nil {
		t.Errorf("schema missing after reopen: %v", err)
	}
}

func TestClose_Idempotent(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Close(); err != nil {
		t.Errorf("first Close failed: %v", err)
	}
	// A second close must not panic.
	s.Close()
}
