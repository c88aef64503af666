package storage

import (
	"path/filepath"
	"testing"
)

func TestSQLiteStore_GetSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "pelusa.db")
	s, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("OpenSQLiteStore failed: %v", err)
	}
	defer s.Close()

	if got, err := s.Get("pelusaCart"); got != nil || err != nil {
		t.Fatalf("expected (nil, nil) for missing key, got (%q, %v)", got, err)
	}
	if err := s.Set("pelusaCart", []byte("one")); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("pelusaCart", []byte("two")); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get("pelusaCart")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "two" {
		t.Errorf("got %q, want two", got)
	}

	// Values survive reopening.
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	reopened, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	if got, _ := reopened.Get("pelusaCart"); string(got) != "two" {
		t.Errorf("after reopen got %q", got)
	}
}

func TestOpenSQLiteStore_EmptyPath(t *testing.T) {
	if _, err := OpenSQLiteStore("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestSQLiteStore_NilStore(t *testing.T) {
	var s *SQLiteStore
	if _, err := s.Get("k"); err == nil {
		t.Error("expected error from nil store")
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close on nil store: %v", err)
	}
}
