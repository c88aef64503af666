package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSystemStore_GetSet(t *testing.T) {
	dir := t.TempDir()
	SetTestPaths(dir)
	defer ResetPaths()

	s, err := NewFileSystemStore()
	if err != nil {
		t.Fatalf("NewFileSystemStore failed: %v", err)
	}
	defer s.Close()

	got, err := s.Get("pelusaCart")
	if err != nil || got != nil {
		t.Fatalf("expected (nil, nil) for missing key, got (%q, %v)", got, err)
	}

	if err := s.Set("pelusaCart", []byte(`{"items":[],"timestamp":1}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err = s.Get("pelusaCart")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `{"items":[],"timestamp":1}` {
		t.Errorf("unexpected value %q", got)
	}

	if _, err := os.Stat(filepath.Join(dir, "local", "pelusaCart.json")); err != nil {
		t.Errorf("expected value file on disk: %v", err)
	}

	// A second store over the same directory sees the same data.
	other, err := NewFileSystemStore()
	if err != nil {
		t.Fatal(err)
	}
	got, _ = other.Get("pelusaCart")
	if string(got) != `{"items":[],"timestamp":1}` {
		t.Errorf("second store saw %q", got)
	}
}

func TestFileSystemStore_RejectsUnsafeKeys(t *testing.T) {
	SetTestPaths(t.TempDir())
	defer ResetPaths()

	s, err := NewFileSystemStore()
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"", "../escape", "a/b", "with space"} {
		if err := s.Set(key, []byte("x")); err == nil {
			t.Errorf("expected Set(%q) to fail", key)
		}
		if _, err := s.Get(key); err == nil {
			t.Errorf("expected Get(%q) to fail", key)
		}
	}
}
