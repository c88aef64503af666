package config

import (
	"os"
	"path/filepath"
	"testing"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestSetKeyInFile_NewFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "config")

	if err := SetKeyInFile(path, "cart.local-backend", "sqlite"); err != nil {
		t.Fatalf("SetKeyInFile: %v", err)
	}
	if got := readFile(t, path); got != "cart.local-backend sqlite\n" {
		t.Fatalf("content = %q", got)
	}
	c, err := LoadFromPath(path)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := c.GetGlobalOption("cart.local-backend"); v != "sqlite" {
		t.Errorf("round trip = %q", v)
	}
}

func TestSetKeyInFile_UpdateInPlace(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config")
	initial := "# shop\ncart.key a\npricing.locale es\n"
	if err := os.WriteFile(path, []byte(initial), 0644); err != nil {
		t.Fatal(err)
	}
	if err := SetKeyInFile(path, "cart.key", "b"); err != nil {
		t.Fatal(err)
	}
	if got, want := readFile(t, path), "# shop\ncart.key b\npricing.locale es\n"; got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestSetKeyInFile_InsertBeforeSections(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config")
	initial := "cart.key a\n\n[cart]\nformat json\n[sessions]\nmaxCount 3\n"
	if err := os.WriteFile(path, []byte(initial), 0644); err != nil {
		t.Fatal(err)
	}
	if err := SetKeyInFile(path, "format", "text"); err != nil {
		t.Fatal(err)
	}
	want := "cart.key a\n\nformat text\n[cart]\nformat json\n[sessions]\nmaxCount 3\n"
	if got := readFile(t, path); got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestSetKeyInFile_Invalid(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config")
	for _, tc := range []struct{ key, value string }{
		{"", "x"},
		{"two words", "x"},
		{"[cart]", "x"},
		{"cart.key", "a\nb"},
	} {
		if err := SetKeyInFile(path, tc.key, tc.value); err == nil {
			t.Errorf("SetKeyInFile(%q, %q) succeeded", tc.key, tc.value)
		}
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no file to be written, stat err = %v", err)
	}
}
