package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestSessionStore_GetSet(t *testing.T) {
	SetTestPaths(t.TempDir())
	defer ResetPaths()

	s, err := OpenSessionStore("term--abc")
	if err != nil {
		t.Fatalf("OpenSessionStore failed: %v", err)
	}
	defer s.Close()

	if got, err := s.Get("pelusaCart"); got != nil || err != nil {
		t.Fatalf("expected (nil, nil) before first write, got (%q, %v)", got, err)
	}
	if err := s.Set("pelusaCart", []byte(`[1]`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("other", []byte(`x`)); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get("pelusaCart"); string(got) != `[1]` {
		t.Errorf("got %q", got)
	}

	path, _ := SessionFilePath("term--abc")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("session file is not JSON: %v", err)
	}
	if f.SessionID != "term--abc" || f.Values["other"] != "x" {
		t.Errorf("unexpected session file %+v", f)
	}
}

func TestSessionStore_SecondOpenWouldBlock(t *testing.T) {
	SetTestPaths(t.TempDir())
	defer ResetPaths()

	first, err := OpenSessionStore("shared")
	if err != nil {
		t.Fatal(err)
	}
	_, err = OpenSessionStore("shared")
	if !errors.Is(err, ErrWouldBlock) {
		t.Fatalf("expected ErrWouldBlock, got %v", err)
	}

	if err := first.Close(); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("second Close should be a no-op: %v", err)
	}
	if _, err := first.Get("k"); err == nil {
		t.Error("expected Get on closed store to fail")
	}

	again, err := OpenSessionStore("shared")
	if err != nil {
		t.Fatalf("reopen after close failed: %v", err)
	}
	again.Close()
}

func TestSessionStore_CorruptFile(t *testing.T) {
	SetTestPaths(t.TempDir())
	defer ResetPaths()

	var logs bytes.Buffer
	s, err := OpenSessionStore("corrupt", WithSessionLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	path, _ := SessionFilePath("corrupt")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get("k"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for corrupt session file, got %v", err)
	}
	if err := s.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set should replace a corrupt file: %v", err)
	}
	if !strings.Contains(logs.String(), `msg="discarding unreadable session file" session=corrupt`) {
		t.Errorf("expected the repair on the store's logger, got %q", logs.String())
	}
	if got, _ := s.Get("k"); string(got) != "v" {
		t.Errorf("got %q", got)
	}
}

func TestOpenSessionStore_InvalidID(t *testing.T) {
	SetTestPaths(t.TempDir())
	defer ResetPaths()

	for _, id := range []string{"", "../x", "a/b"} {
		if s, err := OpenSessionStore(id); err == nil {
			s.Close()
			t.Errorf("expected error for id %q", id)
		}
	}
}
