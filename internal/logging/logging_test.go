package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNew_Stderr(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "warn", Stderr: &buf})
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()

	logger.Info("hidden")
	logger.Warn("store unavailable", "store", "session:abc")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "store=session:abc") {
		t.Errorf("missing text record: %q", out)
	}
}

func TestNew_File(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "pelusa.log")
	var stderr bytes.Buffer
	logger, closer, err := New(Options{File: path, Level: "debug", Stderr: &stderr})
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("cart loaded", "items", 3)
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	if stderr.Len() != 0 {
		t.Errorf("file logging wrote to stderr: %q", stderr.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &rec); err != nil {
		t.Fatalf("record is not JSON: %v: %q", err, data)
	}
	if rec["msg"] != "cart loaded" || rec["items"] != float64(3) {
		t.Errorf("record = %v", rec)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	t.Parallel()
	if _, _, err := New(Options{Level: "chatty"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	if Discard().Enabled(context.Background(), slog.LevelError) {
		t.Error("Discard logger should drop errors")
	}
}
