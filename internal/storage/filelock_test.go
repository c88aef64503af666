package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileLock_ExclusiveWithinProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.lock")

	first, err := acquireFileLock(path)
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}

	if _, err := acquireFileLock(path); !errors.Is(err, ErrWouldBlock) {
		t.Fatalf("expected ErrWouldBlock, got %v", err)
	}
	f, ok, err := AcquireLockHandle(path)
	if err != nil || ok || f != nil {
		t.Fatalf("AcquireLockHandle on held lock: f=%v ok=%v err=%v", f, ok, err)
	}

	if err := releaseFileLock(first); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected lock file removed on release, stat err: %v", err)
	}

	f, ok, err = AcquireLockHandle(path)
	if err != nil || !ok {
		t.Fatalf("re-acquire failed: ok=%v err=%v", ok, err)
	}
	if err := ReleaseLockHandle(f); err != nil {
		t.Fatalf("ReleaseLockHandle failed: %v", err)
	}
}

func TestReleaseFileLock_Nil(t *testing.T) {
	if err := releaseFileLock(nil); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
