package command

import (
	"bytes"
	"testing"

	"github.com/joeycumines/pelusa-cart/internal/config"
	"github.com/joeycumines/pelusa-cart/internal/storage"
)

// sandbox isolates a test from the user's data directory, environment and
// in-memory stores, and returns an empty configuration.
func sandbox(t *testing.T) *config.Config {
	t.Helper()
	storage.SetTestPaths(t.TempDir())
	t.Cleanup(storage.ResetPaths)
	t.Cleanup(storage.ClearAllMemory)
	for _, name := range []string{"PELUSA_SESSION_ID", "PELUSA_CART_BACKEND", "PELUSA_LOG_FILE", "PELUSA_LOG_LEVEL"} {
		t.Setenv(name, "")
	}
	return config.NewConfig()
}

// execute runs cmd the way main does: flags first, then Execute.
func execute(t *testing.T, cmd Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	fs := newTestFlagSet(cmd)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	var out, errOut bytes.Buffer
	err = cmd.Execute(fs.Args(), &out, &errOut)
	return out.String(), errOut.String(), err
}
