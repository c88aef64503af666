package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/pelusa-cart/internal/storage"
)

// sandbox points config, data and session at a fresh temp dir.
func sandbox(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PELUSA_CONFIG", filepath.Join(dir, "config"))
	t.Setenv("PELUSA_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("PELUSA_SESSION_ID", "main-test")
	t.Setenv("PELUSA_LOG_FILE", "")
	t.Setenv("PELUSA_LOG_LEVEL", "")
	t.Setenv("PELUSA_CART_BACKEND", "")
	t.Cleanup(storage.ResetPaths)
	t.Cleanup(storage.ClearAllMemory)
	return dir
}

func runArgs(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRun(t *testing.T) {
	sandbox(t)

	for _, args := range [][]string{nil, {"help"}, {"-h"}, {"--help"}, {"version"}, {"help", "cart"}, {"cart", "-h"}} {
		_, _, err := runArgs(t, args...)
		assert.NoError(t, err, "args %q", args)
	}

	_, stderr, err := runArgs(t, "nonexistent")
	require.Error(t, err)
	assert.Contains(t, stderr, "Unknown command: nonexistent")

	out, _, err := runArgs(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "pelusa version "+version+"\n", out)
}

func TestRun_CartLifecycle(t *testing.T) {
	dir := sandbox(t)

	out, _, err := runArgs(t, "cart", "add", "3", "-size", "A3", "-paper", "Brillo")
	require.NoError(t, err)
	assert.Contains(t, out, "Bosque dormido (A3, Brillo) 32,00€")

	out, _, err = runArgs(t, "cart", "-format", "json", "list")
	require.NoError(t, err)
	var listing struct {
		Items []struct {
			ProductID  string  `json:"productId"`
			FinalPrice float64 `json:"finalPrice"`
		} `json:"items"`
		Total float64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &listing))
	require.Len(t, listing.Items, 1)
	assert.Equal(t, "3", listing.Items[0].ProductID)
	assert.Equal(t, 37.0, listing.Total)

	assert.FileExists(t, filepath.Join(dir, "data", "local", "pelusaCart.json"))
	assert.FileExists(t, filepath.Join(dir, "data", "sessions", "ex--main-test.session.json"))

	_, _, err = runArgs(t, "cart", "checkout", "-name", "Ana", "-email", "ana@example.com", "-address", "Calle 1")
	require.NoError(t, err)

	out, _, err = runArgs(t, "cart")
	require.NoError(t, err)
	assert.Contains(t, out, "Tu carrito está vacío.")
}

func TestRun_ConfigSetAffectsCommands(t *testing.T) {
	sandbox(t)

	_, _, err := runArgs(t, "config", "pricing.shipping", "0")
	require.NoError(t, err)

	_, _, err = runArgs(t, "cart", "add", "1")
	require.NoError(t, err)
	out, _, err := runArgs(t, "cart", "-format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"total": 15`)

	_, _, err = runArgs(t, "config", "pricing.shipping", "free")
	assert.Error(t, err)
}
