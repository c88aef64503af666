//go:build !linux

package session

import (
	"fmt"
	"runtime"
)

// resolveAnchor is only implemented on Linux; elsewhere detection falls
// through to the random fallback.
func resolveAnchor() (string, error) {
	return "", fmt.Errorf("process anchor not supported on %s", runtime.GOOS)
}
