//go:build !windows

package storage

import "fmt"

// atomicRenameWindows is never reached on this platform; os.Rename is used instead.
func atomicRenameWindows(oldpath, newpath string) error {
	return fmt.Errorf("atomicRenameWindows called on non-Windows platform")
}
