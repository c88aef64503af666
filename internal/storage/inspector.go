package storage

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SessionInfo describes a session store found on disk.
type SessionInfo struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	LockPath  string    `json:"lockPath"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updatedAt"`
	// Active is true while some process holds the session's lock.
	Active bool `json:"active"`
}

// ScanSessions lists the session stores in the session directory, oldest
// first. A missing directory yields an empty list.
func ScanSessions() ([]SessionInfo, error) {
	dir, err := SessionDirectory()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SessionInfo{}, nil
		}
		return nil, err
	}

	out := []SessionInfo{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, sessionFileSuffix) {
			continue
		}
		id := strings.TrimSuffix(name, sessionFileSuffix)
		path := filepath.Join(dir, name)

		fi, err := os.Stat(path)
		if err != nil {
			continue
		}
		lockPath := filepath.Join(dir, id+sessionLockSuffix)

		// Probe the lock without blocking. On success, close the descriptor
		// but keep the lock file: the session is idle, not orphaned.
		active := false
		if f, ok, err := AcquireLockHandle(lockPath); err == nil {
			if ok {
				_ = f.Close()
			}
			active = !ok
		}

		out = append(out, SessionInfo{
			ID:        id,
			Path:      path,
			LockPath:  lockPath,
			Size:      fi.Size(),
			UpdatedAt: fi.ModTime(),
			Active:    active,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.Before(out[j].UpdatedAt)
	})
	return out, nil
}
