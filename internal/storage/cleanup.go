package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// defaultMinOrphanAge is how old a lock without a session file must be
// before it counts as orphaned. A younger one may belong to a process that
// has opened its session but not saved yet.
const defaultMinOrphanAge = 5 * time.Second

// Cleaner enforces retention policies for session carts.
type Cleaner struct {
	MaxAgeDays int
	MaxCount   int
	MaxSizeMB  int
	// MinOrphanAge overrides defaultMinOrphanAge when non-zero.
	MinOrphanAge time.Duration
	// DryRun reports what would be removed without touching the filesystem.
	DryRun bool
	// Purge ignores the retention policy and removes every idle session
	// other than the excluded one.
	Purge bool
}

// CleanupReport lists the session IDs removed and skipped.
type CleanupReport struct {
	Removed []string
	Skipped []string
}

// ExecuteCleanup applies the policy. excludeID is never removed, nor is any
// session whose lock is currently held.
func (c *Cleaner) ExecuteCleanup(excludeID string) (*CleanupReport, error) {
	sessionsDir, err := SessionDirectory()
	if err != nil {
		return nil, err
	}
	dataDir := filepath.Dir(sessionsDir)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	globalLock, err := acquireFileLock(filepath.Join(dataDir, "cleanup.lock"))
	if err != nil {
		return nil, fmt.Errorf("failed to acquire global cleanup lock: %w", err)
	}
	defer releaseFileLock(globalLock)

	sessions, err := ScanSessions()
	if err != nil {
		return nil, err
	}

	report := &CleanupReport{}
	var candidates []SessionInfo
	for _, s := range sessions {
		if s.ID == excludeID || s.Active {
			report.Skipped = append(report.Skipped, s.ID)
			continue
		}
		candidates = append(candidates, s)
	}

	selected := c.selectForRemoval(candidates, time.Now())
	ids := make([]string, 0, len(selected))
	for id := range selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		s := selected[id]
		if c.DryRun {
			report.Removed = append(report.Removed, s.ID)
			continue
		}
		// Hold the session lock while deleting so nobody opens it mid-way.
		f, ok, err := AcquireLockHandle(s.LockPath)
		if err != nil || !ok {
			report.Skipped = append(report.Skipped, s.ID)
			continue
		}
		if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
			_ = f.Close()
			report.Skipped = append(report.Skipped, s.ID)
			continue
		}
		// The session is gone either way; a leftover lock is an orphan for
		// the next run.
		_ = ReleaseLockHandle(f)
		report.Removed = append(report.Removed, s.ID)
	}

	if err := c.removeOrphanLocks(sessionsDir, report); err != nil {
		return nil, err
	}
	return report, nil
}

// selectForRemoval applies age, count and size limits (or Purge) to the
// idle sessions, keyed by ID.
func (c *Cleaner) selectForRemoval(candidates []SessionInfo, now time.Time) map[string]SessionInfo {
	out := map[string]SessionInfo{}

	if c.Purge {
		for _, s := range candidates {
			out[s.ID] = s
		}
		return out
	}

	if c.MaxAgeDays > 0 {
		cutoff := now.Add(-time.Duration(c.MaxAgeDays) * 24 * time.Hour)
		for _, s := range candidates {
			if s.UpdatedAt.Before(cutoff) {
				out[s.ID] = s
			}
		}
	}

	if c.MaxCount > 0 && len(candidates) > c.MaxCount {
		newest := append([]SessionInfo(nil), candidates...)
		sort.SliceStable(newest, func(i, j int) bool {
			return newest[i].UpdatedAt.After(newest[j].UpdatedAt)
		})
		for _, s := range newest[c.MaxCount:] {
			out[s.ID] = s
		}
	}

	if c.MaxSizeMB > 0 {
		var total int64
		for _, s := range candidates {
			total += s.Size
		}
		maxBytes := int64(c.MaxSizeMB) * 1024 * 1024
		if total > maxBytes {
			oldest := append([]SessionInfo(nil), candidates...)
			sort.SliceStable(oldest, func(i, j int) bool {
				return oldest[i].UpdatedAt.Before(oldest[j].UpdatedAt)
			})
			for _, s := range oldest {
				if total <= maxBytes {
					break
				}
				total -= s.Size
				out[s.ID] = s
			}
		}
	}
	return out
}

// removeOrphanLocks deletes session lock files that have no session file,
// are old enough, and are not held.
func (c *Cleaner) removeOrphanLocks(dir string, report *CleanupReport) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read sessions directory %q: %w", dir, err)
	}

	minAge := c.MinOrphanAge
	if minAge == 0 {
		minAge = defaultMinOrphanAge
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, sessionLockSuffix) {
			continue
		}
		id := strings.TrimSuffix(name, sessionLockSuffix)
		lockPath := filepath.Join(dir, name)

		if _, err := os.Stat(filepath.Join(dir, id+sessionFileSuffix)); !os.IsNotExist(err) {
			// Session file present (or unknown state); the lock is not an orphan.
			continue
		}
		info, err := e.Info()
		if err != nil || time.Since(info.ModTime()) < minAge {
			report.Skipped = append(report.Skipped, id)
			continue
		}
		if c.DryRun {
			report.Removed = append(report.Removed, id)
			continue
		}
		f, ok, err := AcquireLockHandle(lockPath)
		if err != nil || !ok {
			report.Skipped = append(report.Skipped, id)
			continue
		}
		if err := ReleaseLockHandle(f); err != nil {
			report.Skipped = append(report.Skipped, id)
			continue
		}
		report.Removed = append(report.Removed, id)
	}
	return nil
}
