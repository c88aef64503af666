//go:build linux

package session

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// transient wrappers are walked through rather than anchored to.
var transient = map[string]bool{
	"sudo": true, "su": true, "doas": true, "setsid": true, "env": true,
	"time": true, "timeout": true, "nohup": true, "xargs": true,
	"strace": true, "ltrace": true, "pelusa": true, "go": true,
}

// procStat holds the /proc/[pid]/stat fields the anchor needs.
type procStat struct {
	pid       int
	comm      string
	ppid      int
	startTime uint64
}

// resolveAnchor fingerprints the nearest stable ancestor: the first parent
// that is not a transient wrapper, identified by boot ID, PID namespace,
// PID and start time so a recycled PID gives a different fingerprint.
func resolveAnchor() (string, error) {
	data, err := os.ReadFile("/proc/sys/kernel/random/boot_id")
	if err != nil {
		return "", fmt.Errorf("failed to read boot_id: %w", err)
	}
	bootID := strings.TrimSpace(string(data))
	if bootID == "" {
		return "", fmt.Errorf("boot_id is empty")
	}
	ns, err := os.Readlink("/proc/self/ns/pid")
	if err != nil {
		ns = "host"
	}

	anchor, err := findAnchor(os.Getpid(), readProcStat)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s:%d:%d", bootID, ns, anchor.pid, anchor.startTime), nil
}

// findAnchor walks up from pid (which is never itself the anchor).
func findAnchor(pid int, stat func(int) (*procStat, error)) (*procStat, error) {
	self, err := stat(pid)
	if err != nil {
		return nil, err
	}
	cur := self
	for depth := 0; depth < 64; depth++ {
		if cur.ppid <= 1 {
			break
		}
		parent, err := stat(cur.ppid)
		if err != nil || parent.startTime > cur.startTime {
			// Parent gone or PID reused.
			break
		}
		cur = parent
		if !transient[strings.ToLower(cur.comm)] {
			return cur, nil
		}
	}
	if cur == self {
		return nil, fmt.Errorf("no stable ancestor for pid %d", pid)
	}
	return cur, nil
}

// readProcStat parses /proc/[pid]/stat. The command name is bracketed by
// the first '(' and the last ')', since it may itself contain parentheses.
func readProcStat(pid int) (*procStat, error) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return nil, err
	}
	return parseProcStat(pid, data)
}

func parseProcStat(pid int, data []byte) (*procStat, error) {
	open := bytes.IndexByte(data, '(')
	closing := bytes.LastIndexByte(data, ')')
	if open < 1 || closing < open {
		return nil, fmt.Errorf("malformed stat for pid %d", pid)
	}
	if got, err := strconv.Atoi(string(bytes.TrimSpace(data[:open]))); err != nil || got != pid {
		return nil, fmt.Errorf("pid mismatch for %d", pid)
	}
	// After comm: state ppid pgrp session tty_nr tpgid flags minflt cminflt
	// majflt cmajflt utime stime cutime cstime priority nice num_threads
	// itrealvalue starttime ...
	fields := strings.Fields(string(data[closing+1:]))
	if len(fields) < 20 {
		return nil, fmt.Errorf("stat too short for pid %d", pid)
	}
	ppid, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("failed to parse ppid: %w", err)
	}
	start, err := strconv.ParseUint(fields[19], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse starttime: %w", err)
	}
	return &procStat{pid: pid, comm: string(data[open+1 : closing]), ppid: ppid, startTime: start}, nil
}
