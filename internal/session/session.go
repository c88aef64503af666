// Package session works out which terminal session the current process
// belongs to, so state can be scoped to "this terminal" the way a browser
// scopes session storage to a tab.
//
// IDs have the form {namespace}--{payload}, contain only [A-Za-z0-9._-],
// and are at most MaxIDLength characters, so they can be used as file
// names on every platform.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxIDLength bounds the full ID.
	MaxIDLength = 80
	// Delimiter separates namespace and payload.
	Delimiter = "--"
	// shortHash is how many hex digits of a SHA-256 are kept (64 bits).
	shortHash = 16
)

// Namespaces, one per source. Distinct so sources never collide.
const (
	NamespaceExplicit = "ex"
	NamespaceTmux     = "tmux"
	NamespaceScreen   = "screen"
	NamespaceSSH      = "ssh"
	NamespaceTerminal = "terminal"
	NamespaceAnchor   = "anchor"
	NamespaceUUID     = "uuid"
)

// EnvSessionID overrides detection when set.
const EnvSessionID = "PELUSA_SESSION_ID"

// Detector resolves session IDs. The zero value uses the real environment.
type Detector struct {
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
	// GOOS defaults to runtime.GOOS.
	GOOS string
	// Tmux queries tmux for its session:window:pane tuple. Defaults to
	// running `tmux display-message`.
	Tmux func() (string, error)
	// Anchor returns a stable per-terminal fingerprint. Defaults to the
	// platform process-tree anchor.
	Anchor func() (string, error)
}

// GetSessionID resolves the session ID using the real environment. It
// returns the ID and a short label naming the source that produced it.
func GetSessionID(explicit string) (id, source string, err error) {
	return Detector{}.Detect(explicit)
}

// Detect tries, in order: explicit value, PELUSA_SESSION_ID, tmux pane,
// GNU screen, SSH connection, macOS terminal session, process-tree
// anchor, and finally a random UUID.
func (d Detector) Detect(explicit string) (id, source string, err error) {
	getenv := d.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	goos := d.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	if explicit != "" {
		return formatExplicit(explicit), "explicit-flag", nil
	}
	if v := getenv(EnvSessionID); v != "" {
		return formatExplicit(v), "explicit-env", nil
	}

	if getenv("TMUX_PANE") != "" {
		tmux := d.Tmux
		if tmux == nil {
			tmux = queryTmux
		}
		if raw, err := tmux(); err == nil && raw != "" {
			return formatTmux(raw), "tmux", nil
		}
	}
	if sty := getenv("STY"); sty != "" {
		return hashed(NamespaceScreen, "screen:"+sty), "screen", nil
	}
	if conn := getenv("SSH_CONNECTION"); conn != "" {
		return hashed(NamespaceSSH, "ssh:"+strings.Join(strings.Fields(conn), ":")), "ssh-env", nil
	}
	if goos == "darwin" {
		if term := getenv("TERM_SESSION_ID"); term != "" {
			return hashed(NamespaceTerminal, "terminal:"+term), "macos-terminal", nil
		}
	}

	anchor := d.Anchor
	if anchor == nil {
		anchor = resolveAnchor
	}
	if fp, err := anchor(); err == nil && fp != "" {
		return hashed(NamespaceAnchor, fp), "deep-anchor", nil
	}

	u, err := uuid.NewRandom()
	if err != nil {
		return "", "", fmt.Errorf("all session detection methods failed: %w", err)
	}
	return Format(NamespaceUUID, u.String()), "uuid-fallback", nil
}

// formatExplicit keeps a user-supplied namespace if there is one.
func formatExplicit(v string) string {
	if ns, payload, ok := strings.Cut(v, Delimiter); ok {
		return Format(sanitize(ns), payload)
	}
	return Format(NamespaceExplicit, v)
}

var tmuxTuple = regexp.MustCompile(`^\$(\w+):@(\w+):%(\w+)$`)

// formatTmux turns "$0:@1:%2" into tmux--s0.w1.p2.
func formatTmux(raw string) string {
	if m := tmuxTuple.FindStringSubmatch(raw); m != nil {
		return Format(NamespaceTmux, fmt.Sprintf("s%s.w%s.p%s", m[1], m[2], m[3]))
	}
	return Format(NamespaceTmux, strings.NewReplacer("$", "s", "@", "w", "%", "p", ":", ".").Replace(raw))
}

func queryTmux() (string, error) {
	path, err := exec.LookPath("tmux")
	if err != nil {
		return "", fmt.Errorf("tmux not found in PATH: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, "display-message", "-p", "#{session_id}:#{window_id}:#{pane_id}").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// hashed formats a short hash of value under namespace.
func hashed(namespace, value string) string {
	return namespace + Delimiter + hashString(value)[:shortHash]
}

// Format builds {namespace}--{payload}, sanitizing the payload. A payload
// too long to fit is truncated and suffixed with a hash of the original,
// so distinct long inputs stay distinct.
func Format(namespace, payload string) string {
	sum := hashString(payload)
	payload = sanitize(payload)

	room := MaxIDLength - len(namespace) - len(Delimiter)
	if len(payload) > room {
		keep := room - 9 // "_" + 8 hash chars
		if keep < 8 {
			payload = sum[:room]
		} else {
			payload = payload[:keep] + "_" + sum[:8]
		}
	}
	return namespace + Delimiter + payload
}

// sanitize replaces anything outside [A-Za-z0-9._-] with '_'.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
