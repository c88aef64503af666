package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
)

var sessionCounter atomic.Int64

// NewTestSessionID returns a session ID unique within the process and
// safe to use as a file name. Pass t.Name() so IDs can be traced back to
// the test that made them.
func NewTestSessionID(prefix, tname string) string {
	id := sessionCounter.Add(1)
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, tname)
	return fmt.Sprintf("%s-%s-%d", prefix, name, id)
}
