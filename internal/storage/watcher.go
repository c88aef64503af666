package storage

import (
	"bytes"
	"context"
	"sync"
	"time"
)

// Change reports that the value under Key in the named store was replaced.
type Change struct {
	Store string
	Key   string
}

// Watcher notices writes made to a shared store by other processes. It
// polls one key and emits a Change whenever the raw value differs from the
// last one it saw. Read errors are treated as "no observation".
type Watcher struct {
	Store    Store
	Key      string
	Interval time.Duration

	// Own, if set, holds this process's writes. A polled value equal to
	// the last one written through it is not reported.
	Own *WriteTracker

	// NewTicker defaults to time.NewTicker.
	NewTicker func(d time.Duration) (tick <-chan time.Time, stop func())
}

// Watch starts polling and returns the change channel, which is closed
// once ctx is done. The value present when Watch is called is the
// baseline and is not reported.
func (w *Watcher) Watch(ctx context.Context) <-chan Change {
	out := make(chan Change, 1)

	last, lastErr := w.Store.Get(w.Key)
	seen := lastErr == nil

	newTicker := w.NewTicker
	if newTicker == nil {
		newTicker = defaultNewTicker
	}
	interval := w.Interval
	if interval <= 0 {
		interval = time.Second
	}

	go func() {
		defer close(out)
		ch, stop := newTicker(interval)
		defer stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ch:
			}

			cur, err := w.Store.Get(w.Key)
			if err != nil {
				continue
			}
			if seen && bytes.Equal(cur, last) && (cur == nil) == (last == nil) {
				continue
			}
			changed := seen
			last, seen = cur, true
			if !changed || w.Own.wrote(w.Key, cur) {
				continue
			}
			select {
			case out <- Change{Store: w.Store.Name(), Key: w.Key}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// WriteTracker is a Store that remembers the last value written through it
// under each key.
type WriteTracker struct {
	Store

	mu      sync.Mutex
	written map[string][]byte
}

// TrackWrites wraps s.
func TrackWrites(s Store) *WriteTracker {
	return &WriteTracker{Store: s, written: make(map[string][]byte)}
}

func (t *WriteTracker) Set(key string, value []byte) error {
	if err := t.Store.Set(key, value); err != nil {
		return err
	}
	t.mu.Lock()
	t.written[key] = bytes.Clone(value)
	t.mu.Unlock()
	return nil
}

// wrote reports whether value is the last one written under key. A nil
// tracker has written nothing.
func (t *WriteTracker) wrote(key string, value []byte) bool {
	if t == nil || value == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	last, ok := t.written[key]
	return ok && bytes.Equal(last, value)
}

var _ Store = (*WriteTracker)(nil)
