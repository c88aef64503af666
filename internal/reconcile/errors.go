package reconcile

import (
	"fmt"

	"github.com/joeycumines/pelusa-cart/internal/storage"
)

// panicError is recorded when a store panics instead of returning an error.
type panicError struct {
	store string
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("%s: store panicked: %v", e.store, e.value)
}

func (e *panicError) Unwrap() error { return storage.ErrUnavailable }
