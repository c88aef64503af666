package reconcile

import (
	"errors"

	"github.com/joeycumines/pelusa-cart/internal/cart"
	"github.com/joeycumines/pelusa-cart/internal/storage"
)

// Op is the kind of store access a StoreResult describes.
type Op string

const (
	OpRead      Op = "read"
	OpWriteBack Op = "write-back"
	OpWrite     Op = "write"
)

// Outcome classifies the result of one store access.
type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeMissing     Outcome = "missing"
	OutcomeMalformed   Outcome = "malformed"
	OutcomeUnavailable Outcome = "unavailable"
)

// StoreResult records what happened when one store was read or written.
type StoreResult struct {
	Store   string
	Op      Op
	Outcome Outcome
	Err     error
	// Timestamp is the snapshot timestamp read or written; zero otherwise.
	Timestamp int64
}

// Report collects the per-store results of a Load or Save. Nothing about
// a Report needs to be acted on; it exists for diagnostics and tests.
type Report struct {
	Results []StoreResult
	// Selected names the store whose snapshot a Load chose, or "" if no
	// store held a usable snapshot. Unused by Save.
	Selected string
}

// Failed returns the results whose outcome is unavailable or malformed.
func (r Report) Failed() []StoreResult {
	var out []StoreResult
	for _, res := range r.Results {
		if res.Outcome == OutcomeUnavailable || res.Outcome == OutcomeMalformed {
			out = append(out, res)
		}
	}
	return out
}

// For returns the results for one store, in the order they happened.
func (r Report) For(store string) []StoreResult {
	var out []StoreResult
	for _, res := range r.Results {
		if res.Store == store {
			out = append(out, res)
		}
	}
	return out
}

func (r *Report) add(res StoreResult) { r.Results = append(r.Results, res) }

// classify maps a store or decode error to an outcome.
func classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, cart.ErrMalformedSnapshot), errors.Is(err, storage.ErrMalformed):
		return OutcomeMalformed
	case errors.Is(err, storage.ErrUnavailable):
		return OutcomeUnavailable
	default:
		// Any other access failure means the store could not be used.
		return OutcomeUnavailable
	}
}
