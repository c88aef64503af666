// Package reconcile keeps one cart snapshot mirrored across several
// redundant stores and resolves divergence between them by last writer
// wins on the snapshot timestamp.
//
// Neither Load nor Save ever fails: a store that cannot be read, holds
// nothing, or holds something that is not a cart simply contributes no
// candidate, and a store that cannot be written is skipped. What happened
// to each store is returned as a Report, which callers may ignore.
package reconcile

import (
	"io"
	"log/slog"
	"time"

	"github.com/joeycumines/pelusa-cart/internal/cart"
	"github.com/joeycumines/pelusa-cart/internal/storage"
)

// DefaultKey is the key the cart is stored under in every store.
const DefaultKey = "pelusaCart"

// Reconciler multiplexes a fixed, ordered set of stores. Earlier stores
// win timestamp ties. It is not safe for concurrent use.
type Reconciler struct {
	key    string
	stores []storage.Store
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithClock replaces time.Now as the source of save timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// WithLogger sets the logger for per-store failures, which are logged at
// debug level. The default discards them.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) { r.logger = logger }
}

// New returns a Reconciler over stores, given in priority order.
func New(key string, stores []storage.Store, opts ...Option) *Reconciler {
	if key == "" {
		key = DefaultKey
	}
	r := &Reconciler{
		key:    key,
		stores: append([]storage.Store(nil), stores...),
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Key returns the key the cart is stored under.
func (r *Reconciler) Key() string { return r.key }

// Stores returns the stores in priority order.
func (r *Reconciler) Stores() []storage.Store {
	return append([]storage.Store(nil), r.stores...)
}

// Load returns the items of the newest snapshot held by any store, or an
// empty (non-nil) slice if none holds one. The chosen snapshot is then
// written back to every store so they converge.
func (r *Reconciler) Load() ([]cart.Item, Report) {
	var report Report

	var (
		best     cart.Snapshot
		bestFrom string
		found    bool
	)
	for _, s := range r.stores {
		snap, res := r.read(s)
		report.add(res)
		if res.Outcome != OutcomeOK {
			continue
		}
		// Strictly greater, so earlier stores keep ties.
		if !found || snap.Timestamp > best.Timestamp {
			best, bestFrom, found = snap, s.Name(), true
		}
	}

	if !found {
		return []cart.Item{}, report
	}
	report.Selected = bestFrom

	data, err := cart.EncodeSnapshot(best)
	if err != nil {
		// Only reachable if an item cannot be marshalled; skip convergence.
		r.logger.Debug("cart snapshot not re-encoded", "error", err)
	} else {
		r.writeAll(&report, OpWriteBack, data, best.Timestamp)
	}

	items := best.Items
	if items == nil {
		items = []cart.Item{}
	}
	return items, report
}

// Save writes items, stamped with the current time in epoch milliseconds,
// to every store.
func (r *Reconciler) Save(items []cart.Item) Report {
	var report Report
	snap := cart.Snapshot{
		Items:     append([]cart.Item{}, items...),
		Timestamp: r.now().UnixMilli(),
	}
	if snap.Timestamp < 0 {
		snap.Timestamp = 0
	}
	data, err := cart.EncodeSnapshot(snap)
	if err != nil {
		r.logger.Debug("cart snapshot not encoded", "error", err)
		for _, s := range r.stores {
			report.add(StoreResult{Store: s.Name(), Op: OpWrite, Outcome: OutcomeMalformed, Err: err})
		}
		return report
	}
	r.writeAll(&report, OpWrite, data, snap.Timestamp)
	return report
}

func (r *Reconciler) read(s storage.Store) (cart.Snapshot, StoreResult) {
	res := StoreResult{Store: s.Name(), Op: OpRead}

	raw, err := r.safeGet(s)
	if err != nil {
		res.Outcome, res.Err = classify(err), err
		r.logger.Debug("cart store read failed", "store", s.Name(), "error", err)
		return cart.Snapshot{}, res
	}
	if raw == nil {
		res.Outcome = OutcomeMissing
		return cart.Snapshot{}, res
	}
	snap, err := cart.DecodeSnapshot(raw)
	if err != nil {
		res.Outcome, res.Err = OutcomeMalformed, err
		r.logger.Debug("cart store holds no usable snapshot", "store", s.Name(), "error", err)
		return cart.Snapshot{}, res
	}
	res.Outcome, res.Timestamp = OutcomeOK, snap.Timestamp
	return snap, res
}

func (r *Reconciler) writeAll(report *Report, op Op, data []byte, ts int64) {
	for _, s := range r.stores {
		res := StoreResult{Store: s.Name(), Op: op, Timestamp: ts}
		if err := r.safeSet(s, data); err != nil {
			res.Outcome, res.Err = classify(err), err
			r.logger.Debug("cart store write failed", "store", s.Name(), "op", string(op), "error", err)
		} else {
			res.Outcome = OutcomeOK
		}
		report.add(res)
	}
}

// safeGet and safeSet turn a panicking store into an unavailable one.
func (r *Reconciler) safeGet(s storage.Store) (data []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &panicError{store: s.Name(), value: p}
		}
	}()
	return s.Get(r.key)
}

func (r *Reconciler) safeSet(s storage.Store, data []byte) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &panicError{store: s.Name(), value: p}
		}
	}()
	// Each store gets its own copy.
	return s.Set(r.key, append([]byte(nil), data...))
}
