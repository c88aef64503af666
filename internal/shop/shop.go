// Package shop is the storefront controller. It owns the cart, keeps it in
// step with the persisted copies, and exposes the actions the interface
// offers: add, remove, check out.
package shop

import (
	"fmt"
	"log/slog"

	"github.com/joeycumines/pelusa-cart/internal/cart"
	"github.com/joeycumines/pelusa-cart/internal/pricing"
	"github.com/joeycumines/pelusa-cart/internal/reconcile"
)

// DefaultShipping is the flat shipping charge added to every order.
const DefaultShipping = 5.00

// Shop is not safe for concurrent use; drive it from one goroutine.
type Shop struct {
	cart     *cart.Cart
	rec      *reconcile.Reconciler
	pricer   *pricing.Pricer
	shipping float64
	onChange func()
	logger   *slog.Logger
	report   reconcile.Report
}

// Option configures a Shop.
type Option func(*Shop)

// WithShipping overrides DefaultShipping.
func WithShipping(v float64) Option {
	return func(s *Shop) { s.shipping = v }
}

// WithRenderHook registers fn to run after every change to the cart,
// including reloads.
func WithRenderHook(fn func()) Option {
	return func(s *Shop) { s.onChange = fn }
}

// WithLogger sets the logger. The default is slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Shop) { s.logger = logger }
}

// New returns a shop with an empty cart. Call Reload to pick up the
// persisted one.
func New(rec *reconcile.Reconciler, pricer *pricing.Pricer, opts ...Option) *Shop {
	s := &Shop{
		cart:     cart.New(),
		rec:      rec,
		pricer:   pricer,
		shipping: DefaultShipping,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pricer returns the pricer used to quote products.
func (s *Shop) Pricer() *pricing.Pricer { return s.pricer }

// Items returns a copy of the cart contents.
func (s *Shop) Items() []cart.Item { return s.cart.Items() }

// LastReport returns the per-store report of the most recent load or save.
func (s *Shop) LastReport() reconcile.Report { return s.report }

// Reload replaces the cart with the newest persisted snapshot.
func (s *Shop) Reload() reconcile.Report {
	items, report := s.rec.Load()
	s.cart.Replace(items)
	s.report = report
	s.logger.Debug("cart reloaded", "items", len(items), "selected", report.Selected)
	s.changed()
	return report
}

// HandleEvent reloads the cart if ev may have made it stale, and reports
// whether it did.
func (s *Shop) HandleEvent(ev Event) bool {
	switch ev := ev.(type) {
	case PageShow:
	case StorageChanged:
		if ev.Key != s.rec.Key() {
			return false
		}
	case VisibilityChanged:
		if ev.Hidden {
			return false
		}
	default:
		return false
	}
	s.Reload()
	return true
}

// AddItem appends the quoted configuration and persists the cart.
func (s *Shop) AddItem(q pricing.Quote) cart.Item {
	item := s.cart.Add(q.Item())
	s.save()
	s.logger.Info("item added", "product", item.ProductID, "size", item.Size, "paper", item.Paper, "price", item.FinalPrice)
	s.changed()
	return item
}

// AddProduct quotes and adds a product in one step.
func (s *Shop) AddProduct(productID, size, paper string) (cart.Item, error) {
	q, err := s.pricer.Quote(productID, size, paper)
	if err != nil {
		return cart.Item{}, err
	}
	return s.AddItem(q), nil
}

// RemoveItem drops the line with the given ID, persisting and re-rendering
// only if something was removed.
func (s *Shop) RemoveItem(id cart.ID) bool {
	if !s.cart.Remove(id) {
		return false
	}
	s.save()
	s.logger.Info("item removed", "cartId", string(id))
	s.changed()
	return true
}

// Clear empties and persists the cart.
func (s *Shop) Clear() {
	s.cart.Clear()
	s.save()
	s.changed()
}

// Receipt is what a successful checkout returns.
type Receipt struct {
	Form    CheckoutForm
	Items   []cart.Item
	Summary Summary
}

// Checkout validates the form and, if it is complete, empties the cart.
// No payment is taken.
func (s *Shop) Checkout(form CheckoutForm) (Receipt, error) {
	if s.cart.Empty() {
		return Receipt{}, ErrEmptyCart
	}
	if err := form.Validate(); err != nil {
		return Receipt{}, fmt.Errorf("checkout: %w", err)
	}
	receipt := Receipt{Form: form, Items: s.cart.Items(), Summary: s.Summary()}
	s.cart.Clear()
	s.save()
	s.logger.Info("order placed", "items", len(receipt.Items), "total", receipt.Summary.Total)
	s.changed()
	return receipt, nil
}

// Summary is the totals block shown under the cart.
type Summary struct {
	Count    int
	Subtotal float64
	Shipping float64
	Total    float64
	Empty    bool
}

// Summary computes the cart totals. Total is always subtotal plus shipping.
func (s *Shop) Summary() Summary {
	return Summary{
		Count:    s.cart.Len(),
		Subtotal: s.cart.Subtotal(),
		Shipping: s.shipping,
		Total:    s.cart.Total(s.shipping),
		Empty:    s.cart.Empty(),
	}
}

func (s *Shop) save() {
	s.report = s.rec.Save(s.cart.Items())
	if failed := s.report.Failed(); len(failed) > 0 {
		s.logger.Debug("cart saved with store failures", "failed", len(failed))
	}
}

func (s *Shop) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}
