package cart

import "math"

// Cart is the in-memory cart owned by the storefront controller. It is not
// safe for concurrent use.
type Cart struct {
	items []Item
}

// New returns a cart holding a copy of items.
func New(items ...Item) *Cart {
	c := &Cart{}
	c.Replace(items)
	return c
}

// Items returns a copy of the cart's items, in insertion order. The result
// is never nil.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of items.
func (c *Cart) Len() int { return len(c.items) }

// Empty reports whether the cart has no items.
func (c *Cart) Empty() bool { return len(c.items) == 0 }

// Add appends item, assigning a new CartID if it has none, and returns the
// stored item.
func (c *Cart) Add(item Item) Item {
	if item.CartID == "" {
		item.CartID = NewID()
	}
	c.items = append(c.items, item)
	return item
}

// Remove drops every item with the given ID and reports whether anything
// was removed.
func (c *Cart) Remove(id ID) bool {
	kept := c.items[:0]
	removed := false
	for _, it := range c.items {
		if it.CartID == id {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	// zero the tail so dropped items don't linger in the backing array
	for i := len(kept); i < len(c.items); i++ {
		c.items[i] = Item{}
	}
	c.items = kept
	return removed
}

// Clear empties the cart.
func (c *Cart) Clear() { c.items = nil }

// Replace swaps the cart contents for a copy of items.
func (c *Cart) Replace(items []Item) {
	c.items = make([]Item, len(items))
	copy(c.items, items)
}

// Subtotal is the sum of the items' final prices, rounded to cents.
func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, it := range c.items {
		sum += it.FinalPrice
	}
	return RoundCents(sum)
}

// Total is Subtotal plus shipping, rounded to cents.
func (c *Cart) Total(shipping float64) float64 {
	return RoundCents(c.Subtotal() + shipping)
}

// RoundCents rounds v to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
