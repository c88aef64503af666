// Package cart holds the storefront's cart state and its persisted snapshot format.
package cart

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ID identifies a single line in the cart. Two lines for the same product
// and options still get distinct IDs.
type ID string

// NewID returns a fresh, time-ordered unique ID.
func NewID() ID {
	u, err := uuid.NewV7()
	if err != nil {
		return ID(uuid.NewString())
	}
	return ID(u.String())
}

// UnmarshalJSON accepts both strings and numbers. Carts written by older
// versions used the creation time in epoch milliseconds as a numeric ID.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("cart id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Item is one configured product in the cart. Items are never edited in
// place; they are added or removed as a whole.
type Item struct {
	ProductID  string  `json:"productId"`
	Title      string  `json:"title"`
	BasePrice  float64 `json:"basePrice"`
	Size       string  `json:"size"`
	Paper      string  `json:"paper"`
	FinalPrice float64 `json:"finalPrice"`
	CartID     ID      `json:"cartId"`
}

// UnmarshalJSON decodes an item, also accepting the older "id" field in
// place of "productId" and numeric product identifiers.
func (it *Item) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return fmt.Errorf("%w: item is not an object", ErrMalformedSnapshot)
	}
	var aux struct {
		ProductID  *ID     `json:"productId"`
		LegacyID   *ID     `json:"id"`
		Title      string  `json:"title"`
		BasePrice  float64 `json:"basePrice"`
		Size       string  `json:"size"`
		Paper      string  `json:"paper"`
		FinalPrice float64 `json:"finalPrice"`
		CartID     ID      `json:"cartId"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*it = Item{
		Title:      aux.Title,
		BasePrice:  aux.BasePrice,
		Size:       aux.Size,
		Paper:      aux.Paper,
		FinalPrice: aux.FinalPrice,
		CartID:     aux.CartID,
	}
	switch {
	case aux.ProductID != nil && *aux.ProductID != "":
		it.ProductID = string(*aux.ProductID)
	case aux.LegacyID != nil:
		it.ProductID = string(*aux.LegacyID)
	}
	return nil
}
