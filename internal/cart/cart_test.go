package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddAssignsUniqueIDs(t *testing.T) {
	t.Parallel()
	c := New()

	seen := make(map[ID]bool)
	for i := 0; i < 1000; i++ {
		it := c.Add(Item{ProductID: "p1", FinalPrice: 10})
		require.NotEmpty(t, it.CartID)
		require.False(t, seen[it.CartID], "duplicate id %q after %d additions", it.CartID, i)
		seen[it.CartID] = true
	}
	assert.Equal(t, 1000, c.Len())
}

func TestCart_AddKeepsExistingID(t *testing.T) {
	t.Parallel()
	c := New()
	it := c.Add(Item{ProductID: "p1", CartID: "fixed"})
	assert.Equal(t, ID("fixed"), it.CartID)
	assert.Equal(t, ID("fixed"), c.Items()[0].CartID)
}

func TestCart_Remove(t *testing.T) {
	t.Parallel()
	c := New(
		Item{ProductID: "a", CartID: "1"},
		Item{ProductID: "b", CartID: "2"},
		Item{ProductID: "c", CartID: "3"},
	)

	assert.True(t, c.Remove("2"))
	assert.False(t, c.Remove("2"))
	assert.False(t, c.Remove("missing"))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ProductID)
	assert.Equal(t, "c", items[1].ProductID)
}

func TestCart_ItemsIsACopy(t *testing.T) {
	t.Parallel()
	c := New(Item{ProductID: "a", CartID: "1"})
	items := c.Items()
	items[0].ProductID = "mutated"
	assert.Equal(t, "a", c.Items()[0].ProductID)

	src := []Item{{ProductID: "x"}}
	c.Replace(src)
	src[0].ProductID = "y"
	assert.Equal(t, "x", c.Items()[0].ProductID)
}

func TestCart_EmptyItemsIsNotNil(t *testing.T) {
	t.Parallel()
	c := New()
	assert.NotNil(t, c.Items())
	assert.True(t, c.Empty())
	c.Add(Item{})
	c.Clear()
	assert.NotNil(t, c.Items())
	assert.Equal(t, 0, c.Len())
}

func TestCart_Totals(t *testing.T) {
	t.Parallel()
	c := New(
		Item{FinalPrice: 10.10, CartID: "1"},
		Item{FinalPrice: 20.20, CartID: "2"},
		Item{FinalPrice: 0.1, CartID: "3"},
	)
	assert.Equal(t, 30.4, c.Subtotal())
	assert.Equal(t, 35.4, c.Total(5))

	assert.Equal(t, 5.0, New().Total(5))
}
