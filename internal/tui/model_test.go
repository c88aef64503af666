package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/pelusa-cart/internal/cart"
	"github.com/joeycumines/pelusa-cart/internal/logging"
	"github.com/joeycumines/pelusa-cart/internal/pricing"
	"github.com/joeycumines/pelusa-cart/internal/reconcile"
	"github.com/joeycumines/pelusa-cart/internal/shop"
	"github.com/joeycumines/pelusa-cart/internal/storage"
	"github.com/joeycumines/pelusa-cart/internal/testutil"
)

type harness struct {
	shop   *shop.Shop
	stores []storage.Store
	model  Model
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	storage.ClearAllMemory()
	t.Cleanup(storage.ClearAllMemory)

	h := &harness{}
	for _, ns := range []string{"local", "session", "tab"} {
		s, err := storage.NewMemoryStore(ns)
		require.NoError(t, err)
		h.stores = append(h.stores, s)
	}
	ms := int64(1000)
	rec := reconcile.New(reconcile.DefaultKey, h.stores, reconcile.WithClock(func() time.Time {
		ms++
		return time.UnixMilli(ms)
	}))
	catalog, err := pricing.DefaultCatalog()
	require.NoError(t, err)
	pricer, err := pricing.NewPricer(catalog, "")
	require.NoError(t, err)
	format, err := pricing.NewFormatter("es")
	require.NoError(t, err)

	h.shop = shop.New(rec, pricer, shop.WithLogger(logging.Discard()))
	h.model = New(h.shop, format, nil)
	t.Cleanup(h.model.Close)
	return h
}

// clickOn renders the view and left-clicks the zone id once the zone
// tracker has seen it.
func (h *harness) clickOn(t *testing.T, id string) {
	t.Helper()
	h.model.View()
	var z *zone.ZoneInfo
	err := testutil.Poll(context.Background(), func() bool {
		z = h.model.zones.Get(id)
		return z != nil && !z.IsZero()
	}, testutil.DefaultTimeout, time.Millisecond)
	require.NoError(t, err, "zone %s never rendered", id)
	h.send(t, tea.MouseMsg{X: z.StartX, Y: z.StartY, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
}

func (h *harness) send(t *testing.T, msgs ...tea.Msg) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = h.model.Update(msg)
		m, ok := next.(Model)
		require.True(t, ok, "Update returned %T", next)
		h.model = m
	}
	return cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// writeElsewhere saves items through a second reconciler over one store,
// the way another terminal sharing that store would.
func (h *harness) writeElsewhere(t *testing.T, store storage.Store, items ...cart.Item) {
	t.Helper()
	other := reconcile.New(reconcile.DefaultKey, []storage.Store{store}, reconcile.WithClock(func() time.Time {
		return time.UnixMilli(1_000_000)
	}))
	report := other.Save(items)
	require.Empty(t, report.Failed())
}

func TestModel_ConfigureAndAdd(t *testing.T) {
	h := newHarness(t)

	h.send(t, key("down"), key("enter"))
	require.Equal(t, screenConfigure, h.model.screen)
	assert.Contains(t, h.model.View(), "Luna de papel")
	assert.Contains(t, h.model.View(), "Precio base: 18,00€")

	// A3 on Brillo: 18 * 1.5 + 2.
	h.send(t, key("right"), key("down"), key("right"))
	assert.Contains(t, h.model.View(), "29,00€")

	h.send(t, key("enter"))
	assert.Equal(t, screenCatalog, h.model.screen)
	assert.Equal(t, msgAdded, h.model.status)

	items := h.shop.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "2", items[0].ProductID)
	assert.Equal(t, "A3", items[0].Size)
	assert.Equal(t, "Brillo", items[0].Paper)
	assert.Equal(t, 29.0, items[0].FinalPrice)
	assert.Contains(t, h.model.View(), "Carrito (1)")

	h.send(t, key("j"))
	assert.Empty(t, h.model.status, "status clears on the next key")
}

func TestModel_OptionsWrap(t *testing.T) {
	h := newHarness(t)
	h.send(t, key("enter"), key("left"))
	assert.Equal(t, 2, h.model.sizeIdx)
	h.send(t, key("right"))
	assert.Equal(t, 0, h.model.sizeIdx)
	h.send(t, key("esc"))
	assert.Equal(t, screenCatalog, h.model.screen)
	assert.Empty(t, h.shop.Items())
}

func TestModel_CartRemove(t *testing.T) {
	h := newHarness(t)
	_, err := h.shop.AddProduct("1", "", "")
	require.NoError(t, err)
	second, err := h.shop.AddProduct("3", "A2", "Algodón")
	require.NoError(t, err)

	h.send(t, key("c"))
	require.Equal(t, screenCart, h.model.screen)
	view := h.model.View()
	assert.Contains(t, view, "Bosque dormido")
	assert.Contains(t, view, "Total")

	h.send(t, key("d"))
	items := h.shop.Items()
	require.Len(t, items, 1)
	assert.Equal(t, second.CartID, items[0].CartID)

	h.send(t, key("d"))
	assert.Empty(t, h.shop.Items())
	assert.Contains(t, h.model.View(), msgEmptyCart)

	h.send(t, key("enter"))
	assert.Equal(t, screenCart, h.model.screen, "an empty cart cannot be checked out")
	assert.Equal(t, msgEmptyCart, h.model.status)
}

func TestModel_Checkout(t *testing.T) {
	h := newHarness(t)
	_, err := h.shop.AddProduct("1", "", "")
	require.NoError(t, err)

	h.send(t, key("c"), key("enter"))
	require.Equal(t, screenCheckout, h.model.screen)

	h.send(t, key("Ana"), tea.KeyMsg{Type: tea.KeySpace}, key("Pérez"), key("enter"))
	h.send(t, key("ana-at-example"), key("enter"))
	h.send(t, key("Calle Mayor 1"), key("enter"))

	assert.Equal(t, screenCheckout, h.model.screen)
	assert.Equal(t, 1, h.model.field, "focus moves to the first invalid field")
	assert.Contains(t, h.model.View(), "email no válido")
	assert.Len(t, h.shop.Items(), 1)

	for range len("ana-at-example") {
		h.send(t, key("backspace"))
	}
	h.send(t, key("ana@example.com"), key("tab"), key("enter"))

	require.Equal(t, screenConfirmation, h.model.screen)
	assert.Equal(t, "Ana Pérez", h.model.receipt.Form.Name)
	assert.Equal(t, 20.0, h.model.receipt.Summary.Total)
	assert.Empty(t, h.shop.Items())
	assert.Contains(t, h.model.View(), msgThanks)

	h.send(t, key("x"))
	assert.Equal(t, screenCatalog, h.model.screen)
}

func TestModel_EventsReload(t *testing.T) {
	h := newHarness(t)
	h.send(t, pageShowMsg{})
	assert.Empty(t, h.shop.Items())

	h.writeElsewhere(t, h.stores[0], cart.Item{ProductID: "4", Title: "Pelusa y el mar", FinalPrice: 22, CartID: "ext-1"})

	h.send(t, changeMsg{Store: "memory:local", Key: "otherKey"})
	assert.Empty(t, h.shop.Items(), "changes to other keys are ignored")

	h.send(t, tea.BlurMsg{})
	assert.Empty(t, h.shop.Items(), "losing focus does not reload")

	h.send(t, changeMsg{Store: "memory:local", Key: reconcile.DefaultKey})
	require.Len(t, h.shop.Items(), 1)
	assert.Equal(t, cart.ID("ext-1"), h.shop.Items()[0].CartID)

	h.writeElsewhere(t, h.stores[1])
	h.send(t, tea.FocusMsg{})
	assert.Len(t, h.shop.Items(), 1, "same timestamp keeps the earlier store's snapshot")
}

func TestModel_ResumeReloadsAndClampsCursor(t *testing.T) {
	h := newHarness(t)
	for range 3 {
		_, err := h.shop.AddProduct("1", "", "")
		require.NoError(t, err)
	}
	h.send(t, key("c"), key("down"), key("down"))
	require.Equal(t, 2, h.model.cursor)

	// Every store now holds a one-item cart with a newer timestamp.
	for _, s := range h.stores {
		h.writeElsewhere(t, s, cart.Item{ProductID: "1", CartID: "only"})
	}
	h.send(t, tea.ResumeMsg{})
	assert.Len(t, h.shop.Items(), 1)
	assert.Equal(t, 0, h.model.cursor)
}

func TestModel_ChangesChannel(t *testing.T) {
	ch := make(chan storage.Change, 1)
	ch <- storage.Change{Store: "local:fs", Key: "pelusaCart"}
	assert.Equal(t, changeMsg{Store: "local:fs", Key: "pelusaCart"}, waitForChange(ch)())

	close(ch)
	assert.Equal(t, changesClosedMsg{}, waitForChange(ch)())

	h := newHarness(t)
	h.model.changes = ch
	cmd := h.send(t, changeMsg{Key: "pelusaCart"})
	require.NotNil(t, cmd, "the model keeps listening after a change")
	h.send(t, changesClosedMsg{})
	assert.Nil(t, h.model.changes)
}

func TestModel_Quit(t *testing.T) {
	h := newHarness(t)
	cmd := h.send(t, key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	h.send(t, key("enter"))
	cmd = h.send(t, key("ctrl+c"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_StoreWarning(t *testing.T) {
	storage.ClearAllMemory()
	t.Cleanup(storage.ClearAllMemory)
	ok, err := storage.NewMemoryStore("tab")
	require.NoError(t, err)
	rec := reconcile.New(reconcile.DefaultKey, []storage.Store{
		storage.Unavailable("session:abc", nil),
		ok,
	})
	catalog, err := pricing.DefaultCatalog()
	require.NoError(t, err)
	pricer, err := pricing.NewPricer(catalog, "")
	require.NoError(t, err)
	format, err := pricing.NewFormatter("es")
	require.NoError(t, err)

	s := shop.New(rec, pricer)
	m := New(s, format, nil)
	next, _ := m.Update(pageShowMsg{})
	view := next.View()
	assert.True(t, strings.Contains(view, "sin acceso a: session:abc"), view)
}

func TestModel_CartScrollsToCursor(t *testing.T) {
	h := newHarness(t)
	for _, id := range []string{"1", "2", "3", "4", "5", "6"} {
		_, err := h.shop.AddProduct(id, "", "")
		require.NoError(t, err)
	}

	// Room for three item rows.
	h.send(t, tea.WindowSizeMsg{Width: 80, Height: cartChrome + 3}, key("c"))
	view := h.model.View()
	assert.Contains(t, view, "Gato en la ventana")
	assert.Contains(t, view, "Bosque dormido")
	assert.NotContains(t, view, "Pelusa y el mar")
	assert.Contains(t, view, "│", "a long cart shows a scrollbar")

	for range 5 {
		h.send(t, key("down"))
	}
	view = h.model.View()
	assert.NotContains(t, view, "Gato en la ventana")
	assert.Contains(t, view, "Zorro curioso")
	// The summary always covers the whole cart.
	assert.Contains(t, view, "117,50€")
}

func TestModel_MouseClicks(t *testing.T) {
	h := newHarness(t)

	h.clickOn(t, zoneProduct(2))
	require.Equal(t, screenConfigure, h.model.screen)
	assert.Equal(t, "3", h.model.product.ID)
	h.send(t, key("enter"))
	_, err := h.shop.AddProduct("5", "", "")
	require.NoError(t, err)

	h.clickOn(t, zoneBadge)
	require.Equal(t, screenCart, h.model.screen)
	assert.Equal(t, 0, h.model.cursor)

	h.clickOn(t, zoneItem(1))
	assert.Equal(t, 1, h.model.cursor)
	h.send(t, key("d"))
	items := h.shop.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "3", items[0].ProductID)

	// Other buttons and presses are ignored.
	h.send(t, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	assert.Equal(t, screenCart, h.model.screen)
}
