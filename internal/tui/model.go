// Package tui is the interactive storefront: browse prints, configure size
// and paper, manage the cart and check out.
//
// Everything the shop reacts to arrives through the bubbletea update loop:
// keys, terminal focus changes, resume after suspend, and changes to the
// user-wide cart written by other terminals.
package tui

import (
	"errors"
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/joeycumines/pelusa-cart/internal/pricing"
	"github.com/joeycumines/pelusa-cart/internal/shop"
	"github.com/joeycumines/pelusa-cart/internal/storage"
)

type screen int

const (
	screenCatalog screen = iota
	screenConfigure
	screenCart
	screenCheckout
	screenConfirmation
)

const (
	msgAdded     = "Producto añadido al carrito"
	msgEmptyCart = "Tu carrito está vacío."
	msgThanks    = "¡Gracias por tu compra! Nos pondremos en contacto contigo pronto."
)

// Checkout form fields, in tab order.
var formFields = []string{"name", "email", "address"}

type (
	// pageShowMsg is sent once at startup.
	pageShowMsg      struct{}
	changeMsg        storage.Change
	changesClosedMsg struct{}
)

// Model is the bubbletea model of the storefront.
type Model struct {
	shop    *shop.Shop
	format  *pricing.Formatter
	changes <-chan storage.Change
	styles  styles
	zones   *zone.Manager

	screen screen
	// cursor is the selected row of the catalog or the cart.
	cursor int

	product   pricing.Product
	sizeIdx   int
	paperIdx  int
	optionRow int

	form      shop.CheckoutForm
	field     int
	fieldErrs map[string]string
	receipt   shop.Receipt

	status string
	width  int
	height int
}

// New returns the storefront model. changes may be nil; otherwise every
// value received from it makes the shop check for a newer cart.
func New(s *shop.Shop, format *pricing.Formatter, changes <-chan storage.Change) Model {
	return Model{
		shop:    s,
		format:  format,
		changes: changes,
		styles:  defaultStyles(),
		zones:   zone.New(),
	}
}

// Close stops the click zone tracker.
func (m Model) Close() { m.zones.Close() }

// Init reloads the cart and starts listening for outside changes.
func (m Model) Init() tea.Cmd {
	pageShow := func() tea.Msg { return pageShowMsg{} }
	if m.changes == nil {
		return pageShow
	}
	return tea.Batch(pageShow, waitForChange(m.changes))
}

func waitForChange(ch <-chan storage.Change) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return changesClosedMsg{}
		}
		return changeMsg(c)
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case pageShowMsg, tea.ResumeMsg:
		m.dispatch(shop.PageShow{})
	case tea.FocusMsg:
		m.dispatch(shop.VisibilityChanged{Hidden: false})
	case tea.BlurMsg:
		m.dispatch(shop.VisibilityChanged{Hidden: true})
	case changeMsg:
		m.dispatch(shop.StorageChanged{Key: msg.Key})
		return m, waitForChange(m.changes)
	case changesClosedMsg:
		m.changes = nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			m.status = ""
			m.click(msg)
		}
	}
	return m, nil
}

func zoneProduct(i int) string { return fmt.Sprintf("product-%d", i) }
func zoneItem(i int) string    { return fmt.Sprintf("item-%d", i) }

const zoneBadge = "cart-badge"

func (m Model) hit(id string, msg tea.MouseMsg) bool {
	z := m.zones.Get(id)
	return z != nil && !z.IsZero() && z.InBounds(msg)
}

// click handles a left click: the cart badge opens the cart, a catalog
// row opens that print, and a cart row selects that item.
func (m *Model) click(msg tea.MouseMsg) {
	if m.screen != screenCheckout && m.hit(zoneBadge, msg) {
		m.screen, m.cursor = screenCart, 0
		return
	}
	switch m.screen {
	case screenCatalog:
		products := m.shop.Pricer().Catalog().Products
		for i := range products {
			if m.hit(zoneProduct(i), msg) {
				m.cursor = i
				m.openConfigure(products[i])
				return
			}
		}
	case screenCart:
		for i := range m.shop.Items() {
			if m.hit(zoneItem(i), msg) {
				m.cursor = i
				return
			}
		}
	}
}

func (m *Model) dispatch(ev shop.Event) {
	if m.shop.HandleEvent(ev) {
		m.clampCursor()
	}
}

func (m *Model) clampCursor() {
	n := len(m.shop.Pricer().Catalog().Products)
	if m.screen == screenCart {
		n = len(m.shop.Items())
	}
	m.cursor = max(0, min(m.cursor, n-1))
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+z":
		return m, tea.Suspend
	}
	m.status = ""

	switch m.screen {
	case screenCatalog:
		return m.updateCatalog(msg)
	case screenConfigure:
		return m.updateConfigure(msg)
	case screenCart:
		return m.updateCart(msg)
	case screenCheckout:
		return m.updateCheckout(msg)
	case screenConfirmation:
		m.screen, m.cursor = screenCatalog, 0
	}
	return m, nil
}

func (m Model) updateCatalog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	products := m.shop.Pricer().Catalog().Products
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		m.cursor = max(0, m.cursor-1)
	case "down", "j":
		m.cursor = min(len(products)-1, m.cursor+1)
	case "c":
		m.screen, m.cursor = screenCart, 0
	case "enter", " ":
		if len(products) > 0 {
			m.openConfigure(products[m.cursor])
		}
	}
	return m, nil
}

func (m *Model) openConfigure(p pricing.Product) {
	c := m.shop.Pricer().Catalog()
	m.product = p
	m.sizeIdx = max(0, slices.IndexFunc(c.Sizes, func(s pricing.SizeOption) bool { return s.Name == c.DefaultSize }))
	m.paperIdx = max(0, slices.IndexFunc(c.Papers, func(p pricing.PaperOption) bool { return p.Name == c.DefaultPaper }))
	m.optionRow = 0
	m.screen = screenConfigure
}

func (m Model) quote() (pricing.Quote, error) {
	c := m.shop.Pricer().Catalog()
	return m.shop.Pricer().Quote(m.product.ID, c.Sizes[m.sizeIdx].Name, c.Papers[m.paperIdx].Name)
}

func (m Model) updateConfigure(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.shop.Pricer().Catalog()
	step := 0
	switch msg.String() {
	case "esc", "backspace":
		m.screen = screenCatalog
	case "up", "k", "shift+tab":
		m.optionRow = 0
	case "down", "j", "tab":
		m.optionRow = 1
	case "left", "h":
		step = -1
	case "right", "l":
		step = 1
	case "enter", "a":
		q, err := m.quote()
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.shop.AddItem(q)
		m.status = msgAdded
		m.screen = screenCatalog
	}
	if step != 0 {
		if m.optionRow == 0 {
			m.sizeIdx = wrap(m.sizeIdx+step, len(c.Sizes))
		} else {
			m.paperIdx = wrap(m.paperIdx+step, len(c.Papers))
		}
	}
	return m, nil
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

func (m Model) updateCart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.shop.Items()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "b":
		m.screen, m.cursor = screenCatalog, 0
	case "up", "k":
		m.cursor = max(0, m.cursor-1)
	case "down", "j":
		m.cursor = max(0, min(len(items)-1, m.cursor+1))
	case "d", "x", "delete", "backspace":
		if m.cursor < len(items) {
			m.shop.RemoveItem(items[m.cursor].CartID)
			m.clampCursor()
		}
	case "enter":
		if len(items) == 0 {
			m.status = msgEmptyCart
			return m, nil
		}
		m.screen = screenCheckout
		m.field = 0
		m.fieldErrs = nil
	}
	return m, nil
}

func (m *Model) fieldValue(i int) *string {
	switch formFields[i] {
	case "name":
		return &m.form.Name
	case "email":
		return &m.form.Email
	default:
		return &m.form.Address
	}
}

func (m Model) updateCheckout(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.screen = screenCart
		m.clampCursor()
	case tea.KeyTab, tea.KeyDown:
		m.field = wrap(m.field+1, len(formFields))
	case tea.KeyShiftTab, tea.KeyUp:
		m.field = wrap(m.field-1, len(formFields))
	case tea.KeyBackspace:
		v := m.fieldValue(m.field)
		if r := []rune(*v); len(r) > 0 {
			*v = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		*m.fieldValue(m.field) += " "
	case tea.KeyRunes:
		*m.fieldValue(m.field) += string(msg.Runes)
	case tea.KeyEnter:
		if m.field < len(formFields)-1 {
			m.field++
			return m, nil
		}
		m.submit()
	}
	return m, nil
}

func (m *Model) submit() {
	receipt, err := m.shop.Checkout(m.form)
	var invalid *shop.CheckoutError
	switch {
	case err == nil:
		m.receipt = receipt
		m.form = shop.CheckoutForm{}
		m.fieldErrs = nil
		m.screen = screenConfirmation
	case errors.As(err, &invalid):
		m.fieldErrs = invalid.Fields
		for i, name := range formFields {
			if _, bad := invalid.Fields[name]; bad {
				m.field = i
				break
			}
		}
	case errors.Is(err, shop.ErrEmptyCart):
		m.status = msgEmptyCart
		m.screen = screenCart
		m.cursor = 0
	default:
		m.status = err.Error()
	}
}
