package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var formLabels = map[string]string{
	"name":    "Nombre",
	"email":   "Email",
	"address": "Dirección",
}

// View implements tea.Model.
func (m Model) View() string {
	var body, help string
	switch m.screen {
	case screenCatalog:
		body, help = m.viewCatalog(), "↑/↓ elegir · enter configurar · c carrito · q salir"
	case screenConfigure:
		body, help = m.viewConfigure(), "↑/↓ opción · ←/→ cambiar · enter añadir · esc volver"
	case screenCart:
		body, help = m.viewCart(), "↑/↓ elegir · d quitar · enter pagar · esc volver"
	case screenCheckout:
		body, help = m.viewCheckout(), "tab campo · enter siguiente/confirmar · esc volver"
	case screenConfirmation:
		body, help = m.viewConfirmation(), "pulsa cualquier tecla para seguir comprando"
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString("\n" + m.styles.status.Render(m.status) + "\n")
	}
	if w := m.viewStoreWarning(); w != "" {
		b.WriteString("\n" + w + "\n")
	}
	b.WriteString("\n" + m.styles.muted.Render(help) + "\n")
	return m.zones.Scan(b.String())
}

func (m Model) viewHeader() string {
	title := m.styles.title.Render("Pelusa · Láminas")
	badge := m.zones.Mark(zoneBadge, m.styles.badge.Render(fmt.Sprintf("Carrito (%d)", len(m.shop.Items()))))
	gap := "  "
	if m.width > 0 {
		if n := m.width - lipgloss.Width(title) - lipgloss.Width(badge); n > 2 {
			gap = strings.Repeat(" ", n)
		}
	}
	return title + gap + badge
}

// viewStoreWarning notes stores that could not be used by the last load
// or save. The cart still works without them.
func (m Model) viewStoreWarning() string {
	failed := m.shop.LastReport().Failed()
	if len(failed) == 0 {
		return ""
	}
	seen := map[string]bool{}
	var names []string
	for _, r := range failed {
		if !seen[r.Store] {
			seen[r.Store] = true
			names = append(names, r.Store)
		}
	}
	return m.styles.warning.Render("⚠ sin acceso a: " + strings.Join(names, ", "))
}

func (m Model) cursorMark(selected bool) string {
	if selected {
		return m.styles.selected.Render("›") + " "
	}
	return "  "
}

func (m Model) viewCatalog() string {
	products := m.shop.Pricer().Catalog().Products
	titles := make([]string, len(products))
	for i, p := range products {
		titles[i] = p.Title
	}
	tw := columnWidth(titles, 12, 32)

	var b strings.Builder
	for i, p := range products {
		title := padRight(p.Title, tw)
		if i == m.cursor {
			title = m.styles.selected.Render(title)
		}
		row := fmt.Sprintf("%s%s  %s", m.cursorMark(i == m.cursor), title,
			m.styles.price.Render(padLeft("desde "+m.format.Price(p.BasePrice), 14)))
		b.WriteString(m.zones.Mark(zoneProduct(i), row) + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m Model) viewConfigure() string {
	c := m.shop.Pricer().Catalog()
	sizes := make([]string, len(c.Sizes))
	for i, s := range c.Sizes {
		sizes[i] = s.Name
	}
	papers := make([]string, len(c.Papers))
	for i, p := range c.Papers {
		papers[i] = p.Name
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render(m.product.Title) + "\n")
	b.WriteString(m.styles.muted.Render("Precio base: "+m.format.Price(m.product.BasePrice)) + "\n\n")
	b.WriteString(m.optionLine("Tamaño", sizes, m.sizeIdx, m.optionRow == 0) + "\n")
	b.WriteString(m.optionLine("Papel", papers, m.paperIdx, m.optionRow == 1) + "\n\n")

	if q, err := m.quote(); err != nil {
		b.WriteString(m.styles.errText.Render(err.Error()))
	} else {
		b.WriteString("Total: " + m.styles.total.Render(m.format.Price(q.Price)))
	}
	return m.styles.box.Render(b.String())
}

func (m Model) optionLine(label string, options []string, selected int, focused bool) string {
	parts := make([]string, len(options))
	for i, o := range options {
		if i == selected {
			parts[i] = m.styles.selected.Render("[" + o + "]")
		} else {
			parts[i] = m.styles.muted.Render(" " + o + " ")
		}
	}
	return m.cursorMark(focused) + m.styles.label.Render(label) + strings.Join(parts, " ")
}

func (m Model) viewCart() string {
	items := m.shop.Items()
	if len(items) == 0 {
		return m.styles.muted.Render(msgEmptyCart)
	}

	titles := make([]string, len(items))
	for i, it := range items {
		titles[i] = it.Title
	}
	tw := columnWidth(titles, 12, 28)

	rows := 0
	if m.height > 0 {
		rows = max(3, m.height-cartChrome)
	}
	start, n := window(len(items), rows, m.cursor)

	lines := make([]string, 0, n)
	for i := start; i < start+n; i++ {
		it := items[i]
		title := padRight(it.Title, tw)
		if i == m.cursor {
			title = m.styles.selected.Render(title)
		}
		details := m.styles.muted.Render(padRight(it.Size+" · "+it.Paper, 14))
		row := fmt.Sprintf("%s%s  %s %s", m.cursorMark(i == m.cursor), title, details,
			m.styles.price.Render(padLeft(m.format.Price(it.FinalPrice), 10)))
		lines = append(lines, m.zones.Mark(zoneItem(i), row))
	}
	list := strings.Join(lines, "\n")
	if n < len(items) {
		list = lipgloss.JoinHorizontal(lipgloss.Top, list, " ",
			scrollbar(len(items), n, start, m.styles.thumb, m.styles.track))
	}
	return list + "\n\n" + m.viewSummary()
}

func (m Model) viewSummary() string {
	s := m.shop.Summary()
	row := func(label, value string) string {
		return padRight(label, 12) + padLeft(value, 12)
	}
	return strings.Join([]string{
		row("Subtotal", m.format.Price(s.Subtotal)),
		row("Envío", m.format.Price(s.Shipping)),
		m.styles.total.Render(row("Total", m.format.Price(s.Total))),
	}, "\n")
}

func (m Model) viewCheckout() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Finalizar compra") + "\n\n")
	for i, name := range formFields {
		value := *m.fieldValue(i)
		line := m.styles.label.Render(formLabels[name]) + m.styles.input.Render(value)
		if i == m.field {
			line = m.cursorMark(true) + line + m.styles.focused.Render("▏")
		} else {
			line = m.cursorMark(false) + line
		}
		b.WriteString(line + "\n")
		if msg, bad := m.fieldErrs[name]; bad {
			b.WriteString("    " + m.styles.errText.Render(fieldError(msg)) + "\n")
		}
	}
	b.WriteString("\n" + m.viewSummary())
	return b.String()
}

func fieldError(msg string) string {
	switch msg {
	case "required":
		return "campo obligatorio"
	case "not a valid address":
		return "email no válido"
	default:
		return msg
	}
}

func (m Model) viewConfirmation() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render(msgThanks) + "\n\n")
	for _, it := range m.receipt.Items {
		fmt.Fprintf(&b, "  %s  %s\n", padRight(it.Title+" ("+it.Size+", "+it.Paper+")", 40), padLeft(m.format.Price(it.FinalPrice), 10))
	}
	fmt.Fprintf(&b, "\n  %s  %s\n", padRight("Total", 40), m.styles.total.Render(padLeft(m.format.Price(m.receipt.Summary.Total), 10)))
	fmt.Fprintf(&b, "  %s", m.styles.muted.Render("Enviaremos la confirmación a "+m.receipt.Form.Email))
	return b.String()
}
