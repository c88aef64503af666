package command

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joeycumines/pelusa-cart/internal/cart"
	"github.com/joeycumines/pelusa-cart/internal/config"
	"github.com/joeycumines/pelusa-cart/internal/shop"
)

// CartCommand works with the persisted cart from the command line. Every
// invocation loads the cart the same way the shop does on start, so the
// stores are reconciled as a side effect.
type CartCommand struct {
	*BaseCommand
	config  *config.Config
	session string
	format  string
	logs    logFlags
}

// NewCartCommand creates a new cart command.
func NewCartCommand(cfg *config.Config) *CartCommand {
	return &CartCommand{
		BaseCommand: NewBaseCommand("cart", "Show and edit the cart", "cart [options] [list|add|remove|clear|stores|checkout]"),
		config:      cfg,
	}
}

// SetupFlags configures the flags for the cart command.
func (c *CartCommand) SetupFlags(fs *flag.FlagSet) {
	def := "text"
	if v, ok := c.config.GetCommandOption("cart", "format"); ok {
		def = v
	}
	fs.StringVar(&c.session, "session", "", "Session ID for the session cart (overrides auto-discovery)")
	fs.StringVar(&c.format, "format", def, "Output format: text|json")
	c.logs.register(fs)
}

// Execute runs a cart subcommand; the default is list.
func (c *CartCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if c.format != "text" && c.format != "json" {
		return fmt.Errorf("unknown format %q", c.format)
	}
	sub := "list"
	if len(args) > 0 {
		sub, args = strings.ToLower(args[0]), args[1:]
	}

	logger, logCloser, err := newLogger(c.config, c.logs, stderr, false)
	if err != nil {
		return err
	}
	sf, err := openStorefront(c.config, c.session, logger)
	if err != nil {
		_ = logCloser.Close()
		return err
	}
	sf.onClose(logCloser)
	defer func() {
		if err := sf.Close(); err != nil {
			logger.Warn("failed to close stores", "error", err)
		}
	}()

	switch sub {
	case "list":
		if len(args) > 0 {
			return fmt.Errorf("unexpected arguments: %v", args)
		}
		return c.list(sf, stdout)
	case "add":
		return helpOK(c.add(sf, args, stdout, stderr))
	case "remove", "rm":
		if len(args) != 1 {
			return fmt.Errorf("usage: pelusa cart remove <cartId>")
		}
		if !sf.shop.RemoveItem(cart.ID(args[0])) {
			return fmt.Errorf("no item with cart id %q", args[0])
		}
		_, _ = fmt.Fprintf(stdout, "Removed %s\n", args[0])
		return nil
	case "clear":
		sf.shop.Clear()
		_, _ = fmt.Fprintln(stdout, "Cart cleared")
		return nil
	case "stores":
		return c.stores(sf, stdout)
	case "checkout":
		return helpOK(c.checkout(sf, args, stdout, stderr))
	default:
		_, _ = fmt.Fprintf(stderr, "Usage: pelusa %s\n", c.Usage())
		return fmt.Errorf("unknown cart subcommand: %s", sub)
	}
}

type cartListing struct {
	Items    []cart.Item `json:"items"`
	Count    int         `json:"count"`
	Subtotal float64     `json:"subtotal"`
	Shipping float64     `json:"shipping"`
	Total    float64     `json:"total"`
}

func (c *CartCommand) list(sf *storefront, stdout io.Writer) error {
	items := sf.shop.Items()
	sum := sf.shop.Summary()
	if c.format == "json" {
		return writeJSON(stdout, cartListing{
			Items:    items,
			Count:    sum.Count,
			Subtotal: sum.Subtotal,
			Shipping: sum.Shipping,
			Total:    sum.Total,
		})
	}
	if sum.Empty {
		_, _ = fmt.Fprintln(stdout, "Tu carrito está vacío.")
		return nil
	}
	w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CART ID\tTITLE\tSIZE\tPAPER\tPRICE")
	for _, it := range items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", it.CartID, it.Title, it.Size, it.Paper, sf.format.Price(it.FinalPrice))
	}
	_, _ = fmt.Fprintln(w, "\t\t\t\t")
	_, _ = fmt.Fprintf(w, "\tSubtotal\t\t\t%s\n", sf.format.Price(sum.Subtotal))
	_, _ = fmt.Fprintf(w, "\tEnvío\t\t\t%s\n", sf.format.Price(sum.Shipping))
	_, _ = fmt.Fprintf(w, "\tTotal\t\t\t%s\n", sf.format.Price(sum.Total))
	return w.Flush()
}

func (c *CartCommand) add(sf *storefront, args []string, stdout, stderr io.Writer) error {
	fs := subcommand("cart", "add <product> [-size S] [-paper P]", "Add a print to the cart.", stderr)
	size := fs.String("size", "", "Print size (default from the catalog)")
	paper := fs.String("paper", "", "Paper type (default from the catalog)")

	// The product may come before the flags.
	var product string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		product, args = args[0], args[1:]
	}
	if err := parseSubcommand(fs, args); err != nil {
		return err
	}
	if product == "" && fs.NArg() == 1 {
		product = fs.Arg(0)
	} else if fs.NArg() > 0 || product == "" {
		fs.Usage()
		return fmt.Errorf("expected exactly one product id")
	}
	item, err := sf.shop.AddProduct(product, *size, *paper)
	if err != nil {
		return err
	}
	if c.format == "json" {
		return writeJSON(stdout, item)
	}
	_, _ = fmt.Fprintf(stdout, "Producto añadido al carrito: %s (%s, %s) %s [%s]\n",
		item.Title, item.Size, item.Paper, sf.format.Price(item.FinalPrice), item.CartID)
	return nil
}

func (c *CartCommand) checkout(sf *storefront, args []string, stdout, stderr io.Writer) error {
	fs := subcommand("cart", "checkout", "Place the order and empty the cart. No payment is taken.", stderr)
	var form shop.CheckoutForm
	fs.StringVar(&form.Name, "name", "", "Full name")
	fs.StringVar(&form.Email, "email", "", "Email address")
	fs.StringVar(&form.Address, "address", "", "Shipping address")
	if err := parseSubcommand(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	receipt, err := sf.shop.Checkout(form)
	if err != nil {
		var invalid *shop.CheckoutError
		if errors.As(err, &invalid) {
			for _, name := range []string{"name", "email", "address"} {
				if msg, bad := invalid.Fields[name]; bad {
					_, _ = fmt.Fprintf(stderr, "  -%s: %s\n", name, msg)
				}
			}
		}
		return err
	}
	if c.format == "json" {
		return writeJSON(stdout, cartListing{
			Items:    receipt.Items,
			Count:    receipt.Summary.Count,
			Subtotal: receipt.Summary.Subtotal,
			Shipping: receipt.Summary.Shipping,
			Total:    receipt.Summary.Total,
		})
	}
	_, _ = fmt.Fprintln(stdout, "¡Gracias por tu compra! Nos pondremos en contacto contigo pronto.")
	_, _ = fmt.Fprintf(stdout, "%d item(s), total %s, confirmation to %s\n",
		receipt.Summary.Count, sf.format.Price(receipt.Summary.Total), receipt.Form.Email)
	return nil
}

type storeReport struct {
	Store     string    `json:"store"`
	Op        string    `json:"op"`
	Outcome   string    `json:"outcome"`
	Timestamp int64     `json:"timestamp,omitempty"`
	Time      time.Time `json:"time,omitzero"`
	Error     string    `json:"error,omitempty"`
}

// stores prints how the load at startup went for every store.
func (c *CartCommand) stores(sf *storefront, stdout io.Writer) error {
	report := sf.shop.LastReport()
	rows := make([]storeReport, 0, len(report.Results))
	for _, r := range report.Results {
		row := storeReport{Store: r.Store, Op: string(r.Op), Outcome: string(r.Outcome), Timestamp: r.Timestamp}
		if r.Timestamp > 0 {
			row.Time = time.UnixMilli(r.Timestamp).UTC()
		}
		if r.Err != nil {
			row.Error = r.Err.Error()
		}
		rows = append(rows, row)
	}
	if c.format == "json" {
		return writeJSON(stdout, struct {
			Session  string        `json:"session"`
			Selected string        `json:"selected"`
			Results  []storeReport `json:"results"`
		}{sf.sessionID, report.Selected, rows})
	}

	_, _ = fmt.Fprintf(stdout, "Session: %s\n", sf.sessionID)
	selected := report.Selected
	if selected == "" {
		selected = "(none)"
	}
	_, _ = fmt.Fprintf(stdout, "Selected: %s\n\n", selected)
	w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STORE\tOP\tOUTCOME\tTIMESTAMP\tERROR")
	for _, r := range rows {
		ts := "-"
		if r.Timestamp > 0 {
			ts = r.Time.Format(time.RFC3339Nano)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Store, r.Op, r.Outcome, ts, r.Error)
	}
	return w.Flush()
}
