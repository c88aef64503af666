package command

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/joeycumines/pelusa-cart/internal/config"
	"github.com/joeycumines/pelusa-cart/internal/pricing"
)

// CatalogCommand lists the prints for sale and quotes configurations.
type CatalogCommand struct {
	*BaseCommand
	config *config.Config
	format string
}

// NewCatalogCommand creates a new catalog command.
func NewCatalogCommand(cfg *config.Config) *CatalogCommand {
	return &CatalogCommand{
		BaseCommand: NewBaseCommand("catalog", "List the prints for sale, or price one", "catalog [options] [quote <product> [size] [paper]]"),
		config:      cfg,
	}
}

// SetupFlags configures the flags for the catalog command.
func (c *CatalogCommand) SetupFlags(fs *flag.FlagSet) {
	def := "text"
	if v, ok := c.config.GetCommandOption("catalog", "format"); ok {
		def = v
	}
	fs.StringVar(&c.format, "format", def, "Output format: text|json")
}

// Execute lists the catalog or prints a quote.
func (c *CatalogCommand) Execute(args []string, stdout, stderr io.Writer) error {
	settings, err := config.Resolve(c.config)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	pricer, format, err := pricerFor(settings)
	if err != nil {
		return err
	}
	if c.format != "text" && c.format != "json" {
		return fmt.Errorf("unknown format %q", c.format)
	}

	if len(args) == 0 {
		return c.list(stdout, pricer.Catalog(), format)
	}
	if args[0] != "quote" || len(args) < 2 || len(args) > 4 {
		_, _ = fmt.Fprintf(stderr, "Usage: pelusa %s\n", c.Usage())
		return fmt.Errorf("invalid arguments")
	}
	opt := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}
	q, err := pricer.Quote(args[1], opt(2), opt(3))
	if err != nil {
		return err
	}
	if c.format == "json" {
		return writeJSON(stdout, q.Item())
	}
	_, _ = fmt.Fprintf(stdout, "%s (%s, %s): %s\n", q.Product.Title, q.Size.Name, q.Paper.Name, format.Price(q.Price))
	return nil
}

func (c *CatalogCommand) list(stdout io.Writer, catalog *pricing.Catalog, format *pricing.Formatter) error {
	if c.format == "json" {
		return writeJSON(stdout, catalog)
	}
	w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tPRICE")
	for _, p := range catalog.Products {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Title, format.Price(p.BasePrice))
	}
	_ = w.Flush()

	_, _ = fmt.Fprintln(stdout, "")
	_, _ = fmt.Fprint(stdout, "Sizes:")
	for _, s := range catalog.Sizes {
		_, _ = fmt.Fprintf(stdout, " %s (x%g)", s.Name, s.Multiplier)
	}
	_, _ = fmt.Fprintf(stdout, "  [default %s]\n", catalog.DefaultSize)
	_, _ = fmt.Fprint(stdout, "Papers:")
	for _, p := range catalog.Papers {
		_, _ = fmt.Fprintf(stdout, " %s (+%s)", p.Name, format.Price(p.Extra))
	}
	_, _ = fmt.Fprintf(stdout, "  [default %s]\n", catalog.DefaultPaper)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
