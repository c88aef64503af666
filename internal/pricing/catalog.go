// Package pricing holds the product catalog and turns a product plus its
// print options into a price.
package pricing

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrUnknownOption is returned for a product, size or paper that is not in
// the catalog.
var ErrUnknownOption = errors.New("unknown catalog option")

//go:embed catalog.json
var defaultCatalogJSON []byte

// Product is a print that can be ordered.
type Product struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	BasePrice float64 `json:"basePrice"`
}

// SizeOption scales the base price.
type SizeOption struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
}

// PaperOption adds a fixed amount to the price.
type PaperOption struct {
	Name  string  `json:"name"`
	Extra float64 `json:"extra"`
}

// Catalog lists the products and the options every product can be
// printed with.
type Catalog struct {
	Products     []Product     `json:"products"`
	Sizes        []SizeOption  `json:"sizes"`
	Papers       []PaperOption `json:"papers"`
	DefaultSize  string        `json:"defaultSize"`
	DefaultPaper string        `json:"defaultPaper"`
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() (*Catalog, error) {
	c, err := ParseCatalog(defaultCatalogJSON)
	if err != nil {
		return nil, fmt.Errorf("built-in catalog: %w", err)
	}
	return c, nil
}

// LoadCatalog reads a catalog file. An empty path means the built-in catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes and validates a catalog. Missing defaults fall back
// to the first size and paper listed.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	if c.DefaultSize == "" {
		c.DefaultSize = c.Sizes[0].Name
	}
	if c.DefaultPaper == "" {
		c.DefaultPaper = c.Papers[0].Name
	}
	if _, err := c.Size(c.DefaultSize); err != nil {
		return nil, fmt.Errorf("default size: %w", err)
	}
	if _, err := c.Paper(c.DefaultPaper); err != nil {
		return nil, fmt.Errorf("default paper: %w", err)
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Products) == 0 {
		return fmt.Errorf("catalog has no products")
	}
	if len(c.Sizes) == 0 {
		return fmt.Errorf("catalog has no sizes")
	}
	if len(c.Papers) == 0 {
		return fmt.Errorf("catalog has no papers")
	}
	var errs []error
	seen := map[string]bool{}
	for i, p := range c.Products {
		switch {
		case p.ID == "":
			errs = append(errs, fmt.Errorf("product %d: id is required", i))
		case seen[p.ID]:
			errs = append(errs, fmt.Errorf("product %q: duplicate id", p.ID))
		case p.BasePrice < 0:
			errs = append(errs, fmt.Errorf("product %q: negative base price", p.ID))
		}
		seen[p.ID] = true
	}
	for i, s := range c.Sizes {
		if s.Name == "" || s.Multiplier <= 0 {
			errs = append(errs, fmt.Errorf("size %d: needs a name and a positive multiplier", i))
		}
	}
	for i, p := range c.Papers {
		if p.Name == "" || p.Extra < 0 {
			errs = append(errs, fmt.Errorf("paper %d: needs a name and a non-negative extra", i))
		}
	}
	return errors.Join(errs...)
}

// Product looks up a product by ID.
func (c *Catalog) Product(id string) (Product, error) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("%w: product %q", ErrUnknownOption, id)
}

// Size looks up a size by name, ignoring case.
func (c *Catalog) Size(name string) (SizeOption, error) {
	for _, s := range c.Sizes {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return SizeOption{}, fmt.Errorf("%w: size %q", ErrUnknownOption, name)
}

// Paper looks up a paper by name, ignoring case.
func (c *Catalog) Paper(name string) (PaperOption, error) {
	for _, p := range c.Papers {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return PaperOption{}, fmt.Errorf("%w: paper %q", ErrUnknownOption, name)
}
