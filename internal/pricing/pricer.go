package pricing

import (
	"fmt"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/joeycumines/pelusa-cart/internal/cart"
)

// DefaultFormula prices a print the way the shop always has.
const DefaultFormula = "basePrice * sizeMultiplier + paperExtra"

// Env is the environment a price formula is evaluated in.
type Env struct {
	BasePrice      float64 `expr:"basePrice"`
	SizeMultiplier float64 `expr:"sizeMultiplier"`
	PaperExtra     float64 `expr:"paperExtra"`
}

// Pricer prices catalog products with a compiled formula.
type Pricer struct {
	catalog *Catalog
	formula string
	program *vm.Program
}

// NewPricer compiles formula (DefaultFormula if empty) against Env.
func NewPricer(catalog *Catalog, formula string) (*Pricer, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if formula == "" {
		formula = DefaultFormula
	}
	program, err := expr.Compile(formula, expr.Env(Env{}), expr.AsFloat64())
	if err != nil {
		return nil, fmt.Errorf("invalid price formula %q: %w", formula, err)
	}
	return &Pricer{catalog: catalog, formula: formula, program: program}, nil
}

// Catalog returns the catalog the pricer quotes from.
func (p *Pricer) Catalog() *Catalog { return p.catalog }

// Formula returns the source of the compiled formula.
func (p *Pricer) Formula() string { return p.formula }

// Quote is a priced product configuration, ready to become a cart item.
type Quote struct {
	Product Product
	Size    SizeOption
	Paper   PaperOption
	Price   float64
}

// Item returns the cart line for the quote. The cart assigns its ID.
func (q Quote) Item() cart.Item {
	return cart.Item{
		ProductID:  q.Product.ID,
		Title:      q.Product.Title,
		BasePrice:  q.Product.BasePrice,
		Size:       q.Size.Name,
		Paper:      q.Paper.Name,
		FinalPrice: q.Price,
	}
}

// Quote prices productID printed at size on paper. Empty size or paper
// selects the catalog default.
func (p *Pricer) Quote(productID, size, paper string) (Quote, error) {
	product, err := p.catalog.Product(productID)
	if err != nil {
		return Quote{}, err
	}
	if size == "" {
		size = p.catalog.DefaultSize
	}
	if paper == "" {
		paper = p.catalog.DefaultPaper
	}
	s, err := p.catalog.Size(size)
	if err != nil {
		return Quote{}, err
	}
	pp, err := p.catalog.Paper(paper)
	if err != nil {
		return Quote{}, err
	}

	out, err := expr.Run(p.program, Env{
		BasePrice:      product.BasePrice,
		SizeMultiplier: s.Multiplier,
		PaperExtra:     pp.Extra,
	})
	if err != nil {
		return Quote{}, fmt.Errorf("price formula: %w", err)
	}
	price, ok := out.(float64)
	if !ok {
		return Quote{}, fmt.Errorf("price formula returned %T, want float64", out)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return Quote{}, fmt.Errorf("price formula returned invalid price %v", price)
	}
	return Quote{Product: product, Size: s, Paper: pp, Price: cart.RoundCents(price)}, nil
}
