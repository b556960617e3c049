package catalog

import (
	"fmt"

	"github.com/betterchoicedev/checkout-api/internal/domain"
)

// Catalog exposes read-only accessors over the static product data. Products
// are fixed at construction and iteration follows declaration order.
type Catalog struct {
	products []domain.Product
	byID     map[string]int
}

// New returns the production catalog.
func New() *Catalog {
	c, err := NewWithProducts(defaultProducts())
	if err != nil {
		panic(err)
	}
	return c
}

// NewWithProducts builds a catalog from an explicit product list. Every
// product must carry a unique identifier and at least one price.
func NewWithProducts(products []domain.Product) (*Catalog, error) {
	byID := make(map[string]int, len(products))
	for i, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog: product at index %d has no id", i)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate product id %q", p.ID)
		}
		if len(p.Prices) == 0 {
			return nil, fmt.Errorf("catalog: product %q has no prices", p.ID)
		}
		byID[p.ID] = i
	}
	return &Catalog{products: products, byID: byID}, nil
}

// Product returns the product with the given identifier. Unknown identifiers
// yield an empty result, not an error.
func (c *Catalog) Product(id string) (domain.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

// All returns every product in declaration order.
func (c *Catalog) All() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// ByCategory returns the products matching the category, in declaration order.
func (c *Catalog) ByCategory(cat domain.Category) []domain.Product {
	var out []domain.Product
	for _, p := range c.products {
		if p.Category == cat {
			out = append(out, p)
		}
	}
	return out
}

// PriceByID resolves a price identifier to the price and its owning product.
// The catalog is small and static, so a linear scan is sufficient.
func (c *Catalog) PriceByID(id string) (domain.Price, domain.Product, bool) {
	for _, p := range c.products {
		for _, price := range p.Prices {
			if price.ID == id {
				return price, p, true
			}
		}
	}
	return domain.Price{}, domain.Product{}, false
}
