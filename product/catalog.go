package product

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"goflare.io/voucher/models"
)

var (
	ErrNoProducts        = errors.New("no available products")
	ErrInvalidSelection  = errors.New("cannot parse selected product")
	ErrProductOutOfRange = errors.New("invalid product selected")
)

// Catalog is the numbered product list an operator picks from.
type Catalog struct {
	products []*models.Product
}

func NewCatalog(products []*models.Product) (*Catalog, error) {
	if len(products) == 0 {
		return nil, ErrNoProducts
	}
	return &Catalog{products: products}, nil
}

func (c *Catalog) Len() int {
	return len(c.products)
}

// Lines renders every product as "[index] name", indexes starting at zero.
func (c *Catalog) Lines() []string {
	lines := make([]string, 0, len(c.products))
	for i, p := range c.products {
		lines = append(lines, fmt.Sprintf("[%d] %s", i, p.Name))
	}
	return lines
}

// Select parses input as a zero-based index into the catalog.
// Valid indexes are 0 <= index < Len().
func (c *Catalog) Select(input string) (*models.Product, error) {

	index, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || index < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSelection, strings.TrimSpace(input))
	}

	if index >= len(c.products) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrProductOutOfRange, index, len(c.products))
	}

	return c.products[index], nil
}
