// Package cart accumulates catalog selections into priced invoice lines.
//
// A Cart is append-only: lines are added, never removed, until the cart is
// checked out or discarded. Money arithmetic goes through shopspring/decimal
// so that line totals and sums are exact for decimal prices.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/SaniatAzam/invoice-generator/internal/models"
)

// Catalog resolves an item name to its price.
type Catalog interface {
	PriceOf(name string) (price float64, ok bool)
}

// PriceList is a name → price snapshot of the catalog.
type PriceList map[string]float64

// PriceListFrom indexes items by name. Later duplicates win.
func PriceListFrom(items []models.Item) PriceList {
	pl := make(PriceList, len(items))
	for _, it := range items {
		pl[it.Name] = it.Price
	}
	return pl
}

// PriceOf implements Catalog.
func (pl PriceList) PriceOf(name string) (float64, bool) {
	p, ok := pl[name]
	return p, ok
}

// Selection is the item picked but not yet added to the cart.
type Selection struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Cart is the transient builder state. The zero value is not ready for
// use; call New.
type Cart struct {
	Pending Selection         `json:"pending"`
	Items   []models.CartLine `json:"items"`
}

// New returns an empty cart with the default pending quantity of one.
func New() *Cart {
	return &Cart{
		Pending: Selection{Quantity: 1},
		Items:   []models.CartLine{},
	}
}

// SelectItem sets the pending selection to name and copies its catalog
// price. The pending quantity is left as-is. An unknown name still becomes
// the pending name but keeps the previous price.
func (c *Cart) SelectItem(catalog Catalog, name string) {
	c.Pending.Name = name
	if price, ok := catalog.PriceOf(name); ok {
		c.Pending.Price = price
	}
}

// SetQuantity sets the pending quantity.
func (c *Cart) SetQuantity(quantity int) {
	c.Pending.Quantity = quantity
}

// AddLine appends a line when name is non-empty, price is positive and
// quantity is at least one. It reports whether a line was added. On
// success the pending selection is reset.
func (c *Cart) AddLine(name string, price float64, quantity int) bool {
	if name == "" || price <= 0 || quantity < 1 {
		return false
	}
	c.Items = append(c.Items, NewLine(name, price, quantity))
	c.Pending = Selection{Quantity: 1}
	return true
}

// AddPending adds the pending selection as a line.
func (c *Cart) AddPending() bool {
	return c.AddLine(c.Pending.Name, c.Pending.Price, c.Pending.Quantity)
}

// Lines returns a copy of the ordered lines.
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.Items))
	copy(out, c.Items)
	return out
}

// TotalPrice is the sum of all line totals.
func (c *Cart) TotalPrice() float64 {
	return SumTotals(c.Items)
}

// NetPrice is TotalPrice minus discount.
func (c *Cart) NetPrice(discount float64) float64 {
	return NetPrice(c.Items, discount)
}

// NewLine builds a line with total = price × quantity.
func NewLine(name string, price float64, quantity int) models.CartLine {
	total := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity)))
	return models.CartLine{
		Name:     name,
		Price:    price,
		Quantity: quantity,
		Total:    total.InexactFloat64(),
	}
}

// SumTotals adds up line totals.
func SumTotals(lines []models.CartLine) float64 {
	return sumTotals(lines).InexactFloat64()
}

// NetPrice is the sum of line totals minus discount.
func NetPrice(lines []models.CartLine, discount float64) float64 {
	return sumTotals(lines).Sub(decimal.NewFromFloat(discount)).InexactFloat64()
}

func sumTotals(lines []models.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(decimal.NewFromFloat(line.Total))
	}
	return sum
}
