// Package cart is the in-memory line-item collection behind the shopper's
// basket. A Cart holds at most one line per product, in first-add order.
package cart

import (
	"github.com/shopspring/decimal"

	"retailco/shopper/models"
)

type Cart struct {
	lines []models.CartLine
}

// Add puts one unit of product in the cart and returns the resulting line.
func (c *Cart) Add(p models.Product) models.CartLine {
	if i := c.index(p.ProductID); i >= 0 {
		c.lines[i].Quantity++
		return c.lines[i]
	}
	line := models.CartLine{
		ProductID:     p.ProductID,
		ProductName:   p.ProductName,
		Category:      p.Category,
		UnitPrice:     p.UnitPrice,
		StockQuantity: p.StockQuantity,
		Quantity:      1,
	}
	c.lines = append(c.lines, line)
	return line
}

// Remove drops the line for productID. Unknown ids are ignored.
func (c *Cart) Remove(productID int64) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i:i], c.lines[i+1:]...)
}

// SetQuantity sets the line's quantity to exactly n; n <= 0 removes it.
func (c *Cart) SetQuantity(productID int64, n int) {
	if n <= 0 {
		c.Remove(productID)
		return
	}
	if i := c.index(productID); i >= 0 {
		c.lines[i].Quantity = n
	}
}

// TotalAmount is the sum of unitPrice*quantity rounded once to cents.
func (c *Cart) TotalAmount() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.Subtotal())
	}
	return sum.Round(2)
}

// Total is TotalAmount formatted with two decimals.
func (c *Cart) Total() string {
	return c.TotalAmount().StringFixed(2)
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len is the number of distinct products.
func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// ItemCount is the sum of all line quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Clear() { c.lines = nil }

// Clone returns an independent copy.
func (c *Cart) Clone() Cart {
	return Cart{lines: c.Lines()}
}

func (c *Cart) index(productID int64) int {
	for i, l := range c.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}
