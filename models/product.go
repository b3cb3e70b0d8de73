package models

import "github.com/shopspring/decimal"

type Product struct {
	ProductID     int64           `json:"productId" yaml:"productId"`
	ProductName   string          `json:"productName" yaml:"productName"`
	Category      string          `json:"category" yaml:"category"`
	Subcategory   string          `json:"subcategory,omitempty" yaml:"subcategory,omitempty"`
	Brand         string          `json:"brand,omitempty" yaml:"brand,omitempty"`
	UnitPrice     decimal.Decimal `json:"unitPrice" yaml:"-"`
	StockQuantity int             `json:"stockQuantity" yaml:"stockQuantity"`
	ReorderLevel  int             `json:"reorderLevel,omitempty" yaml:"reorderLevel,omitempty"`
}

// CartLine is one product in the cart. Quantity is always at least 1.
type CartLine struct {
	ProductID     int64           `json:"productId"`
	ProductName   string          `json:"productName"`
	Category      string          `json:"category"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	StockQuantity int             `json:"stockQuantity"`
	Quantity      int             `json:"quantity"`
}

// Subtotal is unitPrice * quantity, unrounded.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
