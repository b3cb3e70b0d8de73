package models

import "github.com/shopspring/decimal"

const OrderStatusProcessing = "Processing"

type OrderItem struct {
	ProductID       int64           `json:"productId"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
}

// Order is built once at checkout and never mutated after submission.
type Order struct {
	CustomerID      int64           `json:"customerId"`
	OrderStatus     string          `json:"orderStatus"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaymentMethod   string          `json:"paymentMethod"`
	ShippingAddress string          `json:"shippingAddress"`
	Items           []OrderItem     `json:"items"`
}

// OrderReceipt is the order service's echo of a placed order. Order history
// entries share the same shape.
type OrderReceipt struct {
	OrderID         int64           `json:"orderId"`
	CustomerID      int64           `json:"customerId,omitempty"`
	OrderStatus     string          `json:"orderStatus,omitempty"`
	PaymentMethod   string          `json:"paymentMethod,omitempty"`
	ShippingAddress string          `json:"shippingAddress,omitempty"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	OrderDate       string          `json:"orderDate,omitempty"`
}
