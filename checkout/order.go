// Package checkout turns the current cart and identity into an order.
package checkout

import (
	"errors"

	"github.com/shopspring/decimal"

	"retailco/shopper/cart"
	"retailco/shopper/models"
)

var (
	ErrNoIdentity = errors.New("checkout requires a signed-in customer")
	ErrEmptyCart  = errors.New("cart is empty")
)

const (
	DefaultPaymentMethod   = "Credit Card"
	DefaultShippingAddress = "123 Main St"
)

// Options are the static parts of every order.
type Options struct {
	PaymentMethod          string
	DefaultShippingAddress string
}

func (o Options) withDefaults() Options {
	if o.PaymentMethod == "" {
		o.PaymentMethod = DefaultPaymentMethod
	}
	if o.DefaultShippingAddress == "" {
		o.DefaultShippingAddress = DefaultShippingAddress
	}
	return o
}

// BuildOrder checks the preconditions in order (identity, then cart) and
// builds the order. The total is the cart's rounded total, never re-summed.
func BuildOrder(identity *models.Customer, c *cart.Cart, opts Options) (models.Order, error) {
	if identity == nil {
		return models.Order{}, ErrNoIdentity
	}
	if c == nil || c.IsEmpty() {
		return models.Order{}, ErrEmptyCart
	}
	opts = opts.withDefaults()

	address := identity.Address
	if address == "" {
		address = opts.DefaultShippingAddress
	}

	lines := c.Lines()
	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItem{
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: decimal.Zero,
		})
	}

	return models.Order{
		CustomerID:      identity.CustomerID,
		OrderStatus:     models.OrderStatusProcessing,
		TotalAmount:     c.TotalAmount(),
		PaymentMethod:   opts.PaymentMethod,
		ShippingAddress: address,
		Items:           items,
	}, nil
}
