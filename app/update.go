package app

import (
	"errors"
	"fmt"
	"time"

	"retailco/shopper/checkout"
	"retailco/shopper/models"
	"retailco/shopper/telemetry"
	"retailco/shopper/utils"
)

const (
	msgSignInToCheckout = "Please sign in to checkout"
	msgCartEmpty        = "Your cart is empty"
	msgCheckoutFailed   = "Checkout failed. Please try again."
	msgSignInFailed     = "Sign in failed. Please try again."
	msgLoginFailed      = "Login failed. Please try again or create a new account."
	msgCustomerNotFound = "Customer not found. Please check your credentials or create a new account."
)

// Update applies msg to s. It never mutates s and performs no I/O.
func Update(s State, msg Msg) (State, []Cmd) {
	next := s.Clone()

	switch m := msg.(type) {
	case Init:
		return next, []Cmd{FetchCatalog{}, RestoreSession{}}

	case Navigate:
		if !m.View.Valid() {
			return next, nil
		}
		next.View = m.View
		if m.View == ViewOrders {
			return loadOrders(next)
		}
		return next, nil

	case LoadCatalog:
		return next, []Cmd{FetchCatalog{}}

	case Search:
		if utils.IsBlank(m.Query) {
			return next, []Cmd{FetchCatalog{}}
		}
		return next, []Cmd{SearchCatalog{Query: m.Query}}

	case ViewProduct:
		if next.Identity == nil {
			return next, nil
		}
		return next, []Cmd{next.event(models.EventPageView, map[string]any{
			"page":         "product_details",
			"product_id":   m.Product.ProductID,
			"product_name": m.Product.ProductName,
		})}

	case AddToCart:
		next.Cart.Add(m.Product)
		if next.Identity == nil {
			return next, nil
		}
		return next, []Cmd{next.event(models.EventAddToCart, map[string]any{
			"product_id":   m.Product.ProductID,
			"product_name": m.Product.ProductName,
			"quantity":     1,
			"price":        m.Product.UnitPrice,
		})}

	case RemoveFromCart:
		next.Cart.Remove(m.ProductID)
		return next, nil

	case SetQuantity:
		next.Cart.SetQuantity(m.ProductID, m.Quantity)
		return next, nil

	case Checkout:
		return startCheckout(next)

	case OrderPlaced:
		return orderPlaced(next, m)

	case CheckoutFailed:
		next.Notice = &Notice{Level: NoticeError, Text: msgCheckoutFailed}
		return next, nil

	case IdentityRefreshed:
		// Ignore a refresh that lands after sign-out or a different sign-in.
		if m.Identity != nil && next.Identity != nil && next.Identity.CustomerID == m.Identity.CustomerID {
			next.Identity = m.Identity
		}
		return next, nil

	case SessionRestored:
		if next.Identity == nil && m.Identity != nil {
			next.Identity = m.Identity
		}
		return next, nil

	case Register:
		return next, []Cmd{SubmitRegistration{Request: m.Request}}

	case Login:
		if next.Settings.LookupOnly {
			return next, []Cmd{LookupByEmail{Email: m.Request.Email}}
		}
		return next, []Cmd{SubmitLogin{Request: m.Request}}

	case LoginRejected:
		return next, []Cmd{LookupByEmail{Email: m.Email}}

	case AuthSucceeded:
		return authSucceeded(next, m)

	case AuthFailed:
		text := msgSignInFailed
		switch {
		case m.Reason == FailureNotFound:
			text = msgCustomerNotFound
		case m.Flow != FlowRegister:
			text = msgLoginFailed
		}
		next.Notice = &Notice{Level: NoticeError, Text: text}
		return next, nil

	case SignOut:
		next.Identity = nil
		next.Cart.Clear()
		next.Orders = nil
		next.View = ViewHome
		return next, []Cmd{StoreCredential{Token: ""}}

	case LoadOrders:
		return loadOrders(next)

	case OrdersLoaded:
		if next.Identity == nil {
			next.Orders = nil
			return next, nil
		}
		next.Orders = m.Orders
		if next.Orders == nil {
			next.Orders = []models.OrderReceipt{}
		}
		return next, nil

	case CatalogLoaded:
		next.Products = m.Products
		return next, nil

	case SearchCompleted:
		next.Products = m.Products
		if next.Identity == nil {
			return next, nil
		}
		return next, []Cmd{next.event(models.EventSearch, map[string]any{
			"query":         m.Query,
			"results_count": len(m.Products),
		})}

	case DismissNotice:
		next.Notice = nil
		return next, nil
	}

	return next, nil
}

func startCheckout(next State) (State, []Cmd) {
	order, err := checkout.BuildOrder(next.Identity, &next.Cart, next.Settings.Checkout)
	switch {
	case errors.Is(err, checkout.ErrNoIdentity):
		next.Notice = &Notice{Level: NoticeError, Text: msgSignInToCheckout}
		next.View = ViewSignIn
		return next, nil
	case errors.Is(err, checkout.ErrEmptyCart):
		next.Notice = &Notice{Level: NoticeError, Text: msgCartEmpty}
		return next, nil
	case err != nil:
		next.Notice = &Notice{Level: NoticeError, Text: msgCheckoutFailed}
		return next, nil
	}
	return next, []Cmd{SubmitOrder{Order: order}}
}

// orderPlaced emits the purchase event, asks for a best-effort identity
// refresh, then clears the cart and shows the order history.
func orderPlaced(next State, m OrderPlaced) (State, []Cmd) {
	customerID := m.Receipt.CustomerID
	if next.Identity != nil {
		customerID = next.Identity.CustomerID
	}

	cmds := []Cmd{
		next.eventFor(customerID, models.EventPurchase, map[string]any{
			"order_id":       m.Receipt.OrderID,
			"total":          m.Receipt.TotalAmount,
			"items":          m.ItemCount,
			"payment_method": m.PaymentMethod,
		}),
		RefreshIdentity{CustomerID: customerID},
	}

	next.Cart.Clear()
	next.View = ViewOrders
	next.Notice = &Notice{
		Level: NoticeInfo,
		Text:  fmt.Sprintf("Order placed successfully! Order ID: %d", m.Receipt.OrderID),
	}
	return next, cmds
}

func authSucceeded(next State, m AuthSucceeded) (State, []Cmd) {
	if m.Identity == nil {
		return next, nil
	}
	next.Identity = m.Identity
	next.View = ViewHome

	var cmds []Cmd
	if m.Token != "" {
		cmds = append(cmds, StoreCredential{Token: m.Token})
	}

	switch m.Flow {
	case FlowRegister:
		cmds = append(cmds, next.event(models.EventPageView, map[string]any{
			"page":             "home",
			"session_duration": 0,
		}))
		next.Notice = &Notice{
			Level: NoticeInfo,
			Text:  fmt.Sprintf("Welcome %s! Account created successfully.", m.Identity.FirstName),
		}
	case FlowLogin:
		cmds = append(cmds, next.event(models.EventLogin, map[string]any{
			"page":      "home",
			"timestamp": m.At.UTC().Format(time.RFC3339Nano),
		}))
		next.Notice = &Notice{Level: NoticeInfo, Text: fmt.Sprintf("Welcome back, %s!", m.Identity.FirstName)}
	default:
		next.Notice = &Notice{Level: NoticeInfo, Text: fmt.Sprintf("Welcome back, %s!", m.Identity.FirstName)}
	}
	return next, cmds
}

func loadOrders(next State) (State, []Cmd) {
	if next.Identity == nil {
		next.Orders = nil
		return next, nil
	}
	return next, []Cmd{FetchOrders{CustomerID: next.Identity.CustomerID}}
}

func (s State) event(eventType string, fields map[string]any) LogEvent {
	return s.eventFor(s.Identity.CustomerID, eventType, fields)
}

func (s State) eventFor(customerID int64, eventType string, fields map[string]any) LogEvent {
	if s.SessionID != "" {
		fields["session_id"] = s.SessionID
	}
	return LogEvent{Event: telemetry.NewEvent(customerID, eventType, fields)}
}
