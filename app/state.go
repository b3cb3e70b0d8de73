// Package app is the shopper session as a state machine. Update is pure:
// every user action is a message that yields the next State plus the
// commands (network calls, telemetry, credential writes) to run. Runtime
// runs those commands and feeds their results back in.
package app

import (
	"retailco/shopper/cart"
	"retailco/shopper/checkout"
	"retailco/shopper/models"
)

type View string

const (
	ViewHome   View = "home"
	ViewCart   View = "cart"
	ViewSignIn View = "signin"
	ViewLogin  View = "login"
	ViewOrders View = "orders"
)

func (v View) Valid() bool {
	switch v {
	case ViewHome, ViewCart, ViewSignIn, ViewLogin, ViewOrders:
		return true
	}
	return false
}

const (
	NoticeInfo  = "info"
	NoticeError = "error"
)

// Notice is the single user-visible message produced by an action.
type Notice struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// Settings are fixed for the lifetime of a session.
type Settings struct {
	// LookupOnly signs in by email lookup alone, without a login endpoint
	// or bearer token.
	LookupOnly bool
	Checkout   checkout.Options
}

type State struct {
	SessionID string
	Settings  Settings

	View     View
	Identity *models.Customer
	Cart     cart.Cart
	Products []models.Product
	Orders   []models.OrderReceipt
	Notice   *Notice
}

// NewState is an anonymous session on the home view with an empty cart.
func NewState(sessionID string, settings Settings) State {
	return State{
		SessionID: sessionID,
		Settings:  settings,
		View:      ViewHome,
	}
}

// Clone returns a State that shares no mutable data with s.
func (s State) Clone() State {
	out := s
	out.Cart = s.Cart.Clone()
	if s.Identity != nil {
		id := *s.Identity
		out.Identity = &id
	}
	if s.Products != nil {
		out.Products = append([]models.Product(nil), s.Products...)
	}
	if s.Orders != nil {
		out.Orders = append([]models.OrderReceipt(nil), s.Orders...)
	}
	if s.Notice != nil {
		n := *s.Notice
		out.Notice = &n
	}
	return out
}

// Snapshot is the JSON view of a State served to the UI.
type Snapshot struct {
	View      View                  `json:"view"`
	Identity  *models.Customer      `json:"identity"`
	Cart      []models.CartLine     `json:"cart"`
	CartTotal string                `json:"cartTotal"`
	ItemCount int                   `json:"itemCount"`
	Products  []models.Product      `json:"products"`
	Orders    []models.OrderReceipt `json:"orders"`
	Notice    *Notice               `json:"notice,omitempty"`
}

func (s State) Snapshot() Snapshot {
	c := s.Clone()
	products := c.Products
	if products == nil {
		products = []models.Product{}
	}
	orders := c.Orders
	if orders == nil {
		orders = []models.OrderReceipt{}
	}
	return Snapshot{
		View:      c.View,
		Identity:  c.Identity,
		Cart:      c.Cart.Lines(),
		CartTotal: c.Cart.Total(),
		ItemCount: c.Cart.ItemCount(),
		Products:  products,
		Orders:    orders,
		Notice:    c.Notice,
	}
}
