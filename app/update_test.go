package app

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"retailco/shopper/models"
)

var (
	boots = models.Product{ProductID: 1, ProductName: "Boots", Category: "Footwear", UnitPrice: decimal.RequireFromString("99.99")}
	scarf = models.Product{ProductID: 2, ProductName: "Scarf", Category: "Apparel", UnitPrice: decimal.RequireFromString("20.00")}
	ann   = &models.Customer{CustomerID: 42, FirstName: "Ann", Email: "ann@example.com", Address: "9 Elm St"}
)

func signedIn() State {
	s := NewState("sess-1", Settings{})
	s.Identity = ann
	return s
}

func eventType(t *testing.T, cmd Cmd) string {
	t.Helper()
	ev, ok := cmd.(LogEvent)
	require.True(t, ok, "expected LogEvent, got %T", cmd)
	return gjson.Get(ev.Event.EventData, "event_type").String()
}

func TestUpdate_DoesNotMutateInput(t *testing.T) {
	s := signedIn()
	s.Cart.Add(boots)

	next, _ := Update(s, AddToCart{Product: boots})
	next, _ = Update(next, SignOut{})

	assert.Equal(t, 1, s.Cart.ItemCount())
	assert.NotNil(t, s.Identity)
	assert.True(t, next.Cart.IsEmpty())
}

func TestUpdate_AddToCart(t *testing.T) {
	t.Run("anonymous cart emits nothing", func(t *testing.T) {
		next, cmds := Update(NewState("", Settings{}), AddToCart{Product: boots})
		assert.Empty(t, cmds)
		assert.Equal(t, 1, next.Cart.Len())
	})

	t.Run("quantity delta is always one", func(t *testing.T) {
		s := signedIn()
		s, _ = Update(s, AddToCart{Product: boots})
		next, cmds := Update(s, AddToCart{Product: boots})

		require.Len(t, cmds, 1)
		assert.Equal(t, models.EventAddToCart, eventType(t, cmds[0]))
		data := cmds[0].(LogEvent).Event.EventData
		assert.Equal(t, int64(1), gjson.Get(data, "quantity").Int())
		assert.Equal(t, 99.99, gjson.Get(data, "price").Float())
		assert.Equal(t, "sess-1", gjson.Get(data, "session_id").String())
		assert.Equal(t, int64(42), cmds[0].(LogEvent).Event.CustomerID)
		assert.Equal(t, 2, next.Cart.ItemCount())
	})
}

func TestUpdate_RemoveAndSetQuantityEmitNothing(t *testing.T) {
	s := signedIn()
	s.Cart.Add(boots)
	s.Cart.Add(scarf)

	next, cmds := Update(s, SetQuantity{ProductID: 1, Quantity: 5})
	assert.Empty(t, cmds)
	assert.Equal(t, 6, next.Cart.ItemCount())

	next, cmds = Update(next, SetQuantity{ProductID: 2, Quantity: 0})
	assert.Empty(t, cmds)
	assert.Equal(t, 1, next.Cart.Len())

	next, cmds = Update(next, RemoveFromCart{ProductID: 1})
	assert.Empty(t, cmds)
	assert.True(t, next.Cart.IsEmpty())
}

func TestUpdate_Checkout(t *testing.T) {
	t.Run("no identity redirects to sign-in", func(t *testing.T) {
		s := NewState("", Settings{})
		s.Cart.Add(boots)

		next, cmds := Update(s, Checkout{})
		assert.Empty(t, cmds)
		assert.Equal(t, ViewSignIn, next.View)
		assert.Equal(t, "Please sign in to checkout", next.Notice.Text)
		assert.Equal(t, 1, next.Cart.Len())
	})

	t.Run("empty cart issues no call", func(t *testing.T) {
		s := signedIn()
		next, cmds := Update(s, Checkout{})
		assert.Empty(t, cmds)
		assert.Equal(t, "Your cart is empty", next.Notice.Text)
		assert.Equal(t, s.Identity, next.Identity)
		assert.Equal(t, ViewHome, next.View)
	})

	t.Run("submits the cart total once", func(t *testing.T) {
		s := signedIn()
		s.Settings.Checkout.PaymentMethod = "Gift Card"
		s.Cart.Add(boots)
		s.Cart.Add(boots)
		s.Cart.Add(scarf)

		_, cmds := Update(s, Checkout{})
		require.Len(t, cmds, 1)
		submit, ok := cmds[0].(SubmitOrder)
		require.True(t, ok)
		assert.Equal(t, "219.98", submit.Order.TotalAmount.StringFixed(2))
		assert.Equal(t, "9 Elm St", submit.Order.ShippingAddress)
		assert.Equal(t, "Gift Card", submit.Order.PaymentMethod)
		assert.Len(t, submit.Order.Items, 2)
	})
}

func TestUpdate_OrderPlaced(t *testing.T) {
	s := signedIn()
	s.Cart.Add(boots)
	s.View = ViewCart

	next, cmds := Update(s, OrderPlaced{
		Receipt:       models.OrderReceipt{OrderID: 1001, CustomerID: 42, TotalAmount: decimal.RequireFromString("99.99")},
		ItemCount:     1,
		PaymentMethod: "Credit Card",
	})

	require.Len(t, cmds, 2)
	assert.Equal(t, models.EventPurchase, eventType(t, cmds[0]))
	data := cmds[0].(LogEvent).Event.EventData
	assert.Equal(t, int64(1001), gjson.Get(data, "order_id").Int())
	assert.Equal(t, 99.99, gjson.Get(data, "total").Float())
	assert.Equal(t, int64(1), gjson.Get(data, "items").Int())
	assert.Equal(t, "Credit Card", gjson.Get(data, "payment_method").String())
	assert.Equal(t, RefreshIdentity{CustomerID: 42}, cmds[1])

	assert.True(t, next.Cart.IsEmpty())
	assert.Equal(t, ViewOrders, next.View)
	assert.Equal(t, "Order placed successfully! Order ID: 1001", next.Notice.Text)
}

func TestUpdate_CheckoutFailedKeepsCart(t *testing.T) {
	s := signedIn()
	s.Cart.Add(boots)

	next, cmds := Update(s, CheckoutFailed{Err: errors.New("boom")})
	assert.Empty(t, cmds)
	assert.Equal(t, 1, next.Cart.Len())
	assert.Equal(t, NoticeError, next.Notice.Level)
	assert.Equal(t, "Checkout failed. Please try again.", next.Notice.Text)
}

func TestUpdate_IdentityRefreshed(t *testing.T) {
	fresh := *ann
	fresh.LifetimeValue = decimal.NewFromInt(500)

	next, _ := Update(signedIn(), IdentityRefreshed{Identity: &fresh})
	assert.True(t, next.Identity.LifetimeValue.Equal(decimal.NewFromInt(500)))

	other := models.Customer{CustomerID: 7}
	next, _ = Update(signedIn(), IdentityRefreshed{Identity: &other})
	assert.Equal(t, int64(42), next.Identity.CustomerID)

	next, _ = Update(NewState("", Settings{}), IdentityRefreshed{Identity: &fresh})
	assert.Nil(t, next.Identity)
}

func TestUpdate_Search(t *testing.T) {
	_, cmds := Update(signedIn(), Search{Query: "   "})
	assert.Equal(t, []Cmd{FetchCatalog{}}, cmds)

	_, cmds = Update(signedIn(), Search{Query: "boots"})
	assert.Equal(t, []Cmd{SearchCatalog{Query: "boots"}}, cmds)

	next, cmds := Update(signedIn(), SearchCompleted{Query: "boots", Products: []models.Product{boots}})
	assert.Equal(t, []models.Product{boots}, next.Products)
	require.Len(t, cmds, 1)
	assert.Equal(t, models.EventSearch, eventType(t, cmds[0]))
	data := cmds[0].(LogEvent).Event.EventData
	assert.Equal(t, "boots", gjson.Get(data, "query").String())
	assert.Equal(t, int64(1), gjson.Get(data, "results_count").Int())

	_, cmds = Update(NewState("", Settings{}), SearchCompleted{Query: "boots", Products: []models.Product{boots}})
	assert.Empty(t, cmds)
}

func TestUpdate_ViewProduct(t *testing.T) {
	_, cmds := Update(NewState("", Settings{}), ViewProduct{Product: boots})
	assert.Empty(t, cmds)

	_, cmds = Update(signedIn(), ViewProduct{Product: boots})
	require.Len(t, cmds, 1)
	data := cmds[0].(LogEvent).Event.EventData
	assert.Equal(t, models.EventPageView, gjson.Get(data, "event_type").String())
	assert.Equal(t, "product_details", gjson.Get(data, "page").String())
	assert.Equal(t, int64(1), gjson.Get(data, "product_id").Int())
}

func TestUpdate_SignOutClearsEverything(t *testing.T) {
	s := signedIn()
	s.Cart.Add(boots)
	s.View = ViewOrders
	s.Orders = []models.OrderReceipt{{OrderID: 1}}

	next, cmds := Update(s, SignOut{})
	assert.Nil(t, next.Identity)
	assert.True(t, next.Cart.IsEmpty())
	assert.Nil(t, next.Orders)
	assert.Equal(t, ViewHome, next.View)
	assert.Equal(t, []Cmd{StoreCredential{Token: ""}}, cmds)
}

func TestUpdate_Auth(t *testing.T) {
	req := models.LoginRequest{Email: "ann@example.com", Password: "pw"}

	_, cmds := Update(NewState("", Settings{}), Login{Request: req})
	assert.Equal(t, []Cmd{SubmitLogin{Request: req}}, cmds)

	_, cmds = Update(NewState("", Settings{LookupOnly: true}), Login{Request: req})
	assert.Equal(t, []Cmd{LookupByEmail{Email: "ann@example.com"}}, cmds)

	_, cmds = Update(NewState("", Settings{}), LoginRejected{Email: "ann@example.com"})
	assert.Equal(t, []Cmd{LookupByEmail{Email: "ann@example.com"}}, cmds)

	t.Run("login with token", func(t *testing.T) {
		at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		next, cmds := Update(NewState("", Settings{}), AuthSucceeded{Flow: FlowLogin, Token: "tok", Identity: ann, At: at})
		require.Len(t, cmds, 2)
		assert.Equal(t, StoreCredential{Token: "tok"}, cmds[0])
		assert.Equal(t, models.EventLogin, eventType(t, cmds[1]))
		assert.Equal(t, "2026-01-02T03:04:05Z", gjson.Get(cmds[1].(LogEvent).Event.EventData, "timestamp").String())
		assert.Equal(t, "Welcome back, Ann!", next.Notice.Text)
		assert.Equal(t, ann, next.Identity)
	})

	t.Run("register", func(t *testing.T) {
		next, cmds := Update(NewState("", Settings{}), AuthSucceeded{Flow: FlowRegister, Token: "tok", Identity: ann})
		require.Len(t, cmds, 2)
		assert.Equal(t, StoreCredential{Token: "tok"}, cmds[0])
		data := cmds[1].(LogEvent).Event.EventData
		assert.Equal(t, models.EventPageView, gjson.Get(data, "event_type").String())
		assert.Equal(t, "home", gjson.Get(data, "page").String())
		assert.Equal(t, int64(0), gjson.Get(data, "session_duration").Int())
		assert.Equal(t, "Welcome Ann! Account created successfully.", next.Notice.Text)
	})

	t.Run("degraded sign-in stores nothing", func(t *testing.T) {
		next, cmds := Update(NewState("", Settings{}), AuthSucceeded{Flow: FlowDegraded, Identity: ann})
		assert.Empty(t, cmds)
		assert.Equal(t, ann, next.Identity)
	})

	failures := []struct {
		msg  AuthFailed
		text string
	}{
		{AuthFailed{Flow: FlowRegister, Reason: FailureRejected}, "Sign in failed. Please try again."},
		{AuthFailed{Flow: FlowLogin, Reason: FailureTransport}, "Login failed. Please try again or create a new account."},
		{AuthFailed{Flow: FlowDegraded, Reason: FailureNotFound}, "Customer not found. Please check your credentials or create a new account."},
	}
	for _, f := range failures {
		next, cmds := Update(NewState("", Settings{}), f.msg)
		assert.Empty(t, cmds)
		assert.Nil(t, next.Identity)
		assert.Equal(t, f.text, next.Notice.Text)
	}
}

func TestUpdate_Orders(t *testing.T) {
	next, cmds := Update(signedIn(), Navigate{View: ViewOrders})
	assert.Equal(t, ViewOrders, next.View)
	assert.Equal(t, []Cmd{FetchOrders{CustomerID: 42}}, cmds)

	next, cmds = Update(NewState("", Settings{}), LoadOrders{})
	assert.Empty(t, cmds)
	assert.Nil(t, next.Orders)

	next, _ = Update(signedIn(), OrdersLoaded{})
	assert.NotNil(t, next.Orders)
	assert.Empty(t, next.Orders)

	next, cmds = Update(signedIn(), Navigate{View: "nowhere"})
	assert.Empty(t, cmds)
	assert.Equal(t, ViewHome, next.View)
}

func TestUpdate_SessionRestoredDoesNotOverrideSignIn(t *testing.T) {
	other := &models.Customer{CustomerID: 9}
	next, _ := Update(signedIn(), SessionRestored{Identity: other})
	assert.Equal(t, int64(42), next.Identity.CustomerID)

	next, _ = Update(NewState("", Settings{}), SessionRestored{Identity: other})
	assert.Equal(t, int64(9), next.Identity.CustomerID)
}
