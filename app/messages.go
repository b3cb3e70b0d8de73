package app

import (
	"time"

	"retailco/shopper/models"
)

// Msg is a user action or the result of a command.
type Msg interface {
	isMsg()
}

// User actions.
type (
	Init           struct{}
	Navigate       struct{ View View }
	LoadCatalog    struct{}
	Search         struct{ Query string }
	ViewProduct    struct{ Product models.Product }
	AddToCart      struct{ Product models.Product }
	RemoveFromCart struct{ ProductID int64 }
	SetQuantity    struct {
		ProductID int64
		Quantity  int
	}
	Checkout      struct{}
	Register      struct{ Request models.RegisterRequest }
	Login         struct{ Request models.LoginRequest }
	SignOut       struct{}
	LoadOrders    struct{}
	DismissNotice struct{}
)

type AuthFlow string

const (
	FlowRegister AuthFlow = "register"
	FlowLogin    AuthFlow = "login"
	// FlowDegraded is sign-in by email lookup, without a credential.
	FlowDegraded AuthFlow = "degraded"
)

type AuthFailure string

const (
	FailureRejected  AuthFailure = "rejected"
	FailureTransport AuthFailure = "transport"
	FailureNotFound  AuthFailure = "not_found"
)

// Command results.
type (
	CatalogLoaded   struct{ Products []models.Product }
	SearchCompleted struct {
		Query    string
		Products []models.Product
	}
	SessionRestored struct{ Identity *models.Customer }
	OrderPlaced     struct {
		Receipt       models.OrderReceipt
		ItemCount     int
		PaymentMethod string
	}
	CheckoutFailed    struct{ Err error }
	IdentityRefreshed struct{ Identity *models.Customer }
	AuthSucceeded     struct {
		Flow     AuthFlow
		Token    string
		Identity *models.Customer
		At       time.Time
	}
	AuthFailed struct {
		Flow   AuthFlow
		Reason AuthFailure
	}
	LoginRejected struct{ Email string }
	OrdersLoaded  struct{ Orders []models.OrderReceipt }
)

func (Init) isMsg()              {}
func (Navigate) isMsg()          {}
func (LoadCatalog) isMsg()       {}
func (Search) isMsg()            {}
func (ViewProduct) isMsg()       {}
func (AddToCart) isMsg()         {}
func (RemoveFromCart) isMsg()    {}
func (SetQuantity) isMsg()       {}
func (Checkout) isMsg()          {}
func (Register) isMsg()          {}
func (Login) isMsg()             {}
func (SignOut) isMsg()           {}
func (LoadOrders) isMsg()        {}
func (DismissNotice) isMsg()     {}
func (CatalogLoaded) isMsg()     {}
func (SearchCompleted) isMsg()   {}
func (SessionRestored) isMsg()   {}
func (OrderPlaced) isMsg()       {}
func (CheckoutFailed) isMsg()    {}
func (IdentityRefreshed) isMsg() {}
func (AuthSucceeded) isMsg()     {}
func (AuthFailed) isMsg()        {}
func (LoginRejected) isMsg()     {}
func (OrdersLoaded) isMsg()      {}

// Cmd is a side effect requested by Update.
type Cmd interface {
	Name() string
}

type (
	FetchCatalog       struct{}
	SearchCatalog      struct{ Query string }
	LogEvent           struct{ Event models.TelemetryEvent }
	SubmitOrder        struct{ Order models.Order }
	RefreshIdentity    struct{ CustomerID int64 }
	SubmitRegistration struct{ Request models.RegisterRequest }
	SubmitLogin        struct{ Request models.LoginRequest }
	LookupByEmail      struct{ Email string }
	// StoreCredential persists Token; "" clears the slot.
	StoreCredential struct{ Token string }
	RestoreSession  struct{}
	FetchOrders     struct{ CustomerID int64 }
)

func (FetchCatalog) Name() string       { return "fetch_catalog" }
func (SearchCatalog) Name() string      { return "search_catalog" }
func (LogEvent) Name() string           { return "log_event" }
func (SubmitOrder) Name() string        { return "submit_order" }
func (RefreshIdentity) Name() string    { return "refresh_identity" }
func (SubmitRegistration) Name() string { return "submit_registration" }
func (SubmitLogin) Name() string        { return "submit_login" }
func (LookupByEmail) Name() string      { return "lookup_by_email" }
func (StoreCredential) Name() string    { return "store_credential" }
func (RestoreSession) Name() string     { return "restore_session" }
func (FetchOrders) Name() string        { return "fetch_orders" }
