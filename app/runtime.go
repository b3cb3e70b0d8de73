package app

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"retailco/shopper/apiclient"
	"retailco/shopper/authresp"
	"retailco/shopper/models"
	"retailco/shopper/store"
	"retailco/shopper/telemetry"
	"retailco/shopper/utils"
)

// Command outcomes passed to CommandRecorder.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

type Catalog interface {
	ListAll(ctx context.Context) []models.Product
	Search(ctx context.Context, query string) ([]models.Product, error)
}

// RemoteAPI is the set of remote calls commands are allowed to make.
type RemoteAPI interface {
	store.IdentityProber
	PlaceOrder(ctx context.Context, order models.Order) (*models.OrderReceipt, error)
	GetCustomer(ctx context.Context, customerID int64) (*models.Customer, error)
	Register(ctx context.Context, req models.RegisterRequest) ([]byte, error)
	Login(ctx context.Context, req models.LoginRequest) ([]byte, error)
	SearchCustomersByEmail(ctx context.Context, email string) ([]models.Customer, error)
	ListOrders(ctx context.Context, customerID int64) ([]models.OrderReceipt, error)
}

type Session interface {
	SetCredential(ctx context.Context, token string) error
	SetIdentity(c *models.Customer)
	Restore(ctx context.Context, prober store.IdentityProber) *models.Customer
}

type CommandRecorder interface {
	CommandResult(command, outcome string)
}

type nopCommandRecorder struct{}

func (nopCommandRecorder) CommandResult(string, string) {}

type Services struct {
	Catalog  Catalog
	API      RemoteAPI
	Session  Session
	Events   telemetry.Emitter
	Recorder CommandRecorder
	Log      logrus.FieldLogger
	Now      func() time.Time
}

// Runtime owns the current State. Transitions are applied one at a time
// under a lock; the commands they produce run outside it, so overlapping
// dispatches race only on the network.
type Runtime struct {
	mu    sync.Mutex
	state State
	svc   Services
}

func NewRuntime(initial State, svc Services) *Runtime {
	if svc.Recorder == nil {
		svc.Recorder = nopCommandRecorder{}
	}
	if svc.Log == nil {
		svc.Log = logrus.StandardLogger()
	}
	if svc.Now == nil {
		svc.Now = time.Now
	}
	return &Runtime{state: initial.Clone(), svc: svc}
}

// State returns a copy of the current state.
func (r *Runtime) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone()
}

// Dispatch applies msg, runs the resulting commands in order and keeps
// feeding their results back until nothing is left to do. It returns the
// state after the last transition. Command failures never escape.
func (r *Runtime) Dispatch(ctx context.Context, msg Msg) State {
	queue := []Msg{msg}
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]

		for _, cmd := range r.apply(m) {
			if out := r.run(ctx, cmd); out != nil {
				queue = append(queue, out)
			}
		}
	}
	return r.State()
}

func (r *Runtime) apply(msg Msg) []Cmd {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, cmds := Update(r.state, msg)
	r.state = next
	r.svc.Session.SetIdentity(next.Identity)
	return cmds
}

func (r *Runtime) run(ctx context.Context, cmd Cmd) Msg {
	out, err := r.exec(ctx, cmd)
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	r.svc.Recorder.CommandResult(cmd.Name(), outcome)
	return out
}

func (r *Runtime) exec(ctx context.Context, cmd Cmd) (Msg, error) {
	log := r.svc.Log.WithField("command", cmd.Name())

	switch c := cmd.(type) {
	case FetchCatalog:
		return CatalogLoaded{Products: r.svc.Catalog.ListAll(ctx)}, nil

	case SearchCatalog:
		products, err := r.svc.Catalog.Search(ctx, c.Query)
		if err != nil {
			log.WithError(err).WithField("query", c.Query).Warn("Search failed, keeping current products")
			return nil, err
		}
		return SearchCompleted{Query: c.Query, Products: products}, nil

	case LogEvent:
		r.svc.Events.Emit(c.Event)
		return nil, nil

	case SubmitOrder:
		receipt, err := r.svc.API.PlaceOrder(ctx, c.Order)
		if err != nil {
			log.WithError(err).Error("Checkout failed")
			return CheckoutFailed{Err: err}, err
		}
		return orderPlacedFrom(c.Order, receipt), nil

	case RefreshIdentity:
		customer, err := r.svc.API.GetCustomer(ctx, c.CustomerID)
		if err != nil {
			log.WithError(err).WithField("customer_id", c.CustomerID).Warn("Failed to refresh customer after checkout")
			return nil, err
		}
		return IdentityRefreshed{Identity: customer}, nil

	case SubmitRegistration:
		body, err := r.svc.API.Register(ctx, c.Request)
		if err != nil {
			log.WithError(err).Warn("Registration failed")
			return AuthFailed{Flow: FlowRegister, Reason: failureOf(err)}, err
		}
		res := authresp.Decode(body)
		if !res.Found() {
			log.Warn("Registration response carried no customer")
			return AuthFailed{Flow: FlowRegister, Reason: FailureRejected}, authresp.ErrNotFound
		}
		return AuthSucceeded{Flow: FlowRegister, Token: res.Token, Identity: res.Identity, At: r.svc.Now()}, nil

	case SubmitLogin:
		body, err := r.svc.API.Login(ctx, c.Request)
		if err != nil {
			if apiclient.IsStatusError(err) {
				log.WithError(err).Info("Login rejected, falling back to email lookup")
				return LoginRejected{Email: c.Request.Email}, err
			}
			log.WithError(err).Warn("Login failed")
			return AuthFailed{Flow: FlowLogin, Reason: FailureTransport}, err
		}
		res := authresp.Decode(body)
		if !res.Found() {
			log.Info("Login response carried no customer, falling back to email lookup")
			return LoginRejected{Email: c.Request.Email}, authresp.ErrNotFound
		}
		return AuthSucceeded{Flow: FlowLogin, Token: res.Token, Identity: res.Identity, At: r.svc.Now()}, nil

	case LookupByEmail:
		customers, err := r.svc.API.SearchCustomersByEmail(ctx, c.Email)
		if err != nil {
			log.WithError(err).Warn("Customer lookup failed")
			reason := FailureTransport
			if apiclient.IsStatusError(err) {
				reason = FailureNotFound
			}
			return AuthFailed{Flow: FlowDegraded, Reason: reason}, err
		}
		if len(customers) == 0 {
			return AuthFailed{Flow: FlowDegraded, Reason: FailureNotFound}, nil
		}
		first := customers[0]
		return AuthSucceeded{Flow: FlowDegraded, Identity: &first, At: r.svc.Now()}, nil

	case StoreCredential:
		if err := r.svc.Session.SetCredential(ctx, c.Token); err != nil {
			log.WithError(err).Error("Failed to persist credential")
			return nil, err
		}
		return nil, nil

	case RestoreSession:
		customer := r.svc.Session.Restore(ctx, r.svc.API)
		if customer == nil {
			return nil, nil
		}
		return SessionRestored{Identity: customer}, nil

	case FetchOrders:
		orders, err := r.svc.API.ListOrders(ctx, c.CustomerID)
		switch {
		case err == nil:
			return OrdersLoaded{Orders: orders}, nil
		case apiclient.IsStatus(err, http.StatusForbidden):
			log.Info("Order history refused, session is not authorized")
			return OrdersLoaded{Orders: []models.OrderReceipt{}}, err
		case apiclient.IsStatusError(err):
			log.WithError(err).Warn("Failed to load order history")
			return OrdersLoaded{Orders: []models.OrderReceipt{}}, err
		default:
			log.WithError(err).Warn("Failed to load order history")
			return nil, err
		}
	}

	log.Warn("Unknown command")
	return nil, nil
}

// orderPlacedFrom prefers the server echo and falls back to what was sent.
func orderPlacedFrom(order models.Order, receipt *models.OrderReceipt) OrderPlaced {
	r := *receipt
	if r.CustomerID == 0 {
		r.CustomerID = order.CustomerID
	}
	if r.TotalAmount.IsZero() {
		r.TotalAmount = order.TotalAmount
	}
	return OrderPlaced{
		Receipt:       r,
		ItemCount:     len(order.Items),
		PaymentMethod: utils.FirstNonEmpty(r.PaymentMethod, order.PaymentMethod),
	}
}

func failureOf(err error) AuthFailure {
	if apiclient.IsStatusError(err) {
		return FailureRejected
	}
	return FailureTransport
}
