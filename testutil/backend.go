// Package testutil provides an in-process stand-in for the remote retail
// services (catalog, orders, customers, auth, events) for tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"retailco/shopper/models"
)

const firstOrderID = 1001

type account struct {
	customer models.Customer
	hash     []byte
}

// Backend is a fake retail API served by gin over httptest. Bearer tokens
// are real HS256 JWTs signed with Secret.
type Backend struct {
	Secret []byte
	// TokenField is the response field carrying the token on register and
	// login ("token", "authToken" or "accessToken").
	TokenField string
	// FlatIdentity puts the customer at the response root instead of under
	// "customer".
	FlatIdentity bool
	// AfterRoute, when set, runs once a route (e.g. "POST /checkout") has
	// been handled and before its response is flushed to the client.
	AfterRoute func(route string)

	server *httptest.Server

	mu       sync.Mutex
	accounts map[int64]*account
	nextID   int64
	nextOrd  int64
	products []models.Product
	orders   []models.OrderReceipt
	placed   []models.Order
	events   []models.TelemetryEvent
	calls    []string
	fail     map[string]int
}

// NewBackend starts a Backend that is closed when the test ends.
func NewBackend(t testing.TB) *Backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &Backend{
		Secret:     []byte("backend-test-secret"),
		TokenField: "token",
		accounts:   make(map[int64]*account),
		nextID:     1,
		nextOrd:    firstOrderID,
		fail:       make(map[string]int),
		products: []models.Product{
			{ProductID: 101, ProductName: "Trail Runner", Category: "Footwear", UnitPrice: decimal.RequireFromString("89.99"), StockQuantity: 12},
			{ProductID: 102, ProductName: "Rain Shell", Category: "Apparel", UnitPrice: decimal.RequireFromString("129.95"), StockQuantity: 4},
		},
	}
	b.server = httptest.NewServer(b.router())
	t.Cleanup(b.server.Close)
	return b
}

// URL is the API base URL, including the /api prefix.
func (b *Backend) URL() string {
	return b.server.URL + "/api"
}

func (b *Backend) router() *gin.Engine {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	r := gin.New()
	r.Use(b.record)

	api := r.Group("/api")
	{
		api.GET("/products", b.listProducts)
		api.GET("/products/search", b.searchProducts)
		api.POST("/events", b.logEvent)
		api.POST("/checkout", b.checkout)
		api.GET("/customers/search", b.searchCustomers)
		api.GET("/customers/:id", b.getCustomer)
		api.POST("/auth/register", b.register)
		api.POST("/auth/login", b.login)

		protected := api.Group("/")
		protected.Use(BearerAuth(b.Secret, log))
		{
			protected.GET("/me", b.me)
			protected.GET("/orders/:customerId", b.listOrders)
		}
	}
	return r
}

// record logs every call and applies FailWith overrides.
func (b *Backend) record(c *gin.Context) {
	route := c.Request.Method + " " + strings.TrimPrefix(c.FullPath(), "/api")

	b.mu.Lock()
	b.calls = append(b.calls, c.Request.Method+" "+strings.TrimPrefix(c.Request.URL.Path, "/api"))
	status, failing := b.fail[route]
	b.mu.Unlock()

	if failing {
		c.AbortWithStatusJSON(status, gin.H{"error": "forced failure"})
		return
	}
	c.Next()

	if b.AfterRoute != nil {
		b.AfterRoute(route)
	}
}

// FailWith makes route (e.g. "GET /customers/:id") answer with status.
func (b *Backend) FailWith(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[route] = status
}

// AddCustomer stores a customer with the given password and returns it
// with its assigned id.
func (b *Backend) AddCustomer(c models.Customer, password string) models.Customer {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	c.CustomerID = b.nextID
	b.nextID++
	if c.CustomerSegment == "" {
		c.CustomerSegment = "New"
	}
	b.accounts[c.CustomerID] = &account{customer: c, hash: hash}
	return c
}

// IssueToken signs a token for customerID valid for ttl.
func (b *Backend) IssueToken(customerID int64, ttl time.Duration) string {
	token, err := IssueJWT(&models.Customer{CustomerID: customerID}, b.Secret, ttl)
	if err != nil {
		panic(err)
	}
	return token
}

func (b *Backend) Products() []models.Product {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Product(nil), b.products...)
}

// Calls returns "METHOD /path" for every request received, in order.
func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *Backend) Events() []models.TelemetryEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.TelemetryEvent(nil), b.events...)
}

// PlacedOrders returns the order bodies received by /checkout.
func (b *Backend) PlacedOrders() []models.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Order(nil), b.placed...)
}

func (b *Backend) Customer(id int64) (models.Customer, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.accounts[id]
	if !ok {
		return models.Customer{}, false
	}
	return a.customer, true
}

func (b *Backend) listProducts(c *gin.Context) {
	c.JSON(http.StatusOK, b.Products())
}

func (b *Backend) searchProducts(c *gin.Context) {
	q := strings.ToLower(c.Query("query"))
	out := []models.Product{}
	for _, p := range b.Products() {
		if strings.Contains(strings.ToLower(p.ProductName), q) || strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (b *Backend) logEvent(c *gin.Context) {
	var ev models.TelemetryEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	b.mu.Lock()
	b.events = append(b.events, ev)
	b.mu.Unlock()
	c.Status(http.StatusCreated)
}

func (b *Backend) checkout(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.accounts[order.CustomerID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	a.customer.LifetimeValue = a.customer.LifetimeValue.Add(order.TotalAmount)

	receipt := models.OrderReceipt{
		OrderID:         b.nextOrd,
		CustomerID:      order.CustomerID,
		OrderStatus:     order.OrderStatus,
		PaymentMethod:   order.PaymentMethod,
		ShippingAddress: order.ShippingAddress,
		TotalAmount:     order.TotalAmount,
		OrderDate:       time.Now().UTC().Format(time.RFC3339),
	}
	b.nextOrd++
	b.placed = append(b.placed, order)
	b.orders = append(b.orders, receipt)
	c.JSON(http.StatusCreated, receipt)
}

func (b *Backend) searchCustomers(c *gin.Context) {
	email := c.Query("email")
	out := []models.Customer{}
	b.mu.Lock()
	for _, a := range b.accounts {
		if strings.EqualFold(a.customer.Email, email) {
			out = append(out, a.customer)
		}
	}
	b.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (b *Backend) getCustomer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer id"})
		return
	}
	customer, ok := b.Customer(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (b *Backend) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if b.emailTaken(req.Email) {
		c.JSON(http.StatusConflict, gin.H{"error": "Customer with this email already exists"})
		return
	}

	customer := b.AddCustomer(models.Customer{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		City:             req.City,
		State:            req.State,
		ZipCode:          req.ZipCode,
		Country:          req.Country,
		CustomerSegment:  req.CustomerSegment,
		LifetimeValue:    decimal.Zero,
		RegistrationDate: time.Now().UTC().Format("2006-01-02"),
	}, req.Password)

	b.authResponse(c, http.StatusCreated, customer)
}

func (b *Backend) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	b.mu.Lock()
	var found *account
	for _, a := range b.accounts {
		if strings.EqualFold(a.customer.Email, req.Email) {
			found = a
			break
		}
	}
	b.mu.Unlock()

	if found == nil || bcrypt.CompareHashAndPassword(found.hash, []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	b.authResponse(c, http.StatusOK, found.customer)
}

func (b *Backend) authResponse(c *gin.Context, status int, customer models.Customer) {
	token, err := IssueJWT(&customer, b.Secret, time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate authentication token"})
		return
	}

	if b.FlatIdentity {
		body := gin.H{
			"customerId":       customer.CustomerID,
			"firstName":        customer.FirstName,
			"lastName":         customer.LastName,
			"email":            customer.Email,
			"address":          customer.Address,
			"customerSegment":  customer.CustomerSegment,
			"lifetimeValue":    customer.LifetimeValue,
			"registrationDate": customer.RegistrationDate,
			b.TokenField:       token,
		}
		c.JSON(status, body)
		return
	}
	c.JSON(status, gin.H{b.TokenField: token, "customer": customer})
}

func (b *Backend) me(c *gin.Context) {
	customer, ok := b.Customer(c.GetInt64(CustomerIDKey))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (b *Backend) listOrders(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("customerId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer id"})
		return
	}
	if id != c.GetInt64(CustomerIDKey) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	b.mu.Lock()
	out := []models.OrderReceipt{}
	for _, o := range b.orders {
		if o.CustomerID == id {
			out = append(out, o)
		}
	}
	b.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (b *Backend) emailTaken(email string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.accounts {
		if strings.EqualFold(a.customer.Email, email) {
			return true
		}
	}
	return false
}
