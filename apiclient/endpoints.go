package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"retailco/shopper/authresp"
	"retailco/shopper/models"
)

// maxErrorBody caps how much of an error response is kept in StatusError.
const maxErrorBody = 512

func (c *Client) fetch(ctx context.Context, op, method, path string, body any) ([]byte, error) {
	resp, err := c.Do(ctx, method, path, body, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(data) > maxErrorBody {
			data = data[:maxErrorBody]
		}
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

func (c *Client) fetchJSON(ctx context.Context, op, method, path string, body, out any) error {
	data, err := c.fetch(ctx, op, method, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.fetchJSON(ctx, "catalog: list", http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	path := "/products/search?" + url.Values{"query": {query}}.Encode()
	var products []models.Product
	if err := c.fetchJSON(ctx, "catalog: search", http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) LogEvent(ctx context.Context, event models.TelemetryEvent) error {
	return c.fetchJSON(ctx, "events: log", http.MethodPost, "/events", event, nil)
}

func (c *Client) PlaceOrder(ctx context.Context, order models.Order) (*models.OrderReceipt, error) {
	var receipt models.OrderReceipt
	if err := c.fetchJSON(ctx, "checkout: place order", http.MethodPost, "/checkout", order, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (c *Client) GetCustomer(ctx context.Context, customerID int64) (*models.Customer, error) {
	data, err := c.fetch(ctx, "customers: get", http.MethodGet, "/customers/"+strconv.FormatInt(customerID, 10), nil)
	if err != nil {
		return nil, err
	}
	customer, ok := authresp.DecodeIdentity(data)
	if !ok {
		return nil, fmt.Errorf("customers: get: %w", authresp.ErrNotFound)
	}
	return customer, nil
}

// CurrentCustomer probes /me with the stored credential.
func (c *Client) CurrentCustomer(ctx context.Context) (*models.Customer, error) {
	data, err := c.fetch(ctx, "session: probe", http.MethodGet, "/me", nil)
	if err != nil {
		return nil, err
	}
	customer, ok := authresp.DecodeIdentity(data)
	if !ok {
		return nil, fmt.Errorf("session: probe: %w", authresp.ErrNotFound)
	}
	return customer, nil
}

// Register returns the raw 2xx body for authresp.Decode.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) ([]byte, error) {
	return c.fetch(ctx, "auth: register", http.MethodPost, "/auth/register", req)
}

// Login returns the raw 2xx body for authresp.Decode.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) ([]byte, error) {
	return c.fetch(ctx, "auth: login", http.MethodPost, "/auth/login", req)
}

func (c *Client) SearchCustomersByEmail(ctx context.Context, email string) ([]models.Customer, error) {
	path := "/customers/search?" + url.Values{"email": {email}}.Encode()
	var customers []models.Customer
	if err := c.fetchJSON(ctx, "customers: search", http.MethodGet, path, nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (c *Client) ListOrders(ctx context.Context, customerID int64) ([]models.OrderReceipt, error) {
	var orders []models.OrderReceipt
	path := "/orders/" + strconv.FormatInt(customerID, 10)
	if err := c.fetchJSON(ctx, "orders: list", http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
