package models

import "github.com/shopspring/decimal"

func init() {
	// Prices and totals travel as JSON numbers, the way the order service expects them.
	decimal.MarshalJSONWithoutQuotes = true
}

// Customer is the signed-in shopper's identity as returned by the customer service.
type Customer struct {
	CustomerID       int64           `json:"customerId"`
	FirstName        string          `json:"firstName"`
	LastName         string          `json:"lastName"`
	Email            string          `json:"email"`
	Phone            string          `json:"phone,omitempty"`
	Address          string          `json:"address,omitempty"`
	City             string          `json:"city,omitempty"`
	State            string          `json:"state,omitempty"`
	ZipCode          string          `json:"zipCode,omitempty"`
	Country          string          `json:"country,omitempty"`
	CustomerSegment  string          `json:"customerSegment"`
	LifetimeValue    decimal.Decimal `json:"lifetimeValue"`
	RegistrationDate string          `json:"registrationDate,omitempty"`
}

type RegisterRequest struct {
	FirstName       string `json:"firstName" binding:"required"`
	LastName        string `json:"lastName" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	City            string `json:"city"`
	State           string `json:"state"`
	ZipCode         string `json:"zipCode"`
	Country         string `json:"country"`
	CustomerSegment string `json:"customerSegment,omitempty"`
}

// LoginRequest.Password is required unless AUTH_MODE=lookup. The login
// handler enforces it.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
}
