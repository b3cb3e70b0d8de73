// Package authresp decodes auth and customer responses whose shape varies
// between backend versions.
package authresp

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"

	"retailco/shopper/models"
)

var ErrNotFound = errors.New("no customer in response")

// Token field names, in precedence order.
var tokenFields = []string{"token", "authToken", "accessToken"}

// Identity locations, in precedence order. "@this" is the response root.
var identityPaths = []string{"customer", "@this"}

// Result is either Found (Identity set, Token possibly empty) or NotFound.
type Result struct {
	Token    string
	Identity *models.Customer
}

func (r Result) Found() bool {
	return r.Identity != nil
}

// Decode extracts the bearer token and the customer from an auth response.
func Decode(body []byte) Result {
	identity, ok := DecodeIdentity(body)
	if !ok {
		return Result{}
	}
	return Result{Token: decodeToken(body), Identity: identity}
}

// DecodeIdentity finds the customer either nested under "customer" or at
// the response root. A candidate must carry a customerId.
func DecodeIdentity(body []byte) (*models.Customer, bool) {
	if !gjson.ValidBytes(body) {
		return nil, false
	}
	for _, path := range identityPaths {
		v := gjson.GetBytes(body, path)
		if !v.IsObject() || !v.Get("customerId").Exists() {
			continue
		}
		var c models.Customer
		if err := json.Unmarshal([]byte(v.Raw), &c); err != nil {
			continue
		}
		return &c, true
	}
	return nil, false
}

func decodeToken(body []byte) string {
	for _, field := range tokenFields {
		v := gjson.GetBytes(body, field)
		if v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}
