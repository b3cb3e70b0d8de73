// Package catalog is the read-only view of the product service.
package catalog

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"retailco/shopper/models"
)

type ProductAPI interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
}

type Gateway struct {
	api ProductAPI
	log logrus.FieldLogger
}

func NewGateway(api ProductAPI, log logrus.FieldLogger) *Gateway {
	return &Gateway{api: api, log: log}
}

// ListAll returns the full catalog, or the built-in list when the product
// service fails in any way. It never errors.
func (g *Gateway) ListAll(ctx context.Context) []models.Product {
	products, err := g.api.ListProducts(ctx)
	if err != nil {
		g.log.WithError(err).Warn("Error fetching products, using built-in catalog")
		return FallbackProducts()
	}
	if products == nil {
		products = []models.Product{}
	}
	return products
}

// Search queries the product service. A blank query is ListAll. Unlike
// ListAll, failures are returned and there is no fallback.
func (g *Gateway) Search(ctx context.Context, query string) ([]models.Product, error) {
	if strings.TrimSpace(query) == "" {
		return g.ListAll(ctx), nil
	}
	products, err := g.api.SearchProducts(ctx, query)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}
