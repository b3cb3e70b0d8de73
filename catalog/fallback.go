package catalog

import (
	_ "embed"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"retailco/shopper/models"
)

//go:embed fallback_products.yaml
var fallbackYAML []byte

type fallbackEntry struct {
	models.Product `yaml:",inline"`
	UnitPrice      string `yaml:"unitPrice"`
}

func parseFallback(data []byte) ([]models.Product, error) {
	var entries []fallbackEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse fallback catalog: %w", err)
	}

	products := make([]models.Product, 0, len(entries))
	for _, e := range entries {
		price, err := decimal.NewFromString(e.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("product %d: invalid unitPrice %q: %w", e.ProductID, e.UnitPrice, err)
		}
		p := e.Product
		p.UnitPrice = price
		products = append(products, p)
	}
	return products, nil
}

// FallbackProducts returns a fresh copy of the built-in catalog.
func FallbackProducts() []models.Product {
	products, err := parseFallback(fallbackYAML)
	if err != nil {
		// The file is embedded at build time; a parse error is a build defect.
		panic(err)
	}
	return products
}
