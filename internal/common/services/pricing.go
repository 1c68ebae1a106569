// internal/common/services/pricing.go
package services

import (
	"context"
	"encoding/json"
	"time"
)

// PriceQuery is the request body the price service expects.
type PriceQuery struct {
	ProductID         string `json:"product_id"`
	Currency          string `json:"currency"`
	IncludePromotions bool   `json:"include_promotions"`
}

// PricingClient fronts the price service.
type PricingClient struct {
	*Client
}

func NewPricingClient(baseURL string, timeout time.Duration) *PricingClient {
	return &PricingClient{Client: NewClient("pricing", baseURL, timeout)}
}

// QueryPrice fetches the price view for one product.
func (c *PricingClient) QueryPrice(ctx context.Context, query PriceQuery) (json.RawMessage, error) {
	return c.PostJSON(ctx, "/api/v1/prices/query", query)
}
