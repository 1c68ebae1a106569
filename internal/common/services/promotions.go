// internal/common/services/promotions.go
package services

import (
	"context"
	"encoding/json"
	"net/url"
	"time"
)

// PromotionsClient fronts the promotions service.
type PromotionsClient struct {
	*Client
}

func NewPromotionsClient(baseURL string, timeout time.Duration) *PromotionsClient {
	return &PromotionsClient{Client: NewClient("promotions", baseURL, timeout)}
}

// GetActive fetches the active promotions applying to one product.
func (c *PromotionsClient) GetActive(ctx context.Context, productID, currency string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("product_id", productID)
	q.Set("currency", currency)
	return c.GetJSON(ctx, "/api/v1/promotions/active?"+q.Encode())
}
