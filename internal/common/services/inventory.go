// internal/common/services/inventory.go
package services

import (
	"context"
	"encoding/json"
	"net/url"
	"time"
)

// InventoryClient fronts the inventory service.
type InventoryClient struct {
	*Client
}

func NewInventoryClient(baseURL string, timeout time.Duration) *InventoryClient {
	return &InventoryClient{Client: NewClient("inventory", baseURL, timeout)}
}

// GetAvailability fetches stock availability for one product.
func (c *InventoryClient) GetAvailability(ctx context.Context, productID string) (json.RawMessage, error) {
	return c.GetJSON(ctx, "/api/v1/inventory/availability?product_id="+url.QueryEscape(productID))
}
