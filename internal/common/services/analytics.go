// internal/common/services/analytics.go
package services

import (
	"context"
	"net/url"
	"time"
)

// AnalyticsClient fronts the analytics service for proxy passthrough.
type AnalyticsClient struct {
	*Client
}

func NewAnalyticsClient(baseURL string, timeout time.Duration) *AnalyticsClient {
	return &AnalyticsClient{Client: NewClient("analytics", baseURL, timeout)}
}

// SalesSummary forwards a sales-summary lookup for the given range and returns
// the upstream status and body verbatim.
func (c *AnalyticsClient) SalesSummary(ctx context.Context, rng string) (int, []byte, error) {
	return c.Forward(ctx, "GET", "/api/v1/analytics/sales-summary?range="+url.QueryEscape(rng), nil, "")
}
