// internal/handlers/sales-summary/models.go
package salessummary

// Summary is the aggregated sales view produced by direct mode. The service
// mode passthrough returns the analytics service body verbatim instead.
type Summary struct {
	Range        string  `json:"range"`
	TotalOrders  int64   `json:"total_orders"`
	TotalRevenue float64 `json:"total_revenue"`
	AverageOrder float64 `json:"average_order_value"`
	Source       string  `json:"source"`
}
