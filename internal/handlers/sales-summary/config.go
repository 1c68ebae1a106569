// internal/handlers/sales-summary/config.go
package salessummary

// Mode selects where sales summaries come from.
const (
	ModeService = "service"
	ModeDirect  = "direct"
)

// Summary ranges, matching the analytics service contract. Service mode
// forwards whatever the client sent; direct mode only understands these.
const (
	RangeDay   = "24h"
	RangeWeek  = "7d"
	RangeMonth = "30d"

	DefaultRange = RangeWeek
)

// Config holds the analytics proxy settings.
type Config struct {
	// Mode is service for passthrough to the analytics service or direct for an
	// aggregation against the orders index.
	Mode string

	OrdersIndex string
}
