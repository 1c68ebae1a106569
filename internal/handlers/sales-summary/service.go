// internal/handlers/sales-summary/service.go
package salessummary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"ecommerce-gateway/internal/common/database"
	gwerrors "ecommerce-gateway/internal/common/errors"
	"ecommerce-gateway/internal/common/logger"
)

var rangeWindows = map[string]string{
	RangeDay:   "now-24h",
	RangeWeek:  "now-7d/d",
	RangeMonth: "now-30d/d",
}

// DirectQuerier aggregates sales figures straight from the orders index,
// bypassing the analytics service.
type DirectQuerier struct {
	config *Config
	es     *database.ElasticsearchClient
	logger logger.Logger
}

func NewDirectQuerier(config *Config, es *database.ElasticsearchClient, log logger.Logger) *DirectQuerier {
	return &DirectQuerier{
		config: config,
		es:     es,
		logger: log.WithFields(map[string]interface{}{"component": "sales-querier"}),
	}
}

func (q *DirectQuerier) Summarize(ctx context.Context, rng string) (*Summary, *gwerrors.StandardError) {
	window, ok := rangeWindows[rng]
	if !ok {
		return nil, gwerrors.NewInvalidRequestError(fmt.Sprintf("range must be one of 24h, 7d, 30d, got %q", rng))
	}

	query := fmt.Sprintf(`{
		"size": 0,
		"query": {
			"range": {
				"created_at": {"gte": %q}
			}
		},
		"aggs": {
			"total_revenue": {"sum": {"field": "total"}}
		}
	}`, window)

	res, err := q.es.Client.Search(
		q.es.Client.Search.WithContext(ctx),
		q.es.Client.Search.WithIndex(q.config.OrdersIndex),
		q.es.Client.Search.WithBody(strings.NewReader(query)),
	)
	if err != nil {
		q.logger.Error("orders search failed", map[string]interface{}{
			"index": q.config.OrdersIndex,
			"error": err.Error(),
		})
		return nil, gwerrors.NewAnalyticsQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return nil, gwerrors.NewAnalyticsQueryFailedError(fmt.Errorf("elasticsearch returned %s: %s", res.Status(), raw))
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
		} `json:"hits"`
		Aggregations struct {
			TotalRevenue struct {
				Value float64 `json:"value"`
			} `json:"total_revenue"`
		} `json:"aggregations"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, gwerrors.NewAnalyticsQueryFailedError(fmt.Errorf("decode search response: %w", err))
	}

	summary := &Summary{
		Range:        rng,
		TotalOrders:  parsed.Hits.Total.Value,
		TotalRevenue: parsed.Aggregations.TotalRevenue.Value,
		Source:       "orders-index",
	}
	if summary.TotalOrders > 0 {
		summary.AverageOrder = summary.TotalRevenue / float64(summary.TotalOrders)
	}
	return summary, nil
}
