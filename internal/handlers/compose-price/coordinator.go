// internal/handlers/compose-price/coordinator.go
package composeprice

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	gwerrors "ecommerce-gateway/internal/common/errors"
	"ecommerce-gateway/internal/common/logger"
	"ecommerce-gateway/internal/common/observability"
	"ecommerce-gateway/internal/common/services"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// Caller is one downstream data source consulted by a composed request.
type Caller interface {
	Name() string
	Call(ctx context.Context, req *CompositionRequest) (json.RawMessage, error)
}

// Coordinator fans one composed request out to every required downstream,
// collects each outcome independently and merges them once all calls resolved
// or the overall deadline elapsed. It holds no state across requests.
type Coordinator struct {
	config     *Config
	pricing    Caller
	inventory  Caller
	promotions Caller
	cache      *Cache
	tracing    *observability.Tracing
	logger     logger.Logger
}

func NewCoordinator(config *Config, pricing, inventory, promotions Caller, cache *Cache, tracing *observability.Tracing, log logger.Logger) *Coordinator {
	return &Coordinator{
		config:     config,
		pricing:    pricing,
		inventory:  inventory,
		promotions: promotions,
		cache:      cache,
		tracing:    tracing,
		logger:     log.WithFields(map[string]interface{}{"component": "compose-coordinator"}),
	}
}

type indexedResult struct {
	name   string
	result DownstreamResult
}

// Compose produces the merged price view for one request. Per-call failures
// are contained in the per-service entries; only a malformed request or total
// downstream failure surfaces as an error.
func (co *Coordinator) Compose(ctx context.Context, req *CompositionRequest) (*ComposedResponse, *gwerrors.StandardError) {
	if strings.TrimSpace(req.ProductID) == "" {
		return nil, gwerrors.NewInvalidRequestError("product_id must not be empty")
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}

	if co.cache != nil {
		if cached, ok := co.cache.Get(ctx, req); ok {
			return cached, nil
		}
	}

	callers := []Caller{co.pricing, co.inventory}
	if req.IncludePromotions {
		callers = append(callers, co.promotions)
	}

	overallCtx, cancel := context.WithTimeout(ctx, co.config.OverallDeadline)
	defer cancel()

	// Each call owns its result exclusively; the buffered channel means a late
	// write after the deadline lands in the buffer and is simply discarded.
	resultCh := make(chan indexedResult, len(callers))
	for _, caller := range callers {
		go co.callOne(overallCtx, caller, req, resultCh)
	}

	results := make(map[string]DownstreamResult, len(callers))
collect:
	for len(results) < len(callers) {
		select {
		case r := <-resultCh:
			results[r.name] = r.result
		case <-overallCtx.Done():
			break collect
		}
	}

	resolveRemaining(resultCh, results, callers)

	succeeded := 0
	for _, r := range results {
		if r.Status == CallSucceeded {
			succeeded++
		}
	}

	if succeeded == 0 {
		return nil, gwerrors.NewAllUpstreamsFailedError(describeFailures(results))
	}

	status := StatusComplete
	if succeeded < len(callers) {
		status = StatusPartial
	}

	resp := &ComposedResponse{
		Status:     status,
		Results:    results,
		TrackingID: uuid.NewString(),
	}

	if co.cache != nil && status == StatusComplete {
		co.cache.Put(ctx, req, resp)
	}

	co.logger.Info("composed response built", map[string]interface{}{
		"productId":  req.ProductID,
		"status":     string(status),
		"services":   len(callers),
		"succeeded":  succeeded,
		"trackingId": resp.TrackingID,
	})

	return resp, nil
}

func (co *Coordinator) callOne(ctx context.Context, caller Caller, req *CompositionRequest, out chan<- indexedResult) {
	if co.tracing != nil {
		spanCtx, span := co.tracing.StartSpan(ctx, "downstream."+caller.Name(),
			attribute.String("product_id", req.ProductID))
		defer span.End()
		ctx = spanCtx
	}

	payload, err := caller.Call(ctx, req)
	if err != nil {
		ce := services.AsCallError(caller.Name(), err)
		co.logger.Warn("downstream call failed", map[string]interface{}{
			"service":   caller.Name(),
			"errorKind": string(ce.Kind),
			"error":     ce.Message,
		})
		out <- indexedResult{name: caller.Name(), result: failureResult(ce)}
		return
	}

	out <- indexedResult{name: caller.Name(), result: successResult(payload)}
}

// resolveRemaining runs after the deadline cut the collect loop short. Results
// that landed in the buffer before the cutoff still count; everything else is
// forced to a timeout failure.
func resolveRemaining(resultCh <-chan indexedResult, results map[string]DownstreamResult, callers []Caller) {
drain:
	for len(results) < len(callers) {
		select {
		case r := <-resultCh:
			results[r.name] = r.result
		default:
			break drain
		}
	}

	for _, caller := range callers {
		if _, ok := results[caller.Name()]; !ok {
			results[caller.Name()] = timeoutResult()
		}
	}
}

func describeFailures(results map[string]DownstreamResult) string {
	parts := make([]string, 0, len(results))
	for name, r := range results {
		parts = append(parts, fmt.Sprintf("%s: %s", name, r.ErrorKind))
	}
	return strings.Join(parts, ", ")
}

// --- Concrete callers over the typed service clients ---

type pricingCaller struct {
	client *services.PricingClient
}

func NewPricingCaller(client *services.PricingClient) Caller {
	return &pricingCaller{client: client}
}

func (p *pricingCaller) Name() string { return ServicePricing }

func (p *pricingCaller) Call(ctx context.Context, req *CompositionRequest) (json.RawMessage, error) {
	return p.client.QueryPrice(ctx, services.PriceQuery{
		ProductID:         req.ProductID,
		Currency:          req.Currency,
		IncludePromotions: req.IncludePromotions,
	})
}

type inventoryCaller struct {
	client *services.InventoryClient
}

func NewInventoryCaller(client *services.InventoryClient) Caller {
	return &inventoryCaller{client: client}
}

func (i *inventoryCaller) Name() string { return ServiceInventory }

func (i *inventoryCaller) Call(ctx context.Context, req *CompositionRequest) (json.RawMessage, error) {
	return i.client.GetAvailability(ctx, req.ProductID)
}

type promotionsCaller struct {
	client *services.PromotionsClient
}

func NewPromotionsCaller(client *services.PromotionsClient) Caller {
	return &promotionsCaller{client: client}
}

func (p *promotionsCaller) Name() string { return ServicePromotions }

func (p *promotionsCaller) Call(ctx context.Context, req *CompositionRequest) (json.RawMessage, error) {
	return p.client.GetActive(ctx, req.ProductID, req.Currency)
}
