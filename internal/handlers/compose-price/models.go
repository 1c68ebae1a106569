// internal/handlers/compose-price/models.go
package composeprice

import (
	"encoding/json"

	"ecommerce-gateway/internal/common/services"
)

// Downstream service names. The keys of a ComposedResponse always equal the
// set of services consulted for the request; nothing is added or removed after
// the merge.
const (
	ServicePricing    = "pricing"
	ServiceInventory  = "inventory"
	ServicePromotions = "promotions"
)

// CompositionRequest identifies the product a composed price view is requested
// for. Immutable once decoded.
type CompositionRequest struct {
	ProductID         string `json:"product_id"`
	Currency          string `json:"currency"`
	IncludePromotions bool   `json:"include_promotions"`
}

// Per-call result status.
const (
	CallSucceeded = "success"
	CallFailed    = "failure"
)

// DownstreamResult is the outcome of one downstream call. Written exactly once
// by the call that produced it and never mutated after the merge.
type DownstreamResult struct {
	Status       string             `json:"status"`
	Payload      json.RawMessage    `json:"payload,omitempty"`
	ErrorKind    services.ErrorKind `json:"error_kind,omitempty"`
	ErrorMessage string             `json:"error_message,omitempty"`
}

// Overall request status.
type OverallStatus string

const (
	StatusComplete OverallStatus = "complete"
	StatusPartial  OverallStatus = "partial"
	StatusFailed   OverallStatus = "failed"
)

// ComposedResponse is the merged view returned for one composed request.
type ComposedResponse struct {
	Status     OverallStatus               `json:"status"`
	Results    map[string]DownstreamResult `json:"results"`
	TrackingID string                      `json:"tracking_id"`
	Cached     bool                        `json:"cached,omitempty"`
}

func successResult(payload json.RawMessage) DownstreamResult {
	return DownstreamResult{Status: CallSucceeded, Payload: payload}
}

func failureResult(err *services.CallError) DownstreamResult {
	return DownstreamResult{
		Status:       CallFailed,
		ErrorKind:    err.Kind,
		ErrorMessage: err.Message,
	}
}

func timeoutResult() DownstreamResult {
	return DownstreamResult{
		Status:       CallFailed,
		ErrorKind:    services.KindTimeout,
		ErrorMessage: "call unresolved at overall deadline",
	}
}
