// internal/handlers/sales-summary/handler.go
package salessummary

import (
	"net/http"

	gwerrors "ecommerce-gateway/internal/common/errors"
	"ecommerce-gateway/internal/common/logger"
	"ecommerce-gateway/internal/common/services"
)

// Handler serves GET /proxy/analytics/sales-summary. In service mode the call
// is forwarded to the analytics service and the upstream status is propagated;
// in direct mode the gateway queries the orders index itself.
type Handler struct {
	config       *Config
	client       *services.AnalyticsClient
	direct       *DirectQuerier
	errorHandler *gwerrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, client *services.AnalyticsClient, direct *DirectQuerier, log logger.Logger) *Handler {
	return &Handler{
		config:       config,
		client:       client,
		direct:       direct,
		errorHandler: gwerrors.NewErrorHandler(log),
		logger:       log.WithFields(map[string]interface{}{"handler": "sales-summary"}),
	}
}

func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		gwerrors.WriteErrorStatus(w, http.StatusMethodNotAllowed,
			gwerrors.NewInvalidRequestError("method not allowed"))
		return
	}

	// Range values pass through verbatim in service mode; only direct mode
	// restricts them to the windows it can aggregate.
	rng := r.URL.Query().Get("range")
	if rng == "" {
		rng = DefaultRange
	}

	if h.config.Mode == ModeDirect {
		summary, stdErr := h.direct.Summarize(r.Context(), rng)
		if stdErr != nil {
			h.errorHandler.HandleHTTPError(w, r.URL.Path, stdErr)
			return
		}
		gwerrors.WriteJSON(w, http.StatusOK, summary)
		return
	}

	status, body, err := h.client.SalesSummary(r.Context(), rng)
	if err != nil {
		ce := services.AsCallError("analytics", err)
		h.errorHandler.HandleHTTPError(w, r.URL.Path, callErrorToStandard(ce))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func callErrorToStandard(ce *services.CallError) *gwerrors.StandardError {
	switch ce.Kind {
	case services.KindTimeout:
		return gwerrors.NewUpstreamTimeoutError(ce.Service)
	case services.KindMalformedResponse:
		return gwerrors.NewMalformedUpstreamError(ce.Service, ce.Message)
	default:
		return gwerrors.NewUpstreamUnreachableError(ce.Service, ce)
	}
}
