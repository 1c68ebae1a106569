// internal/httpapi/router.go
package httpapi

import (
	"net/http"

	gwerrors "ecommerce-gateway/internal/common/errors"
	"ecommerce-gateway/internal/common/logger"
	composeprice "ecommerce-gateway/internal/handlers/compose-price"
	"ecommerce-gateway/internal/handlers/health"
	salessummary "ecommerce-gateway/internal/handlers/sales-summary"
	sendnotification "ecommerce-gateway/internal/handlers/send-notification"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig wires the route handlers into one gateway mux.
type RouterConfig struct {
	Health        *health.Handler
	Compose       *composeprice.Handler
	Notifications *sendnotification.Handler
	Analytics     *salessummary.Handler

	// Validator guards the compose and proxy routes; nil disables auth.
	Validator      KeyValidator
	AllowedOrigins []string
	Logger         logger.Logger
}

// NewRouter builds the gateway handler chain. Health, metrics and docs stay
// outside authentication; everything else requires an API key when a
// validator is configured.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", cfg.Health.HandleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/docs/websocket", handleWebsocketDocs)

	authed := func(h http.HandlerFunc) http.Handler {
		return WithAPIKeyAuth(cfg.Validator, cfg.Logger, h)
	}
	mux.Handle("/compose/product-price", authed(cfg.Compose.HandleCompose))
	mux.Handle("/proxy/notifications/send", authed(cfg.Notifications.HandleSend))
	mux.Handle("/proxy/analytics/sales-summary", authed(cfg.Analytics.HandleSummary))

	var handler http.Handler = mux
	handler = WithCORS(cfg.AllowedOrigins, handler)
	handler = WithLogging(cfg.Logger, handler)
	handler = WithRequestID(handler)
	handler = WithRecovery(cfg.Logger, handler)
	return handler
}

// handleWebsocketDocs describes the streaming surface some clients still probe
// for. The gateway does not serve websockets; the payload points at the HTTP
// routes instead.
func handleWebsocketDocs(w http.ResponseWriter, r *http.Request) {
	gwerrors.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"websocket": false,
		"message":   "streaming is not supported, use the HTTP endpoints",
		"endpoints": []string{
			"POST /compose/product-price",
			"POST /proxy/notifications/send",
			"GET /proxy/analytics/sales-summary",
		},
	})
}
