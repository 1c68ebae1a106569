// internal/handlers/send-notification/handler.go
package sendnotification

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	gwerrors "ecommerce-gateway/internal/common/errors"
	"ecommerce-gateway/internal/common/logger"
	"ecommerce-gateway/internal/common/services"
)

const maxRequestBody = 256 * 1024

// Handler serves POST /proxy/notifications/send. With the service provider the
// raw body is forwarded to the notification service and the upstream status is
// propagated; with ses or sns the gateway delivers directly.
type Handler struct {
	config       *Config
	client       *services.NotificationsClient
	direct       *DirectSender
	errorHandler *gwerrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, client *services.NotificationsClient, direct *DirectSender, log logger.Logger) *Handler {
	return &Handler{
		config:       config,
		client:       client,
		direct:       direct,
		errorHandler: gwerrors.NewErrorHandler(log),
		logger:       log.WithFields(map[string]interface{}{"handler": "send-notification"}),
	}
}

func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		gwerrors.WriteErrorStatus(w, http.StatusMethodNotAllowed,
			gwerrors.NewInvalidRequestError("method not allowed"))
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		h.errorHandler.HandleHTTPError(w, r.URL.Path, gwerrors.NewInvalidRequestError("failed to read request body"))
		return
	}

	var req SendRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.errorHandler.HandleHTTPError(w, r.URL.Path, gwerrors.NewInvalidRequestError(err.Error()))
		return
	}
	if stdErr := validateSendRequest(&req); stdErr != nil {
		h.errorHandler.HandleHTTPError(w, r.URL.Path, stdErr)
		return
	}

	if h.config.Provider == ProviderService {
		h.forward(w, r, raw)
		return
	}

	resp, stdErr := h.direct.Send(r.Context(), &req)
	if stdErr != nil {
		h.errorHandler.HandleHTTPError(w, r.URL.Path, stdErr)
		return
	}
	gwerrors.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) forward(w http.ResponseWriter, r *http.Request, raw []byte) {
	status, body, err := h.client.Send(r.Context(), raw)
	if err != nil {
		ce := services.AsCallError("notifications", err)
		h.errorHandler.HandleHTTPError(w, r.URL.Path, callErrorToStandard(ce))
		return
	}

	// Upstream status and body pass through verbatim, success or not.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func validateSendRequest(req *SendRequest) *gwerrors.StandardError {
	var missing []string
	if strings.TrimSpace(req.ToEmail) == "" {
		missing = append(missing, "to_email")
	}
	if strings.TrimSpace(req.Subject) == "" {
		missing = append(missing, "subject")
	}
	if strings.TrimSpace(req.Body) == "" && req.TemplateID == "" {
		missing = append(missing, "body")
	}
	if len(missing) > 0 {
		return gwerrors.NewInvalidRequestError("missing required fields: " + strings.Join(missing, ", "))
	}
	if !strings.Contains(req.ToEmail, "@") {
		return gwerrors.NewInvalidRequestError("to_email is not a valid address")
	}
	return nil
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
